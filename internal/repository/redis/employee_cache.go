// Package redis holds read-through caches in front of the postgres repositories.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/employee"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const EmployeeCodeKeyPrefix = "employee:code:"

func EmployeeCodeKey(code string) string {
	return EmployeeCodeKeyPrefix + code
}

type cachedEmployeeRepository struct {
	next employee.EmployeeRepository
	rdb  *goredis.Client
	ttl  time.Duration
	sf   *singleflight.Group
}

// NewCachedEmployeeRepository wraps next with a redis read-through cache.
// Redis failures fall back to next; a nil client disables caching.
func NewCachedEmployeeRepository(next employee.EmployeeRepository, rdb *goredis.Client, ttl time.Duration) employee.EmployeeRepository {
	if rdb == nil {
		return next
	}
	return &cachedEmployeeRepository{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		sf:   &singleflight.Group{},
	}
}

type cachedEmployee struct {
	Code       string     `json:"code"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	JoinDate   *time.Time `json:"joinDate"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *cachedEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	key := EmployeeCodeKey(code)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var ce cachedEmployee
		if jsonErr := json.Unmarshal([]byte(cached), &ce); jsonErr == nil {
			return employee.Employee(ce), nil
		}
	case !errors.Is(err, goredis.Nil):
		slog.WarnContext(ctx, "employee cache read failed", "key", key, "error", err)
	}

	// Shared by every waiter on key, so one caller's cancel must not fail the rest
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		emp, err := c.next.GetByCode(loadCtx, code)
		if err != nil {
			return employee.Employee{}, err
		}

		if data, err := json.Marshal(cachedEmployee(emp)); err == nil {
			if err := c.rdb.Set(loadCtx, key, data, c.ttl).Err(); err != nil {
				slog.WarnContext(loadCtx, "employee cache write failed", "key", key, "error", err)
			}
		}
		return emp, nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	return v.(employee.Employee), nil
}
