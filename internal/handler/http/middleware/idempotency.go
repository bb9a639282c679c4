package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	IdempotencyLockTTL   = 30 * time.Second
	IdempotencyReplayTTL = 24 * time.Hour
)

type idempotentResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, EmployeeOrIP(r), key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency guards POST requests carrying an Idempotency-Key header. While
// the first request runs, duplicates get 409 REQUEST_IN_PROGRESS; once it
// succeeds its response is replayed for the same key. A nil client disables
// the middleware, and redis failures let the request through unguarded.
func Idempotency(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(HeaderIdempotencyKey)
			if idempKey == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, idempKey)

			cached, err := rdb.Get(ctx, cacheKey).Bytes()
			if err == nil {
				var saved idempotentResponse
				if jsonErr := json.Unmarshal(cached, &saved); jsonErr == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(HeaderReplayed, "true")
					w.WriteHeader(saved.Status)
					_, _ = w.Write(saved.Body)
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				slog.WarnContext(ctx, "idempotency lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", IdempotencyLockTTL).Result()
			if err != nil {
				slog.WarnContext(ctx, "idempotency lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Error(w, http.StatusConflict, apperror.CodeRequestInProgress,
					"A request with this idempotency key is already in progress", nil)
				return
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			body := new(bytes.Buffer)
			ww.Tee(body)

			next.ServeHTTP(ww, r)

			// The client may be gone already; the bookkeeping still has to land.
			bg := context.WithoutCancel(ctx)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= 200 && status < 300 {
				data, err := json.Marshal(idempotentResponse{Status: status, Body: body.Bytes()})
				if err == nil {
					if err := rdb.Set(bg, cacheKey, data, IdempotencyReplayTTL).Err(); err != nil {
						slog.WarnContext(ctx, "idempotency store failed", "key", cacheKey, "error", err)
					}
				}
			}
			if err := rdb.Del(bg, lockKey).Err(); err != nil {
				slog.WarnContext(ctx, "idempotency unlock failed", "key", lockKey, "error", err)
			}
		})
	}
}
