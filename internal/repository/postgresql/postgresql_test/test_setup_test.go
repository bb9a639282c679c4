// Package postgresql_test runs the repositories against a real database.
// Tests skip unless TEST_DATABASE_URL is set.
package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var truncatedTables = []string{
	"outbox_events",
	"files",
	"auth_blacklisted_tokens",
	"attendance_records",
	"users",
	"employees",
}

// newTestDatabase connects, applies migrations and empties every table.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.DefaultPoolOptions())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range truncatedTables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func seedEmployee(t *testing.T, db *database.DB, code, name string, department *string) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO employees (employee_code, email, full_name, department)
		VALUES ($1, $2, $3, $4)
	`, code, code+"@example.com", name, department)
	require.NoError(t, err)
}
