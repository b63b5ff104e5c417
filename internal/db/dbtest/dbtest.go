// Package dbtest connects tests to the Postgres database named by
// TEST_DATABASE_URL. Tests that need it are skipped when the variable is unset.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/Suraj182004/saaraansh/internal/db"
	"github.com/uptrace/bun"
)

const EnvDatabaseURL = "TEST_DATABASE_URL"

// Open returns a migrated database with every table truncated. The
// connection is closed when the test ends.
func Open(t *testing.T) *bun.DB {
	t.Helper()
	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	bunDB := db.NewBunPostgresClient(dsn)
	t.Cleanup(func() { _ = bunDB.Close() })

	ctx := context.Background()
	if _, err := db.Migrate(ctx, bunDB); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	Truncate(t, bunDB)
	return bunDB
}

// Truncate empties the application tables.
func Truncate(t *testing.T, bunDB bun.IDB) {
	t.Helper()
	if _, err := bunDB.NewRaw("TRUNCATE TABLE summaries, accounts CASCADE").Exec(context.Background()); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
