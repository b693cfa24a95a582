// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jonathan/interview-prep/internal/db"
	"gorm.io/driver/sqlite"
)

// New returns a migrated sqlite database private to the test.
func New(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is a separate database
	database.SQL().SetMaxOpenConns(1)

	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(database.Close)
	return database
}
