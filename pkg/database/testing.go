package database

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest opens a migrated, file-backed database under t.TempDir so
// tests exercise the same driver and pragmas as production code.
func OpenTest(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
