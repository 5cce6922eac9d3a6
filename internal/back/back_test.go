package back // nolint:testpackage

import (
	"path/filepath"
	"testing"

	migratepkg "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

// newTestBack returns a Back over a migrated throwaway database.
func newTestBack(t *testing.T) *Back {
	t.Helper()

	b, err := New("sqlite3", filepath.Join(t.TempDir(), "rankle-test.db"))
	if err != nil {
		t.Fatal(err)
	}

	driver, err := sqlite3.WithInstance(b.db.DB, &sqlite3.Config{})
	if err != nil {
		t.Fatal(err)
	}

	m, err := migratepkg.NewWithDatabaseInstance("file://../../migrations", "sqlite3", driver)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Up(); err != nil {
		t.Fatal(err)
	}

	return b
}
