// Package testutil provides shared test helpers for setting up output directories and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/scrivener/internal/storage"
)

// TestDB creates a temporary SQLite backend that is automatically closed.
func TestDB(t *testing.T) *storage.SQLite {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "scrivener-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestOutput creates a temporary output directory with an FS backend.
func TestOutput(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// ReadRendering returns the contents of <dir>/<name>.txt.
func ReadRendering(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name+storage.Ext))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Failing returns a backend whose every save fails with err.
func Failing(err error) storage.Storage {
	return storage.Func(func(string) error { return err })
}
