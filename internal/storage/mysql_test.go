package storage

import (
	"os"
	"testing"
)

func TestMySQLSaveAndLatest(t *testing.T) {
	dsn := os.Getenv("SCRIVENER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SCRIVENER_TEST_MYSQL_DSN not set")
	}
	m, err := OpenMySQL(dsn)
	if err != nil {
		t.Fatalf("OpenMySQL: %v", err)
	}
	t.Cleanup(func() {
		m.db.Where("name = ?", t.Name()).Delete(&renderingRow{})
		m.Close()
	})

	doc := m.Scope(t.Name())
	_ = doc.Save("first")
	if err := doc.Save("second"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r, err := m.Latest(t.Name())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if r.Body != "second" || r.Size != 6 {
		t.Errorf("unexpected rendering %+v", r)
	}
}
