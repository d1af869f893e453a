package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestSaveAndRead(t *testing.T) {
	s := tempRoot(t)
	content := "Hello\n\tWorld"
	if err := s.Save(content); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Read(DefaultName)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != content {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestSaveEmptyString(t *testing.T) {
	s := tempRoot(t)
	if err := s.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Read(DefaultName)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestScopeWritesSeparateFiles(t *testing.T) {
	s := tempRoot(t)
	if err := s.Scope("a").Save("first"); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if err := s.Scope("sub/b").Save("second"); err != nil {
		t.Fatalf("Save sub/b: %v", err)
	}
	a, _ := s.Read("a")
	b, _ := s.Read("sub/b")
	if string(a) != "first" || string(b) != "second" {
		t.Errorf("a = %q, b = %q", a, b)
	}
}

func TestOverwriteLeavesNoTempFiles(t *testing.T) {
	s := tempRoot(t)
	_ = s.Save("original content")
	if err := s.Save("updated content"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := s.Read(DefaultName)
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".scrivener-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)
	for _, name := range []string{"../../etc/passwd", "../outside", "/etc/shadow", ""} {
		if err := s.Scope(name).Save("x"); err == nil {
			t.Errorf("expected error for save to %q", name)
		}
		if _, err := s.Read(name); err == nil {
			t.Errorf("expected error for read of %q", name)
		}
	}
}

func TestReadMissing(t *testing.T) {
	s := tempRoot(t)
	_, err := s.Read("missing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestNameOf(t *testing.T) {
	s := tempRoot(t)
	if name, ok := s.NameOf(filepath.Join(s.root, "sub", "doc.txt")); !ok || name != "sub/doc" {
		t.Errorf("NameOf = %q, %v", name, ok)
	}
	if _, ok := s.NameOf(filepath.Join(s.root, ".scrivener-tmp-1.txt")); ok {
		t.Error("temp files should not map to a name")
	}
	if _, ok := s.NameOf(filepath.Join(s.root, "note.md")); ok {
		t.Error("non-rendering files should not map to a name")
	}
	if _, ok := s.NameOf("/elsewhere/doc.txt"); ok {
		t.Error("paths outside root should not map to a name")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/scrivener-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "scrivener-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
