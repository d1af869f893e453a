package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/scrivener/internal/document"
	"github.com/starford/scrivener/internal/editor"
	"github.com/starford/scrivener/internal/storage"
)

const scenario = `
name: solid
elements:
  - text: "Hello, world!"
  - newline: true
  - text: "SOLID principles in action"
  - newline: true
  - tab: true
  - text: "Clean architecture"
  - newline: true
  - image: image.png
`

func TestParseAndApply(t *testing.T) {
	m, err := Parse([]byte(scenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "solid" || len(m.Elements) != 8 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	ed := editor.New(document.New(), storage.NewMemory())
	if err := m.Apply(ed); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "Hello, world!\nSOLID principles in action\n\tClean architecture\n[Image: image.png]"
	if got := ed.RenderDocument(); got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
}

func TestEmptyTextAndImageAllowed(t *testing.T) {
	m, err := Parse([]byte("elements:\n  - text: \"\"\n  - image: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := editor.New(document.New(), storage.NewMemory())
	_ = m.Apply(ed)
	if got := ed.RenderDocument(); got != "[Image: ]" {
		t.Errorf("RenderDocument() = %q", got)
	}
}

func TestParseRejectsAmbiguousItem(t *testing.T) {
	_, err := Parse([]byte("elements:\n  - text: a\n    tab: true\n"))
	if err == nil {
		t.Fatal("expected error for item with two kinds")
	}
	if !strings.Contains(err.Error(), "element 0") {
		t.Errorf("error should name the element: %v", err)
	}
}

func TestParseRejectsEmptyItem(t *testing.T) {
	if _, err := Parse([]byte("elements:\n  - {}\n")); err == nil {
		t.Fatal("expected error for empty item")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("elements: [")); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if m.Name != "solid" {
		t.Errorf("name = %q", m.Name)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
