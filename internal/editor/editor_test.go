package editor

import (
	"errors"
	"testing"

	"github.com/starford/scrivener/internal/document"
	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/storage"
)

// countingDocument wraps a document and counts Render calls.
type countingDocument struct {
	*document.Document
	renders int
}

func (c *countingDocument) Render() string {
	c.renders++
	return c.Document.Render()
}

func newCounting() *countingDocument {
	return &countingDocument{Document: document.New()}
}

func TestEndToEndScenario(t *testing.T) {
	ed := New(document.New(), storage.NewMemory())
	ed.AddText("Hello, world!")
	ed.AddNewLine()
	ed.AddText("SOLID principles in action")
	ed.AddNewLine()
	ed.AddTabSpace()
	ed.AddText("Clean architecture")
	ed.AddNewLine()
	ed.AddImage("image.png")

	want := "Hello, world!\nSOLID principles in action\n\tClean architecture\n[Image: image.png]"
	if got := ed.RenderDocument(); got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
}

func TestOrderPreservation(t *testing.T) {
	ed := New(document.New(), storage.NewMemory())
	els := []element.Element{
		element.TabStop{},
		element.Image{Path: "a.png"},
		element.Text{Content: "x"},
		element.LineBreak{},
		element.Text{Content: "x"},
	}
	var want string
	for _, el := range els {
		switch v := el.(type) {
		case element.Text:
			ed.AddText(v.Content)
		case element.Image:
			ed.AddImage(v.Path)
		case element.LineBreak:
			ed.AddNewLine()
		case element.TabStop:
			ed.AddTabSpace()
		}
		want += el.Render()
	}
	if got := ed.RenderDocument(); got != want {
		t.Errorf("RenderDocument() = %q, want %q", got, want)
	}
}

func TestEmptyEditorRendersEmpty(t *testing.T) {
	ed := New(document.New(), storage.NewMemory())
	if got := ed.RenderDocument(); got != "" {
		t.Errorf("RenderDocument() = %q, want empty", got)
	}
}

func TestRenderIsCached(t *testing.T) {
	doc := newCounting()
	ed := New(doc, storage.NewMemory())
	ed.AddText("cached")

	first := ed.RenderDocument()
	second := ed.RenderDocument()
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
	if doc.renders != 1 {
		t.Errorf("document rendered %d times, want 1", doc.renders)
	}
}

func TestAddInvalidatesCache(t *testing.T) {
	doc := newCounting()
	ed := New(doc, storage.NewMemory())
	ed.AddText("a")
	_ = ed.RenderDocument()

	ed.AddNewLine()
	if got := ed.RenderDocument(); got != "a\n" {
		t.Errorf("RenderDocument() = %q, want %q", got, "a\n")
	}
	if doc.renders != 2 {
		t.Errorf("document rendered %d times, want 2", doc.renders)
	}
}

func TestEmptyRenderingIsRecomputedEveryCall(t *testing.T) {
	doc := newCounting()
	ed := New(doc, storage.NewMemory())

	for i := 1; i <= 3; i++ {
		_ = ed.RenderDocument()
		if doc.renders != i {
			t.Fatalf("after %d calls document rendered %d times", i, doc.renders)
		}
	}

	// Elements that all render to "" keep the cache degenerate.
	ed.AddText("")
	ed.AddText("")
	_ = ed.RenderDocument()
	_ = ed.RenderDocument()
	if doc.renders != 5 {
		t.Errorf("document rendered %d times, want 5", doc.renders)
	}
}

func TestSaveDocumentSendsRendering(t *testing.T) {
	mem := storage.NewMemory()
	ed := New(document.New(), mem)
	ed.AddText("saved")
	ed.AddTabSpace()

	if err := ed.SaveDocument(); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	saves := mem.Saves(storage.DefaultName)
	if len(saves) != 1 || saves[0] != "saved\t" {
		t.Errorf("saves = %q", saves)
	}
}

func TestSaveEmptyDocument(t *testing.T) {
	mem := storage.NewMemory()
	ed := New(document.New(), mem)
	if err := ed.SaveDocument(); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if saves := mem.Saves(storage.DefaultName); len(saves) != 1 || saves[0] != "" {
		t.Errorf("saves = %q", saves)
	}
}

func TestStorageSubstitutability(t *testing.T) {
	build := func(s storage.Storage) *Editor {
		ed := New(document.New(), s)
		ed.AddText("same")
		ed.AddNewLine()
		ed.AddImage("x.png")
		return ed
	}
	mem := storage.NewMemory()
	var captured string
	fn := storage.Func(func(data string) error {
		captured = data
		return nil
	})

	a, b := build(mem), build(fn)
	if a.RenderDocument() != b.RenderDocument() {
		t.Error("rendering depends on storage backend")
	}
	_ = a.SaveDocument()
	_ = b.SaveDocument()
	if got := mem.Saves(storage.DefaultName); len(got) != 1 || got[0] != captured {
		t.Errorf("memory saved %q, func saved %q", got, captured)
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	errDisk := errors.New("disk full")
	doc := newCounting()
	ed := New(doc, storage.Func(func(string) error { return errDisk }))
	ed.AddText("content")

	before := ed.RenderDocument()
	err := ed.SaveDocument()
	if err != errDisk {
		t.Fatalf("SaveDocument() err = %v, want %v", err, errDisk)
	}
	if doc.renders != 1 {
		t.Errorf("save recomputed the rendering: %d renders", doc.renders)
	}
	if after := ed.RenderDocument(); after != before || doc.renders != 1 {
		t.Errorf("cache changed after failed save: %q, %d renders", after, doc.renders)
	}
}

func TestSharedStorageAcrossEditors(t *testing.T) {
	mem := storage.NewMemory()
	a := New(document.New(), mem)
	b := New(document.New(), mem)
	a.AddText("a")
	b.AddText("b")
	_ = a.SaveDocument()
	_ = b.SaveDocument()
	if saves := mem.Saves(storage.DefaultName); len(saves) != 2 || saves[0] != "a" || saves[1] != "b" {
		t.Errorf("saves = %q", saves)
	}
}
