// Package editor provides the facade used to build, render and save a document.
package editor

import (
	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/storage"
)

// Document is the composite the editor builds and renders.
// *document.Document satisfies it.
type Document interface {
	AddElement(e element.Element)
	Render() string
}

// Editor owns one document and saves its rendering to a shared storage.
//
// The render cache is cleared by every Add call. An empty cached rendering
// counts as absent, so a document that renders to "" is re-rendered on
// every RenderDocument call.
//
// Editor is not safe for concurrent use.
type Editor struct {
	doc   Document
	store storage.Storage
	cache *string
}

// New creates an Editor over doc that saves to store.
func New(doc Document, store storage.Storage) *Editor {
	return &Editor{doc: doc, store: store}
}

// AddText appends a text run.
func (e *Editor) AddText(s string) {
	e.add(element.Text{Content: s})
}

// AddImage appends an image placeholder for path.
func (e *Editor) AddImage(path string) {
	e.add(element.Image{Path: path})
}

// AddNewLine appends a line break.
func (e *Editor) AddNewLine() {
	e.add(element.LineBreak{})
}

// AddTabSpace appends a tab stop.
func (e *Editor) AddTabSpace() {
	e.add(element.TabStop{})
}

func (e *Editor) add(el element.Element) {
	e.doc.AddElement(el)
	e.cache = nil
}

// RenderDocument returns the document's rendering, reusing the cached value
// when it is present and non-empty.
func (e *Editor) RenderDocument() string {
	if e.cache != nil && *e.cache != "" {
		return *e.cache
	}
	rendered := e.doc.Render()
	e.cache = &rendered
	return rendered
}

// SaveDocument renders the document and hands the result to the storage.
// The storage error, if any, is returned unchanged.
func (e *Editor) SaveDocument() error {
	return e.store.Save(e.RenderDocument())
}
