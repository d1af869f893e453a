// Package document implements an ordered composite of elements.
package document

import (
	"strings"
	"sync"

	"github.com/starford/scrivener/internal/element"
)

// Document is an ordered, append-only sequence of elements.
// It is safe for concurrent use; Render never observes a partial append.
type Document struct {
	mu       sync.RWMutex
	elements []element.Element
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// AddElement appends e to the end of the document.
func (d *Document) AddElement(e element.Element) {
	d.mu.Lock()
	d.elements = append(d.elements, e)
	d.mu.Unlock()
}

// Render concatenates the rendering of every element in insertion order.
func (d *Document) Render() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var b strings.Builder
	for _, e := range d.elements {
		b.WriteString(e.Render())
	}
	return b.String()
}

// Len returns the number of elements.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.elements)
}

// Elements returns a copy of the element sequence.
func (d *Document) Elements() []element.Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]element.Element, len(d.elements))
	copy(out, d.elements)
	return out
}
