package storage

import (
	"fmt"
	"io"
	"sync"
)

// Writer prints renderings to an io.Writer such as os.Stdout.
type Writer struct {
	mu   *sync.Mutex
	w    io.Writer
	name string
}

// NewWriter creates a Writer backend printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{mu: &sync.Mutex{}, w: w, name: DefaultName}
}

// Scope returns a Writer sharing the same output that labels saves with name.
func (w *Writer) Scope(name string) Storage {
	return &Writer{mu: w.mu, w: w.w, name: name}
}

// Save writes a header line naming the target followed by data.
func (w *Writer) Save(data string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "--- %s ---\n%s\n", w.name, data); err != nil {
		return fmt.Errorf("storage: write %s: %w", w.name, err)
	}
	return nil
}
