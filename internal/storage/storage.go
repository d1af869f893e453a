// Package storage defines the persistence boundary for rendered documents
// and the backends that implement it.
package storage

// DefaultName is the target name used by a backend that has not been scoped.
const DefaultName = "document"

// Storage durably records a finished rendering.
type Storage interface {
	Save(data string) error
}

// Scoper is implemented by backends that can address more than one target.
// Scope returns a view of the same backend that saves under name.
type Scoper interface {
	Scope(name string) Storage
}

// Func adapts an ordinary function to the Storage interface.
type Func func(data string) error

// Save calls f(data).
func (f Func) Save(data string) error {
	return f(data)
}

// ScopeOf returns s scoped to name when s supports it, and s itself otherwise.
func ScopeOf(s Storage, name string) Storage {
	if sc, ok := s.(Scoper); ok {
		return sc.Scope(name)
	}
	return s
}
