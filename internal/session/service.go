// Package session keeps the live editing sessions served by the API and MCP server.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/scrivener/internal/apperr"
	"github.com/starford/scrivener/internal/checksum"
	"github.com/starford/scrivener/internal/document"
	"github.com/starford/scrivener/internal/editor"
	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/storage"
)

// Event kinds passed to EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventSaved   = "saved"
	EventDeleted = "deleted"
)

// EventCallback is called after a session changes.
type EventCallback func(kind string, id string)

// Info describes a session.
type Info struct {
	ID          string     `json:"id"`
	Elements    int        `json:"elements"`
	Saves       int        `json:"saves"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
}

// SaveResult describes a successful save.
type SaveResult struct {
	ID       string `json:"id"`
	Checksum string `json:"checksum"`
	Size     int    `json:"size"`
}

type entry struct {
	mu        sync.Mutex // serializes editor calls on one document
	id        string
	doc       *document.Document
	ed        *editor.Editor
	saves     int
	createdAt time.Time
	updatedAt time.Time
	savedAt   *time.Time
}

func (e *entry) info() Info {
	return Info{
		ID:          e.id,
		Elements:    e.doc.Len(),
		Saves:       e.saves,
		CreatedAt:   e.createdAt,
		UpdatedAt:   e.updatedAt,
		LastSavedAt: e.savedAt,
	}
}

// Service owns one editor per session. All editors share one storage backend,
// scoped to the session ID when the backend supports it.
type Service struct {
	store storage.Storage
	cb    EventCallback

	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewService creates a session service. cb may be nil.
func NewService(store storage.Storage, cb EventCallback) *Service {
	return &Service{
		store:    store,
		cb:       cb,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with an empty document.
func (s *Service) Create(_ context.Context) Info {
	id := uuid.NewString()
	now := time.Now().UTC()
	doc := document.New()
	e := &entry{
		id:        id,
		doc:       doc,
		ed:        editor.New(doc, storage.ScopeOf(s.store, id)),
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()

	s.notify(EventCreated, id)
	return e.info()
}

// Get returns the session with the given ID.
func (s *Service) Get(_ context.Context, id string) (*Info, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	info := e.info()
	return &info, nil
}

// List returns all sessions ordered by creation time.
func (s *Service) List(_ context.Context) []Info {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.info())
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete ends a session. Its document is discarded.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return apperr.ErrNotFound
	}
	s.notify(EventDeleted, id)
	return nil
}

// Add appends an element of the given kind through the session's editor.
// value is the text or image path; it is ignored for newline and tab.
func (s *Service) Add(_ context.Context, id string, kind element.Kind, value string) (*Info, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	switch kind {
	case element.KindText:
		e.ed.AddText(value)
	case element.KindImage:
		e.ed.AddImage(value)
	case element.KindNewLine:
		e.ed.AddNewLine()
	case element.KindTab:
		e.ed.AddTabSpace()
	default:
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown kind %q", apperr.ErrInvalidElement, kind)
	}
	e.updatedAt = time.Now().UTC()
	info := e.info()
	e.mu.Unlock()

	s.notify(EventUpdated, id)
	return &info, nil
}

// Render returns the session's current rendering.
func (s *Service) Render(_ context.Context, id string) (string, error) {
	e, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ed.RenderDocument(), nil
}

// Save persists the session's rendering. Storage failures are wrapped, so
// callers can match the backend's error with errors.Is.
func (s *Service) Save(_ context.Context, id string) (*SaveResult, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if err := e.ed.SaveDocument(); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("session: save %s: %w", id, err)
	}
	rendered := e.ed.RenderDocument()
	now := time.Now().UTC()
	e.saves++
	e.savedAt = &now
	e.mu.Unlock()

	s.notify(EventSaved, id)
	return &SaveResult{
		ID:       id,
		Checksum: checksum.String(rendered),
		Size:     len(rendered),
	}, nil
}

// Editor runs fn with exclusive access to the session's editor.
func (s *Service) Editor(_ context.Context, id string, fn func(*editor.Editor) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	err = fn(e.ed)
	e.updatedAt = time.Now().UTC()
	e.mu.Unlock()
	s.notify(EventUpdated, id)
	return err
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return e, nil
}

func (s *Service) notify(kind, id string) {
	if s.cb != nil {
		s.cb(kind, id)
	}
}
