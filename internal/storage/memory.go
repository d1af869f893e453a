package storage

import (
	"sync"
	"time"

	"github.com/starford/scrivener/internal/models"
)

type memoryLog struct {
	mu    sync.Mutex
	saves []models.Rendering
}

// Memory records every save in process memory.
type Memory struct {
	log  *memoryLog
	name string
}

// NewMemory creates an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{log: &memoryLog{}, name: DefaultName}
}

// Scope returns a Memory sharing this backend's log that saves under name.
func (m *Memory) Scope(name string) Storage {
	return &Memory{log: m.log, name: name}
}

// Save appends data to the log.
func (m *Memory) Save(data string) error {
	m.log.mu.Lock()
	m.log.saves = append(m.log.saves, models.NewRendering(m.name, data, time.Now()))
	m.log.mu.Unlock()
	return nil
}

// Saves returns every rendering recorded under name, oldest first.
func (m *Memory) Saves(name string) []string {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	var out []string
	for _, r := range m.log.saves {
		if r.Name == name {
			out = append(out, r.Body)
		}
	}
	return out
}

// All returns every rendering recorded by any scope, oldest first.
func (m *Memory) All() []models.Rendering {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	out := make([]models.Rendering, len(m.log.saves))
	copy(out, m.log.saves)
	return out
}
