package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager holds the live sessions keyed by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Context
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Context),
	}
}

// Get looks up an existing session.
func (m *Manager) Get(id string) (*Context, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx, ok := m.sessions[id]
	return ctx, ok
}

// GetOrCreate returns the session for the given ID, creating it when it
// does not exist yet. An empty ID allocates a fresh one.
func (m *Manager) GetOrCreate(id string) (string, *Context) {
	if id == "" {
		id = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx, ok := m.sessions[id]; ok {
		return id, ctx
	}
	ctx := NewContext()
	m.sessions[id] = ctx
	return id, ctx
}

// Remove drops a session. Removing an unknown ID is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
