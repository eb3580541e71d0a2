// Package session holds per-user state: one profile and one history log.
package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/presence/internal/history"
	"github.com/jackzampolin/presence/internal/profile"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("session not found")

// State is everything one session owns.
type State struct {
	ID        string
	CreatedAt time.Time
	Profile   *profile.Store
	History   *history.Store
}

// NewState creates a state with a fresh ID, default profile and empty history.
func NewState(historyCap int) *State {
	return &State{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Profile:   profile.NewStore(),
		History:   history.NewStore(historyCap),
	}
}

// Summary is the listing view of a State.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Company      string    `json:"company"`
	HistoryCount int       `json:"history_count"`
}

// Summary returns the listing view of s.
func (s *State) Summary() Summary {
	return Summary{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Company:      s.Profile.Get().Name,
		HistoryCount: s.History.Len(),
	}
}

// Manager tracks live sessions.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*State
	historyCap int
}

// NewManager creates a manager whose sessions keep at most historyCap
// history items.
func NewManager(historyCap int) *Manager {
	return &Manager{
		sessions:   make(map[string]*State),
		historyCap: historyCap,
	}
}

// SetHistoryCap changes the history cap of sessions created from now on.
func (m *Manager) SetHistoryCap(n int) {
	m.mu.Lock()
	m.historyCap = n
	m.mu.Unlock()
}

// Create starts a new session.
func (m *Manager) Create() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewState(m.historyCap)
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// List returns every session, oldest first.
func (m *Manager) List() []*State {
	m.mu.RLock()
	out := make([]*State, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes the session with id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
