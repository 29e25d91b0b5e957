// Package order drives the catalog purchase flow: per-chat sessions
// holding the picked variation and quantity, and the engine that turns
// callback actions into message views.
package order

import (
	"sync"
	"time"
)

// Session is the per-chat purchase state. CatalogVersion pins the
// session to the snapshot it was created against; a reload voids it.
type Session struct {
	Product        int
	Variation      int
	Qty            int
	CatalogVersion int64
	AwaitingDest   bool
	LastTouched    time.Time
}

// Store persists purchase sessions keyed by chat. Implementations are
// safe for concurrent use.
type Store interface {
	Get(chatID int64) (Session, bool)
	Put(chatID int64, s Session)
	Delete(chatID int64)
	PurgeOlderThan(cutoff time.Time) int
}

// MemoryStore keeps sessions in a map. Sessions are small and cheap to
// lose, so no persistence across restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session

	now func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// Put stores the session, stamping LastTouched.
func (m *MemoryStore) Put(chatID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.LastTouched = m.now()
	m.sessions[chatID] = s
}

func (m *MemoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// PurgeOlderThan drops sessions not touched since cutoff and returns
// how many were removed.
func (m *MemoryStore) PurgeOlderThan(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for chatID, s := range m.sessions {
		if s.LastTouched.Before(cutoff) {
			delete(m.sessions, chatID)
			removed++
		}
	}
	return removed
}
