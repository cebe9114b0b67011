package session

import (
	"sync"

	"github.com/amezhanov/storefront-backend/internal/catalog"
)

// Store owns every user session. Sessions are created lazily on first
// use and live for the process lifetime; all access goes through here
// rather than any ambient global state.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	catalog  *catalog.Catalog
}

func NewStore(cat *catalog.Catalog) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		catalog:  cat,
	}
}

// Session returns the session for the user, creating it if needed.
func (s *Store) Session(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[userID]; ok {
		return existing
	}
	created := newSession(userID, s.catalog)
	s.sessions[userID] = created
	return created
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
