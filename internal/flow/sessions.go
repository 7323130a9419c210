package flow

import "sync"

// Store maps user identities to their conversation sessions. Sessions are
// created on demand and removed once the conversation returns to idle, so
// the map only holds users that are mid-order.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// State returns the current conversation state for a user.
func (s *Store) State(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether the user has an active conversation.
func (s *Store) InProgress(userID int64) bool {
	return s.State(userID) != StateIdle
}

// Dispatch runs fn against the user's session under the store lock,
// creating an idle session on demand and dropping it again if fn leaves
// the session idle. Holding the lock across the transition serializes
// events per user.
func (s *Store) Dispatch(userID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle}
		s.sessions[userID] = sess
	}
	fn(sess)
	if sess.State == StateIdle {
		delete(s.sessions, userID)
	}
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
