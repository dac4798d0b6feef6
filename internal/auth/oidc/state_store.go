package oidc

import (
	"sync"
	"time"
)

// AuthState holds the per-login values that must survive the redirect round
// trip to the identity provider.
type AuthState struct {
	Nonce        string
	CodeVerifier string
	CreatedAt    time.Time
}

// StateStore keeps pending login states in memory. Entries are single use and
// expire after the configured TTL, which bounds memory on abandoned logins.
type StateStore struct {
	mu     sync.Mutex
	states map[string]AuthState
	ttl    time.Duration
}

// NewStateStore creates a StateStore with the given entry TTL.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		states: make(map[string]AuthState),
		ttl:    ttl,
	}
}

// Put stores the state, evicting any expired entries while it holds the lock.
func (s *StateStore) Put(state string, authState AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, value := range s.states {
		if now.Sub(value.CreatedAt) > s.ttl {
			delete(s.states, key)
		}
	}

	authState.CreatedAt = now
	s.states[state] = authState
}

// Take retrieves and removes the state. Returns false for unknown or expired states.
func (s *StateStore) Take(state string) (AuthState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authState, ok := s.states[state]
	if !ok {
		return AuthState{}, false
	}
	delete(s.states, state)

	if time.Since(authState.CreatedAt) > s.ttl {
		return AuthState{}, false
	}
	return authState, true
}
