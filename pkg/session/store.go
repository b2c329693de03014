// Package session keeps per-visitor widget state for the portal.
//
// State lives only in memory. The store is bounded and entries expire
// after a period of inactivity; nothing survives a restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gnana997/appportal/pkg/portal"
)

const (
	// DefaultMaxSessions bounds the number of live sessions.
	DefaultMaxSessions = 10000

	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 12 * time.Hour
)

// Store maps session IDs to portal state. It is safe for concurrent use.
// Values are copied on the way in and out, so callers never share maps.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, portal.State]
}

// NewStore creates a store holding at most maxSessions sessions, each
// expiring ttl after it was last read or written. Zero values select the defaults.
func NewStore(maxSessions int, ttl time.Duration) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: expirable.NewLRU[string, portal.State](maxSessions, nil, ttl),
	}
}

// Create starts a new session with empty state and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.cache.Add(id, portal.State{})
	return id
}

// Get returns a copy of the session's state and restarts its TTL.
// The bool is false for unknown or expired sessions.
func (s *Store) Get(id string) (portal.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.cache.Get(id)
	if !ok {
		return portal.State{}, false
	}
	// expirable.LRU only refreshes expiry on Add.
	s.cache.Add(id, state)
	return state.Clone(), true
}

// Update applies fn to a copy of the session's state and stores the result.
// Unknown IDs start from empty state.
func (s *Store) Update(id string, fn func(*portal.State)) portal.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.cache.Get(id)
	state = state.Clone()
	fn(&state)
	s.cache.Add(id, state)
	return state.Clone()
}

// SetOverride records url as this session's value for the record key.
func (s *Store) SetOverride(id, key, url string) portal.State {
	return s.Update(id, func(st *portal.State) {
		if st.Overrides == nil {
			st.Overrides = make(map[string]string)
		}
		st.Overrides[key] = url
	})
}

// ClearOverride drops this session's value for the record key.
func (s *Store) ClearOverride(id, key string) portal.State {
	return s.Update(id, func(st *portal.State) {
		delete(st.Overrides, key)
	})
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
