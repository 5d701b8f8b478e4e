package server

import (
	"errors"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/rpgo/financial-freedom/internal/calculation"
	"github.com/rpgo/financial-freedom/internal/metrics"
)

// errSessionNotFound is returned for unknown or expired session ids.
var errSessionNotFound = errors.New("session not found")

// SessionStore keeps one ProjectionService per API session. Sessions expire after ttl
// without use.
type SessionStore struct {
	cache      *cache.Cache
	ttl        time.Duration
	newService func(id string) *calculation.ProjectionService
}

// NewSessionStore creates a store whose idle sessions expire after ttl and are swept
// every cleanup interval.
func NewSessionStore(ttl, cleanup time.Duration, newService func(id string) *calculation.ProjectionService) *SessionStore {
	s := &SessionStore{
		cache:      cache.New(ttl, cleanup),
		ttl:        ttl,
		newService: newService,
	}
	s.cache.OnEvicted(func(string, interface{}) {
		metrics.UpdateActiveSessions(s.cache.ItemCount())
	})
	return s
}

// Create opens a new session and returns its id.
func (s *SessionStore) Create() string {
	id := uuid.NewString()
	s.cache.Set(id, s.newService(id), s.ttl)
	metrics.UpdateActiveSessions(s.cache.ItemCount())
	return id
}

// Get returns the session's service and extends its lifetime.
func (s *SessionStore) Get(id string) (*calculation.ProjectionService, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errSessionNotFound
	}
	v, found := s.cache.Get(id)
	if !found {
		return nil, errSessionNotFound
	}
	svc, ok := v.(*calculation.ProjectionService)
	if !ok {
		return nil, errSessionNotFound
	}
	if err := s.cache.Replace(id, svc, s.ttl); err != nil {
		// deleted or expired since the lookup
		return nil, errSessionNotFound
	}
	return svc, nil
}

// Delete closes a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Count returns the number of live sessions, including expired ones not yet swept.
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
