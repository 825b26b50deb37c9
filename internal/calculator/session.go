package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"calcsvc/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("session limit reached")
)

type session struct {
	mu       sync.Mutex
	engine   *Engine
	lastUsed time.Time
}

// SessionStore holds one Engine per session. Calls for the same session run
// one at a time; different sessions never share state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session

	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// NewSessionStore returns an empty store. Sessions idle for longer than ttl
// are removed by Sweep; ttl <= 0 keeps them forever. maxSessions <= 0 means
// no limit.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Create starts a new session and returns its ID.
func (s *SessionStore) Create() (string, error) {
	return s.CreateWith(nil)
}

// CreateWith starts a new session and, if fn is not nil, runs it on the new
// engine before any other caller can reach or sweep the session.
func (s *SessionStore) CreateWith(fn func(id string, e *Engine)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return "", ErrTooManySessions
	}

	id := uuid.New().String()
	sess := &session{engine: NewEngine(), lastUsed: s.now()}
	if fn != nil {
		fn(id, sess.engine)
	}
	s.sessions[id] = sess
	return id, nil
}

// Do runs fn with exclusive access to the session's engine.
func (s *SessionStore) Do(id string, fn func(*Engine) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastUsed = s.now()
	return fn(sess.engine)
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				recordSessionsExpired(ctx, n)
				observability.Logger.Info("expired idle sessions",
					zap.Int("removed", n),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}
