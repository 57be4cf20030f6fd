package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/jray/pkg/errors"
)

// Store holds the live sessions of a server, keyed by ID. Sessions exist
// only in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []Option
}

// NewStore returns an empty store. opts are applied to every session it
// creates.
func NewStore(opts ...Option) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts a session seeded with text. The session is stored even
// when text does not parse; the parse error is returned alongside it.
func (st *Store) Create(ctx context.Context, text string) (*Session, error) {
	s := New(st.opts...)
	var err error
	if text != "" {
		err = s.SetText(ctx, text)
	}

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()
	return s, err
}

// Get returns the session with the given ID.
// Returns SESSION_NOT_FOUND when it does not exist.
func (st *Store) Get(id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle for longer than maxIdle and returns how
// many were removed.
func (st *Store) Cleanup(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Janitor calls Cleanup every interval until ctx is done.
func (st *Store) Janitor(ctx context.Context, interval, maxIdle time.Duration, onCleanup func(removed int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Cleanup(maxIdle); n > 0 && onCleanup != nil {
				onCleanup(n)
			}
		}
	}
}
