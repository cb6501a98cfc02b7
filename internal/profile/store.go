package profile

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultIdleTTL matches the session token lifetime: a draft nobody has
// touched for this long belongs to a session that can no longer submit it.
const DefaultIdleTTL = 24 * time.Hour

type storeEntry struct {
	model   *Model
	touched time.Time
}

// Store keeps one form Model per session. Models are not safe for
// concurrent use, so every access goes through the store's lock.
type Store struct {
	mu      sync.Mutex
	entries map[string]*storeEntry
	idleTTL time.Duration
	log     *logrus.Logger
}

// NewStore creates a session draft store. idleTTL <= 0 falls back to
// DefaultIdleTTL.
func NewStore(idleTTL time.Duration, log *logrus.Logger) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		entries: make(map[string]*storeEntry),
		idleTTL: idleTTL,
		log:     log,
	}
}

// Update runs fn against the session's model, creating a blank one on
// first use. fn's error is returned unchanged.
func (s *Store) Update(sessionID string, fn func(*Model) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &storeEntry{model: NewModel()}
		s.entries[sessionID] = e
	}
	e.touched = time.Now()
	return fn(e.model)
}

// Sweep evicts models idle longer than the TTL and returns the count.
// Wired to the background cron schedule.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.idleTTL)
	n := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	if n > 0 {
		s.log.Infof("Evicted %d idle profile drafts", n)
	}
	return n
}
