// Package handoff carries a generated plan from the submission view to the
// results view. It is the server-side rendition of the browser's
// per-session transient storage: two fixed keys written atomically before
// navigation, read by the destination view, then deleted after a short
// grace delay so a re-rendering consumer can read them more than once.
package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/models"
)

// Storage keys, fixed by the handoff contract.
const (
	KeyGeneratedPlan = "generatedPlan"
	KeyClientInfo    = "clientInfo"
)

const (
	// DefaultGrace is how long a taken entry stays readable before
	// deletion.
	DefaultGrace = time.Second
	// DefaultTTL bounds how long an entry nobody consumed may linger.
	DefaultTTL = 30 * time.Minute
)

// ErrEmptyHandoff means no plan was transferred for this session. Callers
// present a recoverable "no plan available" state, never a redirect loop.
var ErrEmptyHandoff = errors.New("no plan data in handoff")

// ErrMalformedHandoff means a stored value failed to parse. Callers treat
// it exactly like ErrEmptyHandoff.
var ErrMalformedHandoff = errors.New("malformed plan data in handoff")

type entry struct {
	values   map[string][]byte
	storedAt time.Time
	gen      uint64
}

// Store is the per-session handoff buffer: single writer, then single
// reader, per submission. A second Put before a Take overwrites, which is
// fine since only the most recent plan matters.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	grace   time.Duration
	ttl     time.Duration
	gen     uint64
	log     *logrus.Logger
}

// NewStore creates a handoff buffer. Non-positive durations fall back to
// the defaults.
func NewStore(grace, ttl time.Duration, log *logrus.Logger) *Store {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]*entry),
		grace:   grace,
		ttl:     ttl,
		log:     log,
	}
}

// Put stores the serialized plan and client identity under the session's
// fixed keys, replacing any prior entry.
func (s *Store) Put(sessionID string, plan *models.PlanResponse, client models.ClientInfo) error {
	planRaw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to serialize plan: %w", err)
	}
	clientRaw, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to serialize client info: %w", err)
	}
	s.PutRaw(sessionID, planRaw, clientRaw)
	return nil
}

// PutRaw stores pre-serialized values. Split out so tests can exercise the
// malformed-payload path the same way a stale writer would.
func (s *Store) PutRaw(sessionID string, plan, client []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.entries[sessionID] = &entry{
		values: map[string][]byte{
			KeyGeneratedPlan: plan,
			KeyClientInfo:    client,
		},
		storedAt: time.Now(),
		gen:      s.gen,
	}
}

// Take reads both keys for the session. Missing entries yield
// ErrEmptyHandoff, unparsable ones ErrMalformedHandoff. On success the
// entry is scheduled for deletion after the grace delay rather than
// removed synchronously, so a second read inside the window still works.
func (s *Store) Take(sessionID string) (*models.PlanResponse, *models.ClientInfo, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, nil, ErrEmptyHandoff
	}

	planRaw, okPlan := e.values[KeyGeneratedPlan]
	clientRaw, okClient := e.values[KeyClientInfo]
	if !okPlan || !okClient {
		return nil, nil, ErrEmptyHandoff
	}

	var plan models.PlanResponse
	if err := json.Unmarshal(planRaw, &plan); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedHandoff, err)
	}
	var client models.ClientInfo
	if err := json.Unmarshal(clientRaw, &client); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedHandoff, err)
	}

	s.scheduleDelete(sessionID, e.gen)
	return &plan, &client, nil
}

// scheduleDelete removes the entry after the grace delay unless a newer
// Put replaced it in the meantime.
func (s *Store) scheduleDelete(sessionID string, gen uint64) {
	time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e, ok := s.entries[sessionID]; ok && e.gen == gen {
			delete(s.entries, sessionID)
		}
	})
}

// Sweep evicts entries older than the TTL and returns the count. Wired to
// the background cron schedule so abandoned submissions cannot pin memory.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	n := 0
	for id, e := range s.entries {
		if e.storedAt.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	if n > 0 {
		s.log.Infof("Swept %d expired handoff entries", n)
	}
	return n
}
