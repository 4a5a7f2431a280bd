// Package session keeps per-view edit state between dashboard requests.
// Every GET of a view creates a fresh session; actions posted by that view
// carry its ID and update it in place until it expires.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an untouched session survives.
	DefaultTTL = 30 * time.Minute
	// DefaultCleanupInterval is how often expired sessions are swept.
	DefaultCleanupInterval = time.Minute
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session: not found")

type entry[V any] struct {
	value     V
	expiresAt time.Time
	// held by Update for the whole transition
	lock *sync.Mutex
}

// Store is a mutex-guarded map of session ID to state with idle expiry.
type Store[V any] struct {
	mu              sync.Mutex
	items           map[string]entry[V]
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	newID           func() string
	stop            chan struct{}
	stopOnce        sync.Once
}

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithTTL sets the idle lifetime of a session.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(s *Store[V]) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCleanupInterval sets the sweep period. Zero disables the background
// sweeper; expired sessions are then only dropped on access or Sweep.
func WithCleanupInterval[V any](interval time.Duration) Option[V] {
	return func(s *Store[V]) {
		s.cleanupInterval = interval
	}
}

// WithClock replaces time.Now.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the uuid based ID generator.
func WithIDGenerator[V any](next func() string) Option[V] {
	return func(s *Store[V]) {
		if next != nil {
			s.newID = next
		}
	}
}

// New creates a store. Call Close to stop the sweeper.
func New[V any](opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		items:           make(map[string]entry[V]),
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		newID:           uuid.NewString,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}
	return s
}

// Create stores value under a new ID and returns it.
func (s *Store[V]) Create(value V) string {
	id := s.newID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl), lock: &sync.Mutex{}}
	return id
}

// Get returns the state stored under id.
func (s *Store[V]) Get(id string) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.lookup(id)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return item.value, nil
}

// Put replaces the state of an existing session and extends its lifetime.
// Expired sessions are not revived.
func (s *Store[V]) Put(id string, value V) error {
	_, err := s.Update(id, func(V) (V, error) { return value, nil })
	return err
}

// Update stores the result of fn applied to the state under id and extends
// the session's lifetime. Updates of one session run one at a time: a second
// caller waits until fn has returned for the first and then sees its result.
// When fn fails the session keeps its previous state and the error is
// returned. ErrNotFound is returned without calling fn for unknown or expired
// sessions, and after fn when the session was deleted while fn ran.
func (s *Store[V]) Update(id string, fn func(V) (V, error)) (V, error) {
	var zero V

	s.mu.Lock()
	item, ok := s.lookup(id)
	s.mu.Unlock()
	if !ok {
		return zero, ErrNotFound
	}

	item.lock.Lock()
	defer item.lock.Unlock()

	s.mu.Lock()
	current, ok := s.lookup(id)
	s.mu.Unlock()
	if !ok || current.lock != item.lock {
		return zero, ErrNotFound
	}

	next, err := fn(current.value)
	if err != nil {
		return current.value, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	latest, ok := s.lookup(id)
	if !ok || latest.lock != item.lock {
		return next, ErrNotFound
	}
	s.items[id] = entry[V]{value: next, expiresAt: s.now().Add(s.ttl), lock: item.lock}
	return next, nil
}

// Delete drops a session. Unknown IDs are ignored.
func (s *Store[V]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// Len reports the number of stored sessions, expired ones included until
// they are swept.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, item := range s.items {
		if s.expired(item) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Close stops the background sweeper. It is safe to call more than once.
func (s *Store[V]) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// lookup returns the live entry under id, dropping it when expired. Callers
// hold s.mu.
func (s *Store[V]) lookup(id string) (entry[V], bool) {
	item, ok := s.items[id]
	if !ok || s.expired(item) {
		delete(s.items, id)
		return entry[V]{}, false
	}
	return item, true
}

func (s *Store[V]) expired(item entry[V]) bool {
	return !s.now().Before(item.expiresAt)
}

func (s *Store[V]) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}
