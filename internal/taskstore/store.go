// Package taskstore keeps transform results for asynchronous callers, keyed
// by task id, with an explicit TTL policy and an injected clock.
package taskstore

import (
	"sync"
	"time"

	"github.com/docforge/pdfops/internal/transform"
)

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

// Entry is one stored outcome: either a result or an error message.
type Entry struct {
	Result   *transform.Result
	Error    string
	StoredAt time.Time
}

// Store is a TTL-bounded in-memory result store. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]Entry
}

// New creates a store whose entries expire after ttl. A nil clock uses
// time.Now.
func New(ttl time.Duration, now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{ttl: ttl, now: now, entries: make(map[string]Entry)}
}

// Put records the outcome for a task id, replacing any previous entry.
func (s *Store) Put(id string, res *transform.Result, err error) {
	entry := Entry{Result: res, StoredAt: s.now()}
	if err != nil {
		entry.Error = err.Error()
	}
	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()
}

// Get returns the entry for id. Expired entries are treated as missing and
// dropped.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	if s.expired(entry) {
		delete(s.entries, id)
		return Entry{}, false
	}
	return entry, true
}

// Sweep removes every expired entry and reports how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) expired(entry Entry) bool {
	return s.now().Sub(entry.StoredAt) > s.ttl
}
