// Package store holds the in-memory notification collection for the
// current session. It is the single source of truth for the presentation
// layer; all mutation goes through its command methods, never by direct
// field assignment from outside.
package store

import (
	"sync"
	"time"

	"github.com/waveformhq/wavetray/internal/domain"
)

// Store is an ordered, deduplicated collection of notifications plus an
// advisory unread counter. Ordering is newest-first; arrivals are prepended
// and updates happen in place so already-rendered rows never move.
//
// The unread counter tracks local mutations but the authoritative value
// comes from the server via SetUnreadCount, which always wins.
type Store struct {
	mu      sync.RWMutex
	records []domain.Notification
	index   map[string]int
	unread  int

	changed chan struct{}
	now     func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		index:   make(map[string]int),
		changed: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Changed returns a channel that receives a coalesced signal after every
// mutation. Intended for a single consumer (the TUI event loop).
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// ReplacePage replaces the materialized window with a freshly fetched page.
// The unread counter is left untouched: the authoritative count is set
// independently via SetUnreadCount.
func (s *Store) ReplacePage(records []domain.Notification) {
	s.mu.Lock()
	s.records = make([]domain.Notification, len(records))
	copy(s.records, records)
	domain.SortNewestFirst(s.records)
	s.reindex()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i := range s.records {
		s.index[s.records[i].ID] = i
	}
}

// AddOne prepends a notification. If the ID is already present the existing
// record is updated in place instead of duplicated, keeping its position.
// The unread counter is incremented only when the record is newly inserted
// and unread. Returns true if a new record was inserted.
func (s *Store) AddOne(record domain.Notification) bool {
	s.mu.Lock()
	if i, ok := s.index[record.ID]; ok {
		s.records[i] = record
		s.mu.Unlock()
		s.notify()
		return false
	}

	s.records = append([]domain.Notification{record}, s.records...)
	s.reindex()
	if record.IsUnread() {
		s.unread++
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// MarkRead sets the record's status to read and stamps read_at on the first
// transition. Idempotent: marking an already-read record changes nothing,
// and the counter never goes below zero. Returns true if the record exists
// and its status changed.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	changed := s.records[i].MarkRead(s.now())
	if changed && s.unread > 0 {
		s.unread--
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return changed
}

// MarkAllRead sets every record to read, stamping read_at for any that
// lacked it, and zeroes the unread counter.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	now := s.now()
	for i := range s.records {
		s.records[i].MarkRead(now)
	}
	s.unread = 0
	s.mu.Unlock()
	s.notify()
}

// DeleteOne removes the record with the given ID. Deleting an absent ID is
// a no-op. If the record was unread the counter is decremented, floor
// clamped at zero. Returns true if a record was removed.
func (s *Store) DeleteOne(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	wasUnread := s.records[i].IsUnread()
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.reindex()
	if wasUnread && s.unread > 0 {
		s.unread--
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// SetUnreadCount applies the authoritative server count. It always wins
// over locally derived values. Negative input is clamped to zero.
func (s *Store) SetUnreadCount(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	s.unread = n
	s.mu.Unlock()
	s.notify()
}

// UnreadCount returns the current unread counter.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of materialized records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a copy of the record with the given ID.
func (s *Store) Get(id string) (domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Notification{}, false
	}
	return s.records[i], true
}

// Snapshot returns a copy of the materialized records, newest first, and
// the current unread counter.
func (s *Store) Snapshot() ([]domain.Notification, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.records))
	copy(out, s.records)
	return out, s.unread
}
