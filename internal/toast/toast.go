// Package toast provides the ephemeral toast queue. Toasts are derived
// presentation state: created on push arrivals or on explicit command
// feedback, expired by TTL or manual dismissal, never persisted, and never
// deduplicated against notification records.
package toast

import (
	"sync"
	"time"

	"github.com/waveformhq/wavetray/internal/domain"
)

// Severity drives toast styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultTTL is used for command-feedback toasts. Arrival toasts scale
// their TTL by notification priority instead.
const DefaultTTL = 5 * time.Second

// maxActive bounds the queue; the oldest toast is dropped beyond it.
const maxActive = 5

// Toast is a single ephemeral entry.
type Toast struct {
	ID        int
	Title     string
	Message   string
	Severity  Severity
	TTL       time.Duration
	CreatedAt time.Time
}

// ExpiresAt returns the instant the toast should disappear.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.TTL)
}

// Queue is a bounded FIFO of active toasts.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int

	changed chan struct{}
	now     func() time.Time
}

// NewQueue creates an empty toast queue.
func NewQueue() *Queue {
	return &Queue{
		nextID:  1,
		changed: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// Changed returns a coalesced change signal for the TUI event loop.
func (q *Queue) Changed() <-chan struct{} {
	return q.changed
}

func (q *Queue) notify() {
	select {
	case q.changed <- struct{}{}:
	default:
	}
}

// Push appends a toast and returns its assigned ID. A zero TTL gets
// DefaultTTL. The oldest toast is dropped if the queue is full.
func (q *Queue) Push(t Toast) int {
	q.mu.Lock()
	t.ID = q.nextID
	q.nextID++
	t.CreatedAt = q.now()
	if t.TTL <= 0 {
		t.TTL = DefaultTTL
	}
	q.toasts = append(q.toasts, t)
	if len(q.toasts) > maxActive {
		q.toasts = q.toasts[len(q.toasts)-maxActive:]
	}
	q.mu.Unlock()
	q.notify()
	return t.ID
}

// PushArrival creates a toast for a pushed notification, TTL scaled by
// priority. Urgent notifications render as warnings for emphasis.
func (q *Queue) PushArrival(n domain.Notification) int {
	severity := SeverityInfo
	if n.Priority == domain.PriorityUrgent {
		severity = SeverityWarning
	}
	return q.Push(Toast{
		Title:    n.Title,
		Message:  n.Message,
		Severity: severity,
		TTL:      n.Priority.ToastTTL(),
	})
}

// Success pushes a success-feedback toast.
func (q *Queue) Success(message string) int {
	return q.Push(Toast{Message: message, Severity: SeveritySuccess})
}

// Error pushes an error-feedback toast.
func (q *Queue) Error(message string) int {
	return q.Push(Toast{Message: message, Severity: SeverityError})
}

// Dismiss removes a toast immediately, regardless of remaining TTL.
func (q *Queue) Dismiss(id int) {
	q.mu.Lock()
	for i := range q.toasts {
		if q.toasts[i].ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			q.mu.Unlock()
			q.notify()
			return
		}
	}
	q.mu.Unlock()
}

// Expire removes toasts whose TTL has elapsed at the given instant and
// returns how many were removed.
func (q *Queue) Expire(now time.Time) int {
	q.mu.Lock()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Before(t.ExpiresAt()) {
			kept = append(kept, t)
		}
	}
	removed := len(q.toasts) - len(kept)
	q.toasts = kept
	q.mu.Unlock()
	if removed > 0 {
		q.notify()
	}
	return removed
}

// Active returns a copy of the live toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// NextExpiry returns the earliest expiry instant among active toasts and
// whether one exists. The TUI uses it to schedule its next expiry tick.
func (q *Queue) NextExpiry() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.toasts) == 0 {
		return time.Time{}, false
	}
	earliest := q.toasts[0].ExpiresAt()
	for _, t := range q.toasts[1:] {
		if exp := t.ExpiresAt(); exp.Before(earliest) {
			earliest = exp
		}
	}
	return earliest, true
}
