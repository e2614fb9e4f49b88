package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/domain"
)

func fixedQueue(at time.Time) *Queue {
	q := NewQueue()
	q.now = func() time.Time { return at }
	return q
}

func TestPush_AssignsIDAndDefaultTTL(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	q := fixedQueue(now)

	id := q.Push(Toast{Message: "hello", Severity: SeverityInfo})
	require.Equal(t, 1, id)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, DefaultTTL, active[0].TTL)
	assert.Equal(t, now.Add(DefaultTTL), active[0].ExpiresAt())
}

func TestPushArrival_ScalesTTLByPriority(t *testing.T) {
	q := NewQueue()

	q.PushArrival(domain.Notification{Title: "Urgent", Priority: domain.PriorityUrgent})
	q.PushArrival(domain.Notification{Title: "Low", Priority: domain.PriorityLow})

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, SeverityWarning, active[0].Severity)
	assert.Equal(t, domain.PriorityUrgent.ToastTTL(), active[0].TTL)
	assert.Equal(t, SeverityInfo, active[1].Severity)
	assert.Equal(t, domain.PriorityLow.ToastTTL(), active[1].TTL)
}

func TestExpire_RemovesElapsedToasts(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	q := fixedQueue(now)

	q.Push(Toast{Message: "short", TTL: time.Second})
	q.Push(Toast{Message: "long", TTL: time.Minute})

	removed := q.Expire(now.Add(2 * time.Second))
	assert.Equal(t, 1, removed)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].Message)

	// Nothing more to expire yet.
	assert.Equal(t, 0, q.Expire(now.Add(3*time.Second)))
}

func TestDismiss_RemovesImmediately(t *testing.T) {
	q := NewQueue()
	id := q.Push(Toast{Message: "dismiss me", TTL: time.Hour})
	q.Push(Toast{Message: "keep me", TTL: time.Hour})

	q.Dismiss(id)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "keep me", active[0].Message)

	// Dismissing an unknown ID is a no-op.
	q.Dismiss(999)
	assert.Len(t, q.Active(), 1)
}

func TestQueue_BoundsActiveToasts(t *testing.T) {
	q := NewQueue()
	for i := 0; i < maxActive+3; i++ {
		q.Push(Toast{Message: "m", TTL: time.Hour})
	}
	assert.Len(t, q.Active(), maxActive)
	// The oldest entries were dropped.
	assert.Equal(t, 4, q.Active()[0].ID)
}

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	q := fixedQueue(now)

	_, ok := q.NextExpiry()
	assert.False(t, ok)

	q.Push(Toast{Message: "later", TTL: time.Minute})
	q.Push(Toast{Message: "sooner", TTL: time.Second})

	exp, ok := q.NextExpiry()
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Second), exp)
}
