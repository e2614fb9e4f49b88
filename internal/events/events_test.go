package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/domain"
)

func TestNormalize_NotificationArrived(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"notification type",
			`{"type":"notification","notification":{"id":"n1","title":"Release approved","message":"Your single is live.","category":"release_update","priority":"high","status":"unread","created_at":"2026-08-30T10:00:00Z"}}`,
		},
		{
			"new_notification type",
			`{"type":"new_notification","notification":{"id":"n1","title":"Release approved","message":"Your single is live.","category":"release_update","priority":"high","status":"unread","created_at":"2026-08-30T10:00:00Z"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))
			require.NoError(t, err)

			arrived, ok := ev.(NotificationArrived)
			require.True(t, ok)
			assert.Equal(t, "n1", arrived.Notification.ID)
			assert.Equal(t, "Release approved", arrived.Notification.Title)
			assert.Equal(t, domain.CategoryReleaseUpdate, arrived.Notification.Category)
			assert.Equal(t, domain.PriorityHigh, arrived.Notification.Priority)
			assert.Equal(t, domain.StatusUnread, arrived.Notification.Status)
		})
	}
}

func TestNormalize_UnknownCategoryDegrades(t *testing.T) {
	raw := `{"type":"notification","notification":{"id":"n2","title":"Hello","category":"brand_new_thing","priority":"whatever","status":"unread","created_at":"2026-08-30T10:00:00Z"}}`

	ev, err := Normalize([]byte(raw))
	require.NoError(t, err)

	arrived, ok := ev.(NotificationArrived)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryGeneral, arrived.Notification.Category)
	assert.Equal(t, domain.PriorityNormal, arrived.Notification.Priority)
}

func TestNormalize_UnreadCount(t *testing.T) {
	ev, err := Normalize([]byte(`{"type":"unread_count","count":7}`))
	require.NoError(t, err)

	changed, ok := ev.(UnreadCountChanged)
	require.True(t, ok)
	assert.Equal(t, 7, changed.Count)
}

func TestNormalize_UnreadCountClampsNegative(t *testing.T) {
	ev, err := Normalize([]byte(`{"type":"unread_count","count":-3}`))
	require.NoError(t, err)

	changed, ok := ev.(UnreadCountChanged)
	require.True(t, ok)
	assert.Equal(t, 0, changed.Count)
}

func TestNormalize_NotificationRead(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string id", `{"type":"notification_read","notification_id":"n5"}`, "n5"},
		{"numeric id", `{"type":"notification_read","notification_id":42}`, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))
			require.NoError(t, err)

			read, ok := ev.(NotificationMarkedRead)
			require.True(t, ok)
			assert.Equal(t, tt.want, read.ID)
		})
	}
}

func TestNormalize_UnknownType(t *testing.T) {
	ev, err := Normalize([]byte(`{"type":"bogus","count":1}`))
	assert.Nil(t, ev)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNormalize_MalformedFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"notification without payload", `{"type":"notification"}`},
		{"notification without id", `{"type":"notification","notification":{"title":"x","created_at":"2026-08-30T10:00:00Z"}}`},
		{"unread_count without count", `{"type":"unread_count"}`},
		{"notification_read without id", `{"type":"notification_read"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))
			assert.Nil(t, ev)
			assert.Error(t, err)
		})
	}
}

func TestNormalize_IsReferentiallyTransparent(t *testing.T) {
	raw := []byte(`{"type":"unread_count","count":3}`)

	first, err := Normalize(raw)
	require.NoError(t, err)
	second, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
