package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/domain"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleNotifications(t *testing.T) []domain.Notification {
	t.Helper()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	readAt := base.Add(time.Hour)
	return []domain.Notification{
		{
			ID:        "n-2",
			Title:     "Release approved",
			Message:   "Your release Midnight EP is live.",
			Category:  domain.CategoryReleaseUpdate,
			Priority:  domain.PriorityHigh,
			Status:    domain.StatusUnread,
			CreatedAt: base.Add(time.Minute),
			ActionURL: "https://app.waveform.fm/releases/42",
		},
		{
			ID:        "n-1",
			Title:     "Payout sent",
			Message:   "August royalties were paid out.",
			Category:  domain.CategoryPaymentStatus,
			Priority:  domain.PriorityNormal,
			Status:    domain.StatusRead,
			CreatedAt: base,
			ReadAt:    &readAt,
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	c := openTemp(t)

	_, err := c.Load()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	c := openTemp(t)
	want := sampleNotifications(t)

	require.NoError(t, c.Save(want, 1))

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.UnreadCount)
	assert.WithinDuration(t, time.Now(), snap.SavedAt, 5*time.Second)
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, want, snap.Notifications)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	c := openTemp(t)
	first := sampleNotifications(t)
	require.NoError(t, c.Save(first, 2))

	require.NoError(t, c.Save(first[:1], 1))

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.UnreadCount)
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "n-2", snap.Notifications[0].ID)
}

func TestSaveClampsNegativeCount(t *testing.T) {
	c := openTemp(t)

	require.NoError(t, c.Save(nil, -3))

	snap, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.UnreadCount)
	assert.Empty(t, snap.Notifications)
}

func TestLoadDegradesUnknownEnums(t *testing.T) {
	c := openTemp(t)
	n := sampleNotifications(t)[:1]
	require.NoError(t, c.Save(n, 1))

	_, err := c.db.Exec("UPDATE notifications SET category = 'mystery', priority = 'extreme', status = 'archived'")
	require.NoError(t, err)

	snap, err := c.Load()
	require.NoError(t, err)
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, domain.CategoryGeneral, snap.Notifications[0].Category)
	assert.Equal(t, domain.PriorityNormal, snap.Notifications[0].Priority)
	assert.Equal(t, domain.StatusUnread, snap.Notifications[0].Status)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("state", "snapshot.db"), DefaultPath("state"))
}
