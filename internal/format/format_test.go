package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/domain"
)

func testNotifications() []domain.Notification {
	base := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	return []domain.Notification{
		{
			ID:        "n-2",
			Title:     "Release approved",
			Message:   "Your release is live.",
			Category:  domain.CategoryReleaseUpdate,
			Priority:  domain.PriorityHigh,
			Status:    domain.StatusUnread,
			CreatedAt: base.Add(time.Minute),
		},
		{
			ID:        "n-1",
			Title:     "Payout sent",
			Message:   "Royalties were paid out.",
			Category:  domain.CategoryPaymentStatus,
			Priority:  domain.PriorityNormal,
			Status:    domain.StatusRead,
			CreatedAt: base,
		},
	}
}

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   Formatter
	}{
		{"simple", &SimpleFormatter{}},
		{"table", &TableFormatter{}},
		{"compact", &CompactFormatter{}},
		{"json", &JSONFormatter{}},
		{"bogus", &SimpleFormatter{}},
		{"", &SimpleFormatter{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.IsType(t, tt.want, GetFormatter(tt.format))
		})
	}
}

func TestSimpleFormatterMarksUnread(t *testing.T) {
	var buf bytes.Buffer
	err := NewSimpleFormatter().FormatNotifications(testNotifications(), &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], unreadMarker))
	assert.Contains(t, lines[0], "Release approved")
	assert.True(t, strings.HasPrefix(lines[1], " "))
	assert.Contains(t, lines[1], "Payout sent")
}

func TestTableFormatterEmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().FormatNotifications(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestTableFormatterHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().FormatNotifications(testNotifications(), &buf))

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "release_update")
	assert.Contains(t, out, "high")
}

func TestCompactFormatterTitlesOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter().FormatNotifications(testNotifications(), &buf))
	assert.Equal(t, "Release approved\nPayout sent\n", buf.String())
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatNotifications(testNotifications(), &buf))

	var decoded []domain.Notification
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "n-2", decoded[0].ID)
}

func TestJSONFormatterNilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatNotifications(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatBadge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatBadge(&buf, 0))
	assert.Empty(t, buf.String())

	require.NoError(t, FormatBadge(&buf, 4))
	assert.Equal(t, "♪ 4\n", buf.String())
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatSummary(&buf, 0, nil))
	assert.Equal(t, "No notifications\n", buf.String())

	buf.Reset()
	counts := CountsByCategory(testNotifications())
	require.NoError(t, FormatSummary(&buf, 1, counts))
	assert.Equal(t, "Unread notifications: 1\n  payment_status: 1\n  release_update: 1\n", buf.String())
}

func TestFormatStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatStatusJSON(&buf, 2, map[string]int{"general": 3}))

	var data StatusData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, 2, data.Unread)
	assert.Equal(t, 3, data.Total)
	assert.Equal(t, map[string]int{"general": 3}, data.Categories)
}
