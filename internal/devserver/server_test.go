package devserver

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/api"
	"github.com/waveformhq/wavetray/internal/domain"
)

func seed() []domain.Notification {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return []domain.Notification{
		{
			ID: "n-1", Title: "Payout sent", Message: "August royalties were paid out.",
			Category: domain.CategoryPaymentStatus, Priority: domain.PriorityNormal,
			Status: domain.StatusUnread, CreatedAt: base,
		},
		{
			ID: "n-2", Title: "Release approved", Message: "Your release is live.",
			Category: domain.CategoryReleaseUpdate, Priority: domain.PriorityHigh,
			Status: domain.StatusUnread, CreatedAt: base.Add(time.Minute),
		},
	}
}

func startServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func newClient(ts *httptest.Server, token string) *api.Client {
	return api.NewClient(ts.URL, func() string { return token })
}

func TestListAndUnreadCount(t *testing.T) {
	_, ts := startServer(t, WithSeed(seed()))
	client := newClient(ts, "")

	page, err := client.ListNotifications(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, "n-2", page.Notifications[0].ID)
	require.NotNil(t, page.UnreadCount)
	assert.Equal(t, 2, *page.UnreadCount)

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListHonorsLimit(t *testing.T) {
	_, ts := startServer(t, WithSeed(seed()))
	client := newClient(ts, "")

	page, err := client.ListNotifications(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "n-2", page.Notifications[0].ID)
}

func TestMarkAsReadAndMarkAll(t *testing.T) {
	s, ts := startServer(t, WithSeed(seed()))
	client := newClient(ts, "")

	require.NoError(t, client.MarkAsRead(context.Background(), "n-1"))
	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Idempotent for already read and unknown ids.
	require.NoError(t, client.MarkAsRead(context.Background(), "n-1"))
	require.NoError(t, client.MarkAsRead(context.Background(), "ghost"))

	require.NoError(t, client.MarkAllAsRead(context.Background()))
	count, err = client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for _, n := range s.Snapshot() {
		assert.Equal(t, domain.StatusRead, n.Status)
		assert.NotNil(t, n.ReadAt)
	}
}

func TestDeleteNotification(t *testing.T) {
	_, ts := startServer(t, WithSeed(seed()))
	client := newClient(ts, "")

	require.NoError(t, client.DeleteNotification(context.Background(), "n-2"))

	page, err := client.ListNotifications(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "n-1", page.Notifications[0].ID)
}

func TestAuthRequired(t *testing.T) {
	_, ts := startServer(t, WithToken("secret"))

	_, err := newClient(ts, "").UnreadCount(context.Background())
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthError())

	_, err = newClient(ts, "secret").UnreadCount(context.Background())
	require.NoError(t, err)
}

func TestBroadcastCreatesNotification(t *testing.T) {
	s, ts := startServer(t)
	client := newClient(ts, "")

	err := client.Broadcast(context.Background(), api.SendRequest{
		Title:            "Maintenance tonight",
		Message:          "Uploads pause at 02:00 UTC.",
		Priority:         "high",
		NotificationType: "system_alert",
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Maintenance tonight", snap[0].Title)
	assert.Equal(t, domain.CategorySystemAlert, snap[0].Category)
	assert.Equal(t, domain.PriorityHigh, snap[0].Priority)
	assert.NotEmpty(t, snap[0].ID)
}

func TestSendToUserRequiresUserID(t *testing.T) {
	_, ts := startServer(t)

	err := newClient(ts, "").SendToUser(context.Background(), "user-1", api.SendRequest{Title: "hi"})
	require.NoError(t, err)
}

func TestWebsocketReceivesArrivalFrames(t *testing.T) {
	s, ts := startServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/notifications/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub time to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)
	s.Inject(domain.Notification{Title: "New follower", Category: domain.CategoryGeneral})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Type         string          `json:"type"`
		Notification json.RawMessage `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, FrameTypeNewNotification, frame.Type)
	assert.NotEmpty(t, frame.Notification)
}

func TestWebsocketRejectsBadToken(t *testing.T) {
	_, ts := startServer(t, WithToken("secret"))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/notifications/?token=wrong"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
