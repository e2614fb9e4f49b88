package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waveformhq/wavetray/internal/channel"
	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/store"
	"github.com/waveformhq/wavetray/internal/toast"
)

type recordingActions struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingActions) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingActions) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingActions) RefreshPage(context.Context) error        { r.record("refresh_page"); return nil }
func (r *recordingActions) RefreshUnreadCount(context.Context) error { r.record("refresh_count"); return nil }
func (r *recordingActions) MarkAsRead(_ context.Context, id string) error {
	r.record("mark_read:" + id)
	return nil
}
func (r *recordingActions) MarkAllAsRead(context.Context) error { r.record("mark_all"); return nil }
func (r *recordingActions) DeleteNotification(_ context.Context, id string) error {
	r.record("delete:" + id)
	return nil
}

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	st.ReplacePage([]domain.Notification{
		{
			ID: "n-2", Title: "Release approved", Category: domain.CategoryReleaseUpdate,
			Priority: domain.PriorityHigh, Status: domain.StatusUnread, CreatedAt: base.Add(time.Minute),
		},
		{
			ID: "n-1", Title: "Payout sent", Category: domain.CategoryPaymentStatus,
			Priority: domain.PriorityNormal, Status: domain.StatusRead, CreatedAt: base,
		},
	})
	st.SetUnreadCount(1)
	return st
}

func newTestModel(t *testing.T) (Model, *recordingActions) {
	t.Helper()
	actions := &recordingActions{}
	return New(seedStore(t), toast.NewQueue(), actions), actions
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes a command synchronously and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestNewPanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() { New(nil, toast.NewQueue(), &recordingActions{}) })
	assert.Panics(t, func() { New(store.New(), nil, &recordingActions{}) })
	assert.Panics(t, func() { New(store.New(), toast.NewQueue(), nil) })
}

func TestViewEmptyState(t *testing.T) {
	m := New(store.New(), toast.NewQueue(), &recordingActions{})
	assert.Contains(t, m.View(), "No notifications")
}

func TestViewShowsBadgeAndRows(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "1 unread")
	assert.Contains(t, out, "Release approved")
	assert.Contains(t, out, "Payout sent")
}

func TestCursorNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, 0, m.cursor)

	next, _ := m.Update(keyRune('j'))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	// Clamped at the end of the list.
	next, _ = m.Update(keyRune('j'))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(keyRune('k'))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestMarkReadUsesSelection(t *testing.T) {
	m, actions := newTestModel(t)

	_, cmd := m.Update(keyRune('r'))
	msg := runCmd(t, cmd)
	assert.IsType(t, actionDoneMsg{}, msg)
	assert.Equal(t, []string{"mark_read:n-2"}, actions.Calls())
}

func TestMarkReadSkipsAlreadyRead(t *testing.T) {
	m, actions := newTestModel(t)
	next, _ := m.Update(keyRune('j'))
	m = next.(Model)

	_, cmd := m.Update(keyRune('r'))
	assert.Nil(t, cmd)
	assert.Empty(t, actions.Calls())
}

func TestMarkAllAndDelete(t *testing.T) {
	m, actions := newTestModel(t)

	_, cmd := m.Update(keyRune('R'))
	runCmd(t, cmd)

	_, cmd = m.Update(keyRune('d'))
	runCmd(t, cmd)

	assert.Equal(t, []string{"mark_all", "delete:n-2"}, actions.Calls())
}

func TestRefreshKey(t *testing.T) {
	m, actions := newTestModel(t)

	_, cmd := m.Update(keyRune('g'))
	runCmd(t, cmd)

	assert.Equal(t, []string{"refresh_page", "refresh_count"}, actions.Calls())
}

func TestStoreChangedReloads(t *testing.T) {
	st := seedStore(t)
	m := New(st, toast.NewQueue(), &recordingActions{})

	st.AddOne(domain.Notification{
		ID: "n-3", Title: "New follower", Status: domain.StatusUnread,
		CreatedAt: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
	})
	next, cmd := m.Update(storeChangedMsg{})
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "New follower")
	assert.Contains(t, m.View(), "2 unread")
}

func TestToastExpiry(t *testing.T) {
	q := toast.NewQueue()
	m := New(seedStore(t), q, &recordingActions{})
	q.Success("done")
	require.Len(t, q.Active(), 1)

	next, _ := m.Update(toastExpiryMsg(time.Now().Add(time.Minute)))
	m = next.(Model)

	assert.Empty(t, q.Active())
	assert.NotContains(t, m.View(), "done")
}

func TestDismissAllToasts(t *testing.T) {
	q := toast.NewQueue()
	m := New(seedStore(t), q, &recordingActions{})
	q.Error("boom")
	q.Success("ok")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_ = next

	assert.Empty(t, q.Active())
}

func TestConnStateRendering(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "offline")

	next, _ := m.Update(ConnStateMsg(channel.StateConnected))
	m = next.(Model)
	assert.Contains(t, m.View(), "live")

	next, cmd := m.Update(ConnStateMsg(channel.StateConnecting))
	m = next.(Model)
	assert.Contains(t, m.View(), "connecting")
	assert.NotNil(t, cmd)
}

func TestWindowResizeClampsViewport(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 2})
	m = next.(Model)

	assert.Equal(t, 40, m.width)
	assert.GreaterOrEqual(t, m.viewport.Height, 1)
}
