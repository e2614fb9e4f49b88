// Package tui implements the interactive notification tray. The model is a
// thin presentation layer: all domain state lives in the store and the toast
// queue, and every user intent is delegated to the reconciler. The model
// redraws whenever either source signals a change.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waveformhq/wavetray/internal/channel"
	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/store"
	"github.com/waveformhq/wavetray/internal/toast"
)

const actionTimeout = 10 * time.Second

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Header, footer and surrounding blank lines.
	chromeLines = 4
)

// Actions is the subset of the reconciler the tray invokes. Errors are
// already surfaced as toasts by the reconciler, so the model ignores them.
type Actions interface {
	RefreshPage(ctx context.Context) error
	RefreshUnreadCount(ctx context.Context) error
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

type (
	storeChangedMsg struct{}
	toastChangedMsg struct{}
	toastExpiryMsg  time.Time
	actionDoneMsg   struct{}

	// ConnStateMsg is sent from the channel callback via Program.Send.
	ConnStateMsg channel.State
)

// Model is the bubbletea model for the tray.
type Model struct {
	store   *store.Store
	toasts  *toast.Queue
	actions Actions

	keys     keyMap
	spinner  spinner.Model
	viewport viewport.Model

	records []domain.Notification
	unread  int

	cursor    int
	width     int
	height    int
	connState channel.State
	now       func() time.Time
}

// New creates the tray model.
func New(st *store.Store, toasts *toast.Queue, actions Actions) Model {
	if st == nil {
		panic("tui.New: store dependency cannot be nil")
	}
	if toasts == nil {
		panic("tui.New: toast queue dependency cannot be nil")
	}
	if actions == nil {
		panic("tui.New: actions dependency cannot be nil")
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:     st,
		toasts:    toasts,
		actions:   actions,
		keys:      defaultKeyMap(),
		spinner:   sp,
		viewport:  viewport.New(defaultWidth, defaultHeight-chromeLines),
		width:     defaultWidth,
		height:    defaultHeight,
		connState: channel.StateDisconnected,
		now:       time.Now,
	}
	m.reload()
	return m
}

// Init starts the change-signal listeners and the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitStoreChanged(),
		m.waitToastChanged(),
		m.runAction(func(ctx context.Context) {
			_ = m.actions.RefreshPage(ctx)
			_ = m.actions.RefreshUnreadCount(ctx)
		}),
	)
}

// waitStoreChanged blocks on the store's coalesced change signal.
func (m Model) waitStoreChanged() tea.Cmd {
	ch := m.store.Changed()
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

// waitToastChanged blocks on the toast queue's change signal.
func (m Model) waitToastChanged() tea.Cmd {
	ch := m.toasts.Changed()
	return func() tea.Msg {
		<-ch
		return toastChangedMsg{}
	}
}

// runAction executes a reconciler call off the update loop.
func (m Model) runAction(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		fn(ctx)
		return actionDoneMsg{}
	}
}

// scheduleToastExpiry ticks at the earliest toast deadline, if any.
func (m Model) scheduleToastExpiry() tea.Cmd {
	expiry, ok := m.toasts.NextExpiry()
	if !ok {
		return nil
	}
	wait := expiry.Sub(m.now())
	if wait < 0 {
		wait = 0
	}
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return toastExpiryMsg(t)
	})
}

func (m *Model) reload() {
	m.records, m.unread = m.store.Snapshot()
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncViewport()
}

func (m *Model) syncViewport() {
	rows := make([]string, len(m.records))
	now := m.now()
	for i, n := range m.records {
		rows[i] = renderRow(n, i == m.cursor, now, m.width)
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, rows...))
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	}
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) selected() (domain.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return domain.Notification{}, false
	}
	return m.records[m.cursor], true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - chromeLines
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeChangedMsg:
		m.reload()
		return m, m.waitStoreChanged()

	case toastChangedMsg:
		return m, tea.Batch(m.waitToastChanged(), m.scheduleToastExpiry())

	case toastExpiryMsg:
		m.toasts.Expire(time.Time(msg))
		return m, m.scheduleToastExpiry()

	case ConnStateMsg:
		m.connState = channel.State(msg)
		if m.connState == channel.StateConnecting {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.connState != channel.StateConnecting {
			return m, nil
		}
		return m, cmd

	case actionDoneMsg:
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.MarkRead):
		n, ok := m.selected()
		if !ok || n.Status == domain.StatusRead {
			return m, nil
		}
		return m, m.runAction(func(ctx context.Context) {
			_ = m.actions.MarkAsRead(ctx, n.ID)
		})

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, m.runAction(func(ctx context.Context) {
			_ = m.actions.MarkAllAsRead(ctx)
		})

	case key.Matches(msg, m.keys.Delete):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.runAction(func(ctx context.Context) {
			_ = m.actions.DeleteNotification(ctx, n.ID)
		})

	case key.Matches(msg, m.keys.Refresh):
		return m, m.runAction(func(ctx context.Context) {
			_ = m.actions.RefreshPage(ctx)
			_ = m.actions.RefreshUnreadCount(ctx)
		})

	case key.Matches(msg, m.keys.DismissAll):
		for _, t := range m.toasts.Active() {
			m.toasts.Dismiss(t.ID)
		}
		return m, nil
	}
	return m, nil
}

// View renders the tray.
func (m Model) View() string {
	header := renderHeader(m.unread, m.connState, m.spinner.View())

	var body string
	if len(m.records) == 0 {
		body = emptyStyle.Render("No notifications")
	} else {
		body = m.viewport.View()
	}

	footer := footerStyle.Render(renderHelp(m.keys))

	sections := []string{header, body, footer}
	if overlay := renderToasts(m.toasts.Active(), m.width); overlay != "" {
		sections = append(sections, overlay)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHelp(keys keyMap) string {
	out := ""
	for i, b := range keys.helpEntries() {
		if i > 0 {
			out += "  "
		}
		out += b.Help().Key + " " + b.Help().Desc
	}
	return out
}
