package cmd

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/cache"
	"github.com/waveformhq/wavetray/internal/channel"
	"github.com/waveformhq/wavetray/internal/config"
	uierrors "github.com/waveformhq/wavetray/internal/errors"
	"github.com/waveformhq/wavetray/internal/logging"
	"github.com/waveformhq/wavetray/internal/reconcile"
	"github.com/waveformhq/wavetray/internal/store"
	"github.com/waveformhq/wavetray/internal/toast"
	"github.com/waveformhq/wavetray/internal/tui"
)

// trayCmd represents the tray command
var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Open the interactive notification tray",
	Long: `Open the interactive notification tray.

The tray shows the live notification feed with an unread badge, keeps a
websocket connection to the push gateway, and falls back to REST polling
data when the connection is down. Keys: j/k move, r mark read, R mark all
read, d delete, g refresh, q quit.`,
	RunE: runTray,
}

func init() {
	rootCmd.AddCommand(trayCmd)
}

func runTray(cmd *cobra.Command, args []string) error {
	st := store.New()
	toasts := toast.NewQueue()
	rec := reconcile.New(newAPIClient(), st, toasts, config.GetInt("page_limit", 50))

	// Seed from the snapshot cache so the tray is useful before the first
	// fetch completes, and offline.
	snapCache := openCache()
	if snapCache != nil {
		defer snapCache.Close()
		if snap, err := snapCache.Load(); err == nil {
			st.ReplacePage(snap.Notifications)
			st.SetUnreadCount(snap.UnreadCount)
		} else if !errors.Is(err, cache.ErrEmpty) {
			logging.Warn("failed to load snapshot cache", "error", err)
		}
	}

	model := tui.New(st, toasts, rec)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Background failures surface as toasts rather than console output.
	handler := uierrors.NewTUIHandler(func(msg uierrors.Message) {
		switch msg.Type {
		case uierrors.MessageTypeSuccess:
			toasts.Success(msg.Text)
		default:
			toasts.Error(msg.Text)
		}
	})

	ch := channel.New(channel.Config{
		PushURL:        pushURL(),
		Token:          tokenSource,
		AllowAnonymous: config.GetBool("insecure_skip_auth"),
		ReconnectDelay: config.GetDuration("reconnect_delay_seconds", channel.DefaultReconnectDelay),
		OnEvent:        rec.Apply,
		OnStateChange: func(s channel.State) {
			program.Send(tui.ConnStateMsg(s))
		},
	})
	go func() {
		err := ch.Run(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		logging.Warn("push channel stopped", "error", err)
		if errors.Is(err, channel.ErrNoToken) {
			handler.Error("Live updates disabled: no auth token configured")
		}
	}()

	_, err := program.Run()
	cancel()

	if snapCache != nil {
		records, unread := st.Snapshot()
		if saveErr := snapCache.Save(records, unread); saveErr != nil {
			logging.Warn("failed to save snapshot cache", "error", saveErr)
		}
	}
	return err
}
