package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/cache"
	"github.com/waveformhq/wavetray/internal/config"
	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/format"
	"github.com/waveformhq/wavetray/internal/logging"
)

var statusFormat string

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show unread status for status lines",
	Long: `Show unread status.

The badge format emits a short indicator meant for tmux or shell status
lines, and emits nothing when there is nothing unread. Backend failures are
silent in badge mode: the snapshot cache is used when the backend is
unreachable, and nothing is printed when there is no cache either.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "badge", "output format (badge, summary, json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	unread, notifications, ok := fetchStatus(cmd)
	if !ok && statusFormat != "badge" {
		// Badge consumers poll frequently and must stay quiet; interactive
		// formats get told.
		cmd.PrintErrln("backend unreachable and no cached snapshot available")
	}

	counts := format.CountsByCategory(notifications)
	switch statusFormat {
	case "summary":
		return format.FormatSummary(os.Stdout, unread, counts)
	case "json":
		return format.FormatStatusJSON(os.Stdout, unread, counts)
	default:
		return format.FormatBadge(os.Stdout, unread)
	}
}

// fetchStatus returns the unread count and window, preferring the live
// backend and falling back to the snapshot cache. ok reports whether either
// source was available.
func fetchStatus(cmd *cobra.Command) (int, []domain.Notification, bool) {
	client := newAPIClient()

	unread, countErr := client.UnreadCount(cmd.Context())
	page, listErr := client.ListNotifications(cmd.Context(), config.GetInt("page_limit", 50), "")
	if countErr == nil && listErr == nil {
		return unread, page.Notifications, true
	}
	if countErr == nil {
		return unread, nil, true
	}

	snapCache := openCache()
	if snapCache == nil {
		return 0, nil, false
	}
	defer snapCache.Close()

	snap, err := snapCache.Load()
	if err != nil {
		if !errors.Is(err, cache.ErrEmpty) {
			logging.Warn("snapshot cache load failed", "error", err)
		}
		return 0, nil, false
	}
	return snap.UnreadCount, snap.Notifications, true
}
