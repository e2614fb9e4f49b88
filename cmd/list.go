package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/cache"
	"github.com/waveformhq/wavetray/internal/colors"
	"github.com/waveformhq/wavetray/internal/config"
	"github.com/waveformhq/wavetray/internal/format"
)

var (
	listFormat string
	listLimit  int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Long: `List notifications, newest first.

Fetches the first page from the backend. When the backend is unreachable
and the snapshot cache is enabled, the last cached page is shown instead.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "simple", "output format (simple, table, compact, json)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum notifications to list (default from config)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	limit := listLimit
	if limit <= 0 {
		limit = config.GetInt("page_limit", 50)
	}

	formatter := format.GetFormatter(listFormat)

	page, err := newAPIClient().ListNotifications(cmd.Context(), limit, "")
	if err == nil {
		return formatter.FormatNotifications(page.Notifications, os.Stdout)
	}

	snapCache := openCache()
	if snapCache == nil {
		return err
	}
	defer snapCache.Close()

	snap, cacheErr := snapCache.Load()
	if cacheErr != nil {
		if !errors.Is(cacheErr, cache.ErrEmpty) {
			colors.Debug("snapshot cache load failed: " + cacheErr.Error())
		}
		return err
	}

	colors.Warning("backend unreachable, showing cached notifications from " + snap.SavedAt.Local().Format("2006-01-02 15:04"))
	records := snap.Notifications
	if len(records) > limit {
		records = records[:limit]
	}
	return formatter.FormatNotifications(records, os.Stdout)
}
