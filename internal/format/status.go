package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/waveformhq/wavetray/internal/domain"
)

// CountsByCategory returns per-category totals for a notification window.
func CountsByCategory(notifications []domain.Notification) map[string]int {
	counts := make(map[string]int)
	for i := range notifications {
		counts[notifications[i].Category.String()]++
	}
	return counts
}

// FormatBadge writes a compact unread indicator suitable for a status line.
// Writes nothing when there are no unread notifications.
func FormatBadge(w io.Writer, unread int) error {
	if unread <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "♪ %d\n", unread)
	return err
}

// FormatSummary writes a summary of notification counts to the writer.
// If unread is 0 and the window is empty, writes "No notifications\n".
func FormatSummary(w io.Writer, unread int, categoryCounts map[string]int) error {
	total := 0
	for _, c := range categoryCounts {
		total += c
	}
	if total == 0 && unread == 0 {
		_, err := fmt.Fprintf(w, "No notifications\n")
		return err
	}
	if _, err := fmt.Fprintf(w, "Unread notifications: %d\n", unread); err != nil {
		return err
	}

	// Sort categories for deterministic output.
	keys := make([]string, 0, len(categoryCounts))
	for k := range categoryCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", key, categoryCounts[key]); err != nil {
			return err
		}
	}
	return nil
}

// StatusData holds aggregated status information for JSON output.
type StatusData struct {
	Unread     int            `json:"unread"`
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}

// FormatStatusJSON writes status data as JSON to the writer.
func FormatStatusJSON(w io.Writer, unread int, categoryCounts map[string]int) error {
	total := 0
	for _, c := range categoryCounts {
		total += c
	}
	if categoryCounts == nil {
		categoryCounts = map[string]int{}
	}
	data := StatusData{
		Unread:     unread,
		Total:      total,
		Categories: categoryCounts,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
