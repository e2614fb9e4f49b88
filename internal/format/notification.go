package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/waveformhq/wavetray/internal/colors"
	"github.com/waveformhq/wavetray/internal/domain"
)

const timestampLayout = "2006-01-02 15:04"

// unreadMarker precedes notifications that have not been read yet.
const unreadMarker = "●"

func statusMarker(n *domain.Notification) string {
	if n.Status == domain.StatusUnread {
		return unreadMarker
	}
	return " "
}

// SimpleFormatter formats notifications one per line with status marker,
// timestamp, category and title.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatNotifications formats notifications in simple format.
func (f *SimpleFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for i := range notifications {
		n := &notifications[i]
		title := n.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		_, err := fmt.Fprintf(writer, "%s %-16s  %-14s  %s\n",
			statusMarker(n), n.CreatedAt.Format(timestampLayout), n.Category.String(), title)
		if err != nil {
			return err
		}
	}
	return nil
}

// TableFormatter formats notifications in a table format with headers.
type TableFormatter struct{}

// NewTableFormatter creates a new TableFormatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatNotifications formats notifications in table format.
func (f *TableFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	if len(notifications) == 0 {
		return nil
	}
	headerColor := colors.Blue
	reset := colors.Reset
	_, err := fmt.Fprintf(writer, "%s  DATE              CATEGORY        PRIORITY  TITLE%s\n", headerColor, reset)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "%s- ----------------  --------------  --------  --------------------------------%s\n", headerColor, reset)
	if err != nil {
		return err
	}
	for i := range notifications {
		n := &notifications[i]
		title := n.Title
		if len(title) > 32 {
			title = title[:29] + "..."
		}
		_, err := fmt.Fprintf(writer, "%s %-16s  %-14s  %-8s  %s\n",
			statusMarker(n), n.CreatedAt.Format(timestampLayout),
			n.Category.String(), n.Priority.String(), title)
		if err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter formats notifications with title only.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatNotifications formats notifications in compact format.
func (f *CompactFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for i := range notifications {
		title := strings.TrimSpace(notifications[i].Title)
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		if _, err := fmt.Fprintln(writer, title); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats notifications as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatNotifications formats notifications as JSON.
func (f *JSONFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	data, err := json.MarshalIndent(notifications, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notifications to JSON: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}
