// Package format provides output formatting for CLI commands. It includes
// formatters for different output styles and status line rendering.
package format

import (
	"io"

	"github.com/waveformhq/wavetray/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatNotifications formats a slice of notifications and writes to the writer.
	FormatNotifications(notifications []domain.Notification, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple displays one line per notification with status,
	// timestamp and title.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable displays notifications in a table format with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact displays only titles, one per line.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays notifications in JSON format.
	FormatterTypeJSON FormatterType = "json"
)

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeSimple:
		return NewSimpleFormatter()
	case FormatterTypeTable:
		return NewTableFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		// Default to simple formatter for unknown types
		return NewSimpleFormatter()
	}
}

// GetFormatter resolves a formatter from a user-supplied format string.
func GetFormatter(format string) Formatter {
	formatterType := FormatterType(format)
	for _, ft := range []FormatterType{
		FormatterTypeSimple,
		FormatterTypeTable,
		FormatterTypeCompact,
		FormatterTypeJSON,
	} {
		if ft == formatterType {
			return NewFormatter(formatterType)
		}
	}
	return NewSimpleFormatter()
}
