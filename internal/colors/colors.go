// Package colors provides color output utilities for CLI commands.
package colors

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	quietEnabled bool
	debugEnabled bool
	logger       Logger
	mu           sync.RWMutex
)

func init() {
	if val := os.Getenv("WAVETRAY_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetQuiet suppresses Info and Success output when enabled.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quietEnabled = enabled
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func currentLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func isQuiet() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quietEnabled
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	fmt.Fprintf(os.Stderr, "%sError:%s %s\n", Red, Reset, msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	fmt.Fprintf(os.Stderr, "%sWarning:%s %s\n", Yellow, Reset, msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if isQuiet() {
		return
	}
	fmt.Fprintf(os.Stdout, "%s%s%s\n", Blue, msg, Reset)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if isQuiet() {
		return
	}
	fmt.Fprintf(os.Stdout, "%s%s %s%s\n", Green, checkmark, msg, Reset)
}

// Debug outputs a debug message to stderr when debug is enabled.
func Debug(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	mu.RLock()
	enabled := debugEnabled
	mu.RUnlock()
	if !enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "%sDebug:%s %s\n", Cyan, Reset, msg)
}
