// Package cache provides a SQLite-backed snapshot of the last reconciled
// notification window. It lets the status badge and list work offline and
// seeds the tray before the first fetch completes. The cache is a replica,
// never a source of truth: every save fully replaces the previous snapshot.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/waveformhq/wavetray/internal/domain"
)

// ErrEmpty indicates that no snapshot has been saved yet.
var ErrEmpty = errors.New("snapshot cache is empty")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	message     TEXT NOT NULL,
	category    TEXT NOT NULL,
	priority    TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	read_at     TEXT,
	action_url  TEXT NOT NULL DEFAULT '',
	action_text TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Snapshot is a persisted view of the notification window.
type Snapshot struct {
	Notifications []domain.Notification
	UnreadCount   int
	SavedAt       time.Time
}

// Cache is a SQLite-backed snapshot store.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at the provided path.
func Open(dbPath string) (*Cache, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("snapshot cache: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("snapshot cache: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: open db: %w", err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	if _, err := c.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("snapshot cache: set busy timeout: %w", err)
	}
	if _, err := c.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("snapshot cache: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Save replaces the stored snapshot with the given window and count.
func (c *Cache) Save(notifications []domain.Notification, unreadCount int) error {
	if unreadCount < 0 {
		unreadCount = 0
	}
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("snapshot cache: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("snapshot cache: clear notifications: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO notifications
		(id, title, message, category, priority, status, created_at, read_at, action_url, action_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot cache: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range notifications {
		n := &notifications[i]
		var readAt sql.NullString
		if n.ReadAt != nil {
			readAt = sql.NullString{String: n.ReadAt.UTC().Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := stmt.Exec(
			n.ID, n.Title, n.Message,
			n.Category.String(), n.Priority.String(), n.Status.String(),
			n.CreatedAt.UTC().Format(time.RFC3339Nano), readAt,
			n.ActionURL, n.ActionText,
		); err != nil {
			return fmt.Errorf("snapshot cache: insert notification %s: %w", n.ID, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range map[string]string{
		"unread_count": strconv.Itoa(unreadCount),
		"saved_at":     now,
	} {
		if _, err := tx.Exec(
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		); err != nil {
			return fmt.Errorf("snapshot cache: save meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot cache: commit save: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrEmpty when nothing has been
// saved yet.
func (c *Cache) Load() (Snapshot, error) {
	var savedAtRaw string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'saved_at'").Scan(&savedAtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrEmpty
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot cache: load saved_at: %w", err)
	}
	savedAt, err := time.Parse(time.RFC3339Nano, savedAtRaw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot cache: parse saved_at: %w", err)
	}

	var unreadRaw string
	if err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'unread_count'").Scan(&unreadRaw); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot cache: load unread_count: %w", err)
	}
	unread, err := strconv.Atoi(unreadRaw)
	if err != nil || unread < 0 {
		unread = 0
	}

	rows, err := c.db.Query(`SELECT id, title, message, category, priority, status,
		created_at, read_at, action_url, action_text
		FROM notifications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot cache: query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			category  string
			priority  string
			status    string
			createdAt string
			readAt    sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &category, &priority, &status,
			&createdAt, &readAt, &n.ActionURL, &n.ActionText); err != nil {
			return Snapshot{}, fmt.Errorf("snapshot cache: scan notification: %w", err)
		}
		n.Category = domain.ParseCategory(category)
		n.Priority = domain.ParsePriority(priority)
		if st, err := domain.ParseStatus(status); err == nil {
			n.Status = st
		} else {
			n.Status = domain.StatusUnread
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return Snapshot{}, fmt.Errorf("snapshot cache: parse created_at for %s: %w", n.ID, err)
		}
		if readAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, readAt.String)
			if err != nil {
				return Snapshot{}, fmt.Errorf("snapshot cache: parse read_at for %s: %w", n.ID, err)
			}
			n.ReadAt = &t
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot cache: iterate notifications: %w", err)
	}

	return Snapshot{Notifications: notifications, UnreadCount: unread, SavedAt: savedAt}, nil
}

// DefaultPath returns the cache location under the given state dir.
func DefaultPath(stateDir string) string {
	return filepath.Join(stateDir, "snapshot.db")
}
