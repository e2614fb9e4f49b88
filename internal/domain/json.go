package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// wireNotification is the JSON shape shared by the push channel and the
// REST API. Timestamps are RFC 3339.
type wireNotification struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Category   string     `json:"category"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	ActionURL  string     `json:"action_url,omitempty"`
	ActionText string     `json:"action_text,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNotification{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Category:   n.Category.String(),
		Priority:   n.Priority.String(),
		Status:     n.Status.String(),
		CreatedAt:  n.CreatedAt,
		ReadAt:     n.ReadAt,
		ActionURL:  n.ActionURL,
		ActionText: n.ActionText,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown category and priority
// values degrade to their defaults; a missing or unknown status defaults to
// unread so a malformed record is never silently counted as read.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var w wireNotification
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	status := StatusUnread
	if s := Status(strings.ToLower(w.Status)); s.IsValid() {
		status = s
	}

	*n = Notification{
		ID:         w.ID,
		Title:      w.Title,
		Message:    w.Message,
		Category:   ParseCategory(w.Category),
		Priority:   ParsePriority(w.Priority),
		Status:     status,
		CreatedAt:  w.CreatedAt,
		ReadAt:     w.ReadAt,
		ActionURL:  w.ActionURL,
		ActionText: w.ActionText,
	}
	return nil
}
