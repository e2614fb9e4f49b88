// Package domain provides the domain layer for notifications.
// It contains the notification record, its enumerated value objects,
// and ordering helpers shared by the store and presentation layers.
package domain

import (
	"fmt"
	"time"
)

// Notification represents a single notification record as delivered by the
// platform, either over the push channel or via the REST history API.
// After creation only Status and ReadAt change.
type Notification struct {
	ID         string
	Title      string
	Message    string
	Category   Category
	Priority   Priority
	Status     Status
	CreatedAt  time.Time
	ReadAt     *time.Time
	ActionURL  string
	ActionText string
}

// Category classifies a notification for icon and color selection.
// The set is open-ended server-side; unknown values degrade to
// CategoryGeneral instead of failing.
type Category string

const (
	CategoryTicketUpdate  Category = "ticket_update"
	CategoryPaymentStatus Category = "payment_status"
	CategorySystemAlert   Category = "system_alert"
	CategoryAdminMessage  Category = "admin_message"
	CategoryReleaseUpdate Category = "release_update"
	CategoryGeneral       Category = "general"
)

// IsValid checks if the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTicketUpdate, CategoryPaymentStatus, CategorySystemAlert,
		CategoryAdminMessage, CategoryReleaseUpdate, CategoryGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Icon returns the glyph used when rendering the category.
func (c Category) Icon() string {
	switch c {
	case CategoryTicketUpdate:
		return "🎫"
	case CategoryPaymentStatus:
		return "💳"
	case CategorySystemAlert:
		return "⚠"
	case CategoryAdminMessage:
		return "📣"
	case CategoryReleaseUpdate:
		return "🎵"
	default:
		return "•"
	}
}

// ParseCategory maps a wire value to a Category, degrading unknown values
// to CategoryGeneral rather than returning an error.
func ParseCategory(s string) Category {
	c := Category(s)
	if !c.IsValid() {
		return CategoryGeneral
	}
	return c
}

// Priority represents the urgency of a notification. It drives visual
// emphasis and toast duration, never delivery guarantees.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// ToastTTL returns how long an arrival toast for this priority stays visible.
func (p Priority) ToastTTL() time.Duration {
	switch p {
	case PriorityUrgent:
		return 12 * time.Second
	case PriorityHigh:
		return 8 * time.Second
	case PriorityLow:
		return 3 * time.Second
	default:
		return 5 * time.Second
	}
}

// ParsePriority maps a wire value to a Priority, degrading unknown values
// to PriorityNormal.
func ParsePriority(s string) Priority {
	p := Priority(s)
	if !p.IsValid() {
		return PriorityNormal
	}
	return p
}

// Status represents the read state of a notification.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnread, StatusRead:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid notification status: %s", s)
	}
	return st, nil
}

// IsUnread reports whether the notification has not been read yet.
func (n *Notification) IsUnread() bool {
	return n.Status == StatusUnread
}

// MarkRead transitions the notification to read, stamping ReadAt on the
// first transition only. Returns true if the status actually changed.
func (n *Notification) MarkRead(at time.Time) bool {
	if n.Status == StatusRead {
		return false
	}
	n.Status = StatusRead
	if n.ReadAt == nil {
		t := at.UTC()
		n.ReadAt = &t
	}
	return true
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("notification ID cannot be empty")
	}
	if n.CreatedAt.IsZero() {
		return fmt.Errorf("notification created_at cannot be zero")
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("invalid notification status: %s", n.Status)
	}
	if !n.Priority.IsValid() {
		return fmt.Errorf("invalid notification priority: %s", n.Priority)
	}
	if n.Title == "" && n.Message == "" {
		return fmt.Errorf("notification must have a title or a message")
	}
	return nil
}
