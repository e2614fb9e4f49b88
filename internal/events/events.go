// Package events normalizes raw push-channel frames into typed domain
// events. Normalization is a pure mapping: the same frame always yields the
// same event, which keeps this package testable without a live socket.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/waveformhq/wavetray/internal/domain"
)

// Wire message type discriminators accepted from the push channel.
const (
	TypeNotification    = "notification"
	TypeNewNotification = "new_notification"
	TypeUnreadCount     = "unread_count"
	TypeNotificationRead = "notification_read"
)

// ErrUnknownType is returned for frames whose type discriminator is not
// recognized. Callers log and drop these; they must never crash the client.
var ErrUnknownType = errors.New("unknown push message type")

// Event is the union of domain events produced by the normalizer.
// It is sealed: only types in this package implement it.
type Event interface {
	isEvent()
}

// NotificationArrived signals a server-pushed new notification.
type NotificationArrived struct {
	Notification domain.Notification
}

// UnreadCountChanged carries an authoritative unread count from the server.
type UnreadCountChanged struct {
	Count int
}

// NotificationMarkedRead signals that a notification was marked read from
// another session or device.
type NotificationMarkedRead struct {
	ID string
}

func (NotificationArrived) isEvent()    {}
func (UnreadCountChanged) isEvent()     {}
func (NotificationMarkedRead) isEvent() {}

// envelope is the outer frame shape: a type discriminator plus the payload
// fields used by each message type.
type envelope struct {
	Type           string          `json:"type"`
	Notification   json.RawMessage `json:"notification"`
	Count          *int            `json:"count"`
	NotificationID json.RawMessage `json:"notification_id"`
}

// Normalize converts a raw frame into a domain event. Unknown type values
// return ErrUnknownType; malformed frames return a wrapped decode error.
func Normalize(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode push frame: %w", err)
	}

	switch env.Type {
	case TypeNotification, TypeNewNotification:
		if len(env.Notification) == 0 {
			return nil, fmt.Errorf("push frame %q missing notification payload", env.Type)
		}
		var n domain.Notification
		if err := json.Unmarshal(env.Notification, &n); err != nil {
			return nil, fmt.Errorf("decode notification payload: %w", err)
		}
		if n.ID == "" {
			return nil, fmt.Errorf("push frame %q has notification without id", env.Type)
		}
		return NotificationArrived{Notification: n}, nil

	case TypeUnreadCount:
		if env.Count == nil {
			return nil, fmt.Errorf("push frame %q missing count", env.Type)
		}
		count := *env.Count
		if count < 0 {
			count = 0
		}
		return UnreadCountChanged{Count: count}, nil

	case TypeNotificationRead:
		id := flexibleID(env.NotificationID)
		if id == "" {
			return nil, fmt.Errorf("push frame %q missing notification_id", env.Type)
		}
		return NotificationMarkedRead{ID: id}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// flexibleID accepts notification IDs sent either as JSON strings or
// numbers; some backend versions emit numeric IDs.
func flexibleID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
