// Package reconcile bridges the bounded real-time store and the paginated
// REST history. Every write-intent command follows "update local state
// first, call remote second, surface failure via toast": perceived
// responsiveness is preferred over strict consistency, which is acceptable
// for a low-stakes notification list. Failed writes are not rolled back;
// the user only ever sees a toast for actions they initiated.
package reconcile

import (
	"context"

	"github.com/waveformhq/wavetray/internal/api"
	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/events"
	"github.com/waveformhq/wavetray/internal/logging"
	"github.com/waveformhq/wavetray/internal/store"
)

// APIClient is the subset of the REST client the reconciler needs.
type APIClient interface {
	ListNotifications(ctx context.Context, limit int, cursor string) (api.Page, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// Toaster receives user-facing feedback. The TUI wires in the toast queue;
// CLI commands use a no-op.
type Toaster interface {
	Success(message string) int
	Error(message string) int
	PushArrival(n domain.Notification) int
}

// NopToaster discards all feedback.
type NopToaster struct{}

func (NopToaster) Success(string) int                  { return 0 }
func (NopToaster) Error(string) int                    { return 0 }
func (NopToaster) PushArrival(domain.Notification) int { return 0 }

// Reconciler coordinates the store, the REST client, and user feedback.
type Reconciler struct {
	client APIClient
	store  *store.Store
	toasts Toaster
	limit  int
}

// New creates a Reconciler. A nil toaster gets a no-op.
func New(client APIClient, st *store.Store, toasts Toaster, pageLimit int) *Reconciler {
	if client == nil {
		panic("reconcile.New: client dependency cannot be nil")
	}
	if st == nil {
		panic("reconcile.New: store dependency cannot be nil")
	}
	if toasts == nil {
		toasts = NopToaster{}
	}
	if pageLimit <= 0 {
		pageLimit = 50
	}
	return &Reconciler{client: client, store: st, toasts: toasts, limit: pageLimit}
}

// RefreshPage pulls the first page of history and replaces the materialized
// window. Fetch failures are logged, never surfaced to the user; the stale
// window stays usable until the next refresh.
func (r *Reconciler) RefreshPage(ctx context.Context) error {
	page, err := r.client.ListNotifications(ctx, r.limit, "")
	if err != nil {
		logging.Warn("refresh page failed", "error", err)
		return err
	}
	r.store.ReplacePage(page.Notifications)
	if page.UnreadCount != nil {
		r.store.SetUnreadCount(*page.UnreadCount)
	}
	return nil
}

// RefreshUnreadCount pulls the authoritative unread count and applies it to
// the store. Failures are logged and silent, same as RefreshPage.
func (r *Reconciler) RefreshUnreadCount(ctx context.Context) error {
	count, err := r.client.UnreadCount(ctx)
	if err != nil {
		logging.Warn("refresh unread count failed", "error", err)
		return err
	}
	r.store.SetUnreadCount(count)
	return nil
}

// MarkAsRead optimistically marks the record read locally, then confirms
// with the server. On failure the local change stays and an error toast is
// shown.
func (r *Reconciler) MarkAsRead(ctx context.Context, id string) error {
	r.store.MarkRead(id)
	if err := r.client.MarkAsRead(ctx, id); err != nil {
		logging.Error("mark as read failed", "id", id, "error", err)
		r.toasts.Error("Failed to mark notification as read")
		return err
	}
	return nil
}

// MarkAllAsRead optimistically marks everything read locally, then confirms
// with the server. Success produces a confirmation toast.
func (r *Reconciler) MarkAllAsRead(ctx context.Context) error {
	r.store.MarkAllRead()
	if err := r.client.MarkAllAsRead(ctx); err != nil {
		logging.Error("mark all as read failed", "error", err)
		r.toasts.Error("Failed to mark all notifications as read")
		return err
	}
	r.toasts.Success("All notifications marked as read")
	return nil
}

// DeleteNotification optimistically removes the record locally, then
// confirms with the server. The record is not restored on failure.
func (r *Reconciler) DeleteNotification(ctx context.Context, id string) error {
	r.store.DeleteOne(id)
	if err := r.client.DeleteNotification(ctx, id); err != nil {
		logging.Error("delete notification failed", "id", id, "error", err)
		r.toasts.Error("Failed to delete notification")
		return err
	}
	return nil
}

// Apply merges a push-channel event into the store. There is no ordering
// guarantee between push and pull paths; the store's idempotent operations
// (dedupe by ID, floor-clamped counters) keep the merged result correct for
// any interleaving.
func (r *Reconciler) Apply(ev events.Event) {
	switch ev := ev.(type) {
	case events.NotificationArrived:
		if inserted := r.store.AddOne(ev.Notification); inserted {
			r.toasts.PushArrival(ev.Notification)
		}
	case events.UnreadCountChanged:
		r.store.SetUnreadCount(ev.Count)
	case events.NotificationMarkedRead:
		r.store.MarkRead(ev.ID)
	default:
		logging.Debug("ignoring unhandled event", "event", ev)
	}
}
