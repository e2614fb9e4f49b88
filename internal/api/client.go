// Package api provides the REST client for the Waveform notification
// endpoints. It is a thin, authenticated HTTP layer; merging results into
// local state is the reconcile package's job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waveformhq/wavetray/internal/domain"
)

const defaultTimeout = 10 * time.Second

// TokenSource supplies the current auth token. It is consulted per request
// so a rotated token is picked up without rebuilding the client.
type TokenSource func() string

// Client calls the notification REST API.
type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the given API origin, e.g.
// "https://api.waveform.fm". The token source may return an empty string
// when running against a devserver with auth disabled.
func NewClient(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is one page of notification history plus the optional unread count
// some backend versions attach to the list response.
type Page struct {
	Notifications []domain.Notification
	UnreadCount   *int
}

type listResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   *int                  `json:"unread_count,omitempty"`
}

type unreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// ListNotifications fetches up to limit notifications, newest first.
// A cursor may be passed to page further back; empty means the first page.
func (c *Client) ListNotifications(ctx context.Context, limit int, cursor string) (Page, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	path := "/notifications/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Page{}, fmt.Errorf("list notifications: %w", err)
	}
	return Page{Notifications: resp.Notifications, UnreadCount: resp.UnreadCount}, nil
}

// UnreadCount fetches the authoritative unread count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/notifications/unread_count/", nil, &resp); err != nil {
		return 0, fmt.Errorf("fetch unread count: %w", err)
	}
	if resp.UnreadCount < 0 {
		return 0, nil
	}
	return resp.UnreadCount, nil
}

// MarkAsRead marks one notification read. Idempotent server-side.
func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("mark as read: id cannot be empty")
	}
	path := "/notifications/" + url.PathEscape(id) + "/mark_as_read/"
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("mark notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllAsRead marks every notification read. Idempotent server-side.
func (c *Client) MarkAllAsRead(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/notifications/mark_all_as_read/", nil, nil); err != nil {
		return fmt.Errorf("mark all notifications as read: %w", err)
	}
	return nil
}

// DeleteNotification deletes one notification. Idempotent server-side.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete notification: id cannot be empty")
	}
	path := "/notifications/" + url.PathEscape(id) + "/"
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	return nil
}

// SendRequest is the admin fan-out payload for broadcast and send-to-user.
type SendRequest struct {
	Title            string `json:"title"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
	NotificationType string `json:"notification_type"`
	SendEmail        bool   `json:"send_email"`
	SendPush         bool   `json:"send_push"`
	SendInApp        bool   `json:"send_in_app"`
}

// Validate checks the request before it goes on the wire.
func (r SendRequest) Validate() error {
	if r.Title == "" && r.Message == "" {
		return fmt.Errorf("send request must have a title or a message")
	}
	if r.Priority != "" && !domain.Priority(r.Priority).IsValid() {
		return fmt.Errorf("invalid priority: %s", r.Priority)
	}
	return nil
}

// Broadcast fans a notification out to all users. Admin only.
func (c *Client) Broadcast(ctx context.Context, req SendRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/admin/broadcast/", req, nil); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	return nil
}

type sendToUserRequest struct {
	UserID string `json:"user_id"`
	SendRequest
}

// SendToUser fans a notification out to a single user. Admin only.
func (c *Client) SendToUser(ctx context.Context, userID string, req SendRequest) error {
	if userID == "" {
		return fmt.Errorf("send to user: user id cannot be empty")
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("send to user: %w", err)
	}
	body := sendToUserRequest{UserID: userID, SendRequest: req}
	if err := c.do(ctx, http.MethodPost, "/admin/send-to-user/", body, nil); err != nil {
		return fmt.Errorf("send to user %s: %w", userID, err)
	}
	return nil
}

// do performs a request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
