// Package channel maintains the persistent push connection to the
// notification backend: exactly one logical connection per session, with
// fixed-delay reconnect and token lookup at connect time.
//
// Transport failures are never surfaced to the user; the client degrades to
// REST-only mode until the next successful connect.
package channel

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/waveformhq/wavetray/internal/events"
	"github.com/waveformhq/wavetray/internal/logging"
)

// State is the connection state of the channel.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// DefaultReconnectDelay is the fixed delay between reconnect attempts.
// Deliberately constant rather than exponential: it matches the backend's
// observed client behavior and the delay is configurable.
const DefaultReconnectDelay = 3 * time.Second

// ErrNoToken is returned when the session has no auth token. The channel
// treats it as terminal: no retries until a new session starts.
var ErrNoToken = errors.New("channel: no auth token available")

// TokenSource supplies the auth token. It is consulted before every
// connection attempt so a rotated token is used on the next connect; a live
// connection is never re-authenticated.
type TokenSource func() string

// Conn is a minimal read-only view of a websocket connection.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer establishes push connections. The default is gorilla-backed;
// tests substitute a fake.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// Config configures a Channel.
type Config struct {
	// PushURL is the websocket endpoint, e.g.
	// "wss://push.waveform.fm/ws/notifications/".
	PushURL string
	// Token supplies the auth token per connection attempt.
	Token TokenSource
	// AllowAnonymous permits connecting without a token. Development only.
	AllowAnonymous bool
	// ReconnectDelay is the fixed retry delay; zero means the default.
	ReconnectDelay time.Duration
	// Dialer may be overridden for tests; nil means gorilla.
	Dialer Dialer
	// OnEvent receives each normalized domain event, in arrival order.
	OnEvent func(events.Event)
	// OnStateChange, when set, observes every state transition.
	OnStateChange func(State)
}

// Channel is the push connection lifecycle. One Run loop owns the
// connection and the single reconnect timer, which is how the
// at-most-one-pending-attempt invariant is enforced.
type Channel struct {
	cfg Config

	mu    sync.RWMutex
	state State
}

// New creates a Channel from the given config.
func New(cfg Config) *Channel {
	if cfg.PushURL == "" {
		panic("channel.New: PushURL cannot be empty")
	}
	if cfg.Token == nil {
		cfg.Token = func() string { return "" }
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &gorillaDialer{}
	}
	if cfg.OnEvent == nil {
		cfg.OnEvent = func(events.Event) {}
	}
	return &Channel{cfg: cfg, state: StateDisconnected}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	changed := c.state != s
	c.state = s
	c.mu.Unlock()
	if changed && c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(s)
	}
}

// Run drives the connect/read/reconnect loop until the context is canceled
// or the session loses its token. It blocks; callers run it in a goroutine.
func (c *Channel) Run(ctx context.Context) error {
	defer c.setState(StateDisconnected)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		token := c.cfg.Token()
		if token == "" && !c.cfg.AllowAnonymous {
			logging.Info("push channel stopping: session has no token")
			return ErrNoToken
		}

		c.setState(StateConnecting)
		conn, err := c.cfg.Dialer.DialContext(ctx, c.connectURL(token))
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Debug("push connect failed", "error", err)
			if err := c.waitReconnect(ctx); err != nil {
				return err
			}
			continue
		}

		c.setState(StateConnected)
		logging.Info("push channel connected")
		c.readLoop(ctx, conn)
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.waitReconnect(ctx); err != nil {
			return err
		}
	}
}

// readLoop consumes frames strictly in arrival order until the connection
// breaks or the context is canceled.
func (c *Channel) readLoop(ctx context.Context, conn Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer func() { _ = conn.Close() }()

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logging.Debug("push connection closed", "error", err)
			}
			return
		}
		ev, err := events.Normalize(raw)
		if err != nil {
			// Unknown and malformed frames are dropped, never fatal.
			logging.Warn("dropping push frame", "error", err)
			continue
		}
		c.cfg.OnEvent(ev)
	}
}

// waitReconnect sleeps for the fixed reconnect delay. The single timer
// lives on this loop's stack: a new attempt cannot start while one is
// pending, and cancellation stops it before a new session begins.
func (c *Channel) waitReconnect(ctx context.Context) error {
	timer := time.NewTimer(c.cfg.ReconnectDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// connectURL appends the token query parameter to the push endpoint.
func (c *Channel) connectURL(token string) string {
	if token == "" {
		return c.cfg.PushURL
	}
	sep := "?"
	if u, err := url.Parse(c.cfg.PushURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return c.cfg.PushURL + sep + "token=" + url.QueryEscape(token)
}
