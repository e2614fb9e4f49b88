package devserver

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Frame is the push envelope written to connected clients. Field names match
// what the production push gateway emits.
type Frame struct {
	Type           string               `json:"type"`
	Notification   *domain.Notification `json:"notification,omitempty"`
	Count          *int                 `json:"count,omitempty"`
	NotificationID string               `json:"notification_id,omitempty"`
}

// Push frame types.
const (
	FrameTypeNotification     = "notification"
	FrameTypeNewNotification  = "new_notification"
	FrameTypeUnreadCount      = "unread_count"
	FrameTypeNotificationRead = "notification_read"
)

func arrivalFrame(n domain.Notification) Frame {
	return Frame{Type: FrameTypeNewNotification, Notification: &n}
}

func unreadCountFrame(count int) Frame {
	return Frame{Type: FrameTypeUnreadCount, Count: &count}
}

func readFrame(id string) Frame {
	return Frame{Type: FrameTypeNotificationRead, NotificationID: id}
}

// hub maintains the set of connected push clients and fans frames out to
// them. One hub per server, driven by Run.
type hub struct {
	clients    map[*wsClient]bool
	broadcast  chan Frame
	register   chan *wsClient
	unregister chan *wsClient
}

func newHub() *hub {
	return &hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan Frame, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run processes client lifecycle and broadcasts until ctx is canceled.
func (h *hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			logging.Debug("push client connected", "total_clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			logging.Debug("push client disconnected", "total_clients", len(h.clients))
		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Slow consumer, drop it.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast queues a frame for every connected client. Never blocks; frames
// are dropped when the hub buffer is full.
func (h *hub) Broadcast(frame Frame) {
	select {
	case h.broadcast <- frame:
	default:
		logging.Warn("push hub buffer full, dropping frame", "type", frame.Type)
	}
}

// wsClient is a middleman between one websocket connection and the hub.
type wsClient struct {
	hub  *hub
	conn *websocket.Conn
	send chan Frame
}

func newWSClient(h *hub, conn *websocket.Conn) *wsClient {
	return &wsClient{hub: h, conn: conn, send: make(chan Frame, 64)}
}

// start begins reading and writing for the client.
func (c *wsClient) start() {
	go c.writePump()
	go c.readPump()
}

// readPump discards inbound messages and unregisters on close. The push
// protocol is server to client only.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Debug("push client read error", "error", err)
			}
			return
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
