// Package devserver implements an in-memory stand-in for the Waveform
// notification backend. It serves the REST endpoints the client calls plus
// the websocket push feed, so the tray can be exercised end to end without
// network access to production.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/logging"
)

const defaultPageLimit = 50

// Server is an in-memory notification backend.
type Server struct {
	token string
	hub   *hub

	mu      sync.Mutex
	records []domain.Notification
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires the given bearer token on REST calls and as the token
// query parameter on websocket connects. Empty disables auth.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithSeed preloads notifications into the feed.
func WithSeed(notifications []domain.Notification) Option {
	return func(s *Server) {
		s.records = append(s.records, notifications...)
		domain.SortNewestFirst(s.records)
	}
}

// New creates a devserver. Call Run to start the push hub, then serve
// Router over HTTP.
func New(opts ...Option) *Server {
	s := &Server{
		hub: newHub(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the push hub until ctx is canceled.
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws/notifications/", s.handleWebsocket)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/notifications/", s.handleList)
		r.Get("/notifications/unread_count/", s.handleUnreadCount)
		r.Post("/notifications/mark_all_as_read/", s.handleMarkAllAsRead)
		r.Post("/notifications/{id}/mark_as_read/", s.handleMarkAsRead)
		r.Delete("/notifications/{id}/", s.handleDelete)
		r.Post("/admin/broadcast/", s.handleBroadcast)
		r.Post("/admin/send-to-user/", s.handleSendToUser)
	})

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != s.token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid or missing token"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Dev fixture, any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if s.token != "" && r.URL.Query().Get("token") != s.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid or missing token"})
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := newWSClient(s.hub, conn)
	s.hub.register <- client
	client.start()
}

type listResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	s.mu.Lock()
	page := s.records
	if len(page) > limit {
		page = page[:limit]
	}
	out := make([]domain.Notification, len(page))
	copy(out, page)
	unread := domain.CountUnread(s.records)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, listResponse{Notifications: out, UnreadCount: unread})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	unread := domain.CountUnread(s.records)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"unread_count": unread})
}

func (s *Server) handleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	var changed bool
	for i := range s.records {
		if s.records[i].ID == id {
			changed = s.records[i].MarkRead(s.now())
			break
		}
	}
	unread := domain.CountUnread(s.records)
	s.mu.Unlock()

	// Marking an already read or unknown id is a no-op, not an error.
	if changed {
		s.hub.Broadcast(readFrame(id))
		s.hub.Broadcast(unreadCountFrame(unread))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var read []string
	for i := range s.records {
		if s.records[i].MarkRead(s.now()) {
			read = append(read, s.records[i].ID)
		}
	}
	s.mu.Unlock()

	for _, id := range read {
		s.hub.Broadcast(readFrame(id))
	}
	s.hub.Broadcast(unreadCountFrame(0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	unread := domain.CountUnread(s.records)
	s.mu.Unlock()

	s.hub.Broadcast(unreadCountFrame(unread))
	w.WriteHeader(http.StatusNoContent)
}

type sendPayload struct {
	UserID           string `json:"user_id"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
	NotificationType string `json:"notification_type"`
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	s.handleSend(w, r, false)
}

func (s *Server) handleSendToUser(w http.ResponseWriter, r *http.Request) {
	s.handleSend(w, r, true)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request, requireUser bool) {
	var payload sendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}
	if payload.Title == "" && payload.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "title or message is required"})
		return
	}
	if requireUser && payload.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "user_id is required"})
		return
	}

	n := s.inject(payload)
	writeJSON(w, http.StatusCreated, n)
}

// Inject adds a notification directly to the feed and pushes it to
// connected clients. Used by tests and by the periodic demo generator.
func (s *Server) Inject(n domain.Notification) domain.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if n.Status == "" {
		n.Status = domain.StatusUnread
	}

	s.mu.Lock()
	s.records = append(s.records, n)
	domain.SortNewestFirst(s.records)
	unread := domain.CountUnread(s.records)
	s.mu.Unlock()

	s.hub.Broadcast(arrivalFrame(n))
	s.hub.Broadcast(unreadCountFrame(unread))
	return n
}

func (s *Server) inject(payload sendPayload) domain.Notification {
	return s.Inject(domain.Notification{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		Message:   payload.Message,
		Category:  domain.ParseCategory(payload.NotificationType),
		Priority:  domain.ParsePriority(payload.Priority),
		Status:    domain.StatusUnread,
		CreatedAt: s.now(),
	})
}

// Snapshot returns a copy of the current feed, newest first.
func (s *Server) Snapshot() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.records))
	copy(out, s.records)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}
