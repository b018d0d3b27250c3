// Package live pushes session snapshots to connected widgets over
// websockets, so transitions fired by timers reach the browser.
package live

import (
	"context"
	"net/http"
	"sync"

	"github.com/wolfman30/autocare-booking/internal/session"
	"github.com/wolfman30/autocare-booking/pkg/logging"
	"golang.org/x/net/websocket"
)

// SnapshotFunc returns the current view of a session.
type SnapshotFunc func(ctx context.Context, sessionID string) (any, error)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "ping"
}

// OutboundMessage is what the hub sends.
type OutboundMessage struct {
	Type     string `json:"type"` // "snapshot", "pong", "error"
	Session  any    `json:"session,omitempty"`
	Text     string `json:"text,omitempty"`
	Sequence uint64 `json:"seq,omitempty"`
}

// Hub fans snapshots out to every connection of a session.
type Hub struct {
	snapshot SnapshotFunc
	logger   *logging.Logger

	mu    sync.RWMutex
	conns map[string]map[*conn]struct{}
	seq   uint64
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.ws, msg)
}

// NewHub creates a hub. snapshot provides the initial state sent on connect.
func NewHub(snapshot SnapshotFunc, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{snapshot: snapshot, logger: logger, conns: make(map[string]map[*conn]struct{})}
}

// Publish sends payload to every connection watching sessionID.
func (h *Hub) Publish(sessionID string, payload any) {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	targets := make([]*conn, 0, len(h.conns[sessionID]))
	for c := range h.conns[sessionID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(OutboundMessage{Type: "snapshot", Session: payload, Sequence: seq}); err != nil {
			h.logger.Debug("live: send failed", "session_id", sessionID, "error", err)
		}
	}
}

// Subscribers returns the number of open connections for sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// HandleWebSocket serves GET /session/events. The session id must already be
// in the request context.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	snap, err := h.snapshot(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	websocket.Handler(func(ws *websocket.Conn) {
		h.serveWS(ws, sessionID, snap)
	}).ServeHTTP(w, r)
}

func (h *Hub) serveWS(ws *websocket.Conn, sessionID string, initial any) {
	c := &conn{ws: ws}
	h.mu.Lock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*conn]struct{})
	}
	h.conns[sessionID][c] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns[sessionID], c)
		if len(h.conns[sessionID]) == 0 {
			delete(h.conns, sessionID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("live: connection opened", "session_id", sessionID)
	if err := c.send(OutboundMessage{Type: "snapshot", Session: initial}); err != nil {
		return
	}

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(ws, &msg); err != nil {
			h.logger.Debug("live: connection closed", "session_id", sessionID, "error", err)
			return
		}
		switch msg.Type {
		case "ping":
			_ = c.send(OutboundMessage{Type: "pong"})
		default:
			_ = c.send(OutboundMessage{Type: "error", Text: "unsupported message type"})
		}
	}
}
