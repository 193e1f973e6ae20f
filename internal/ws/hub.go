// Package ws owns the real-time channel: one websocket per client, a
// process-lifetime dedup set for client-submitted notifications and
// best-effort fan-out of creation events. The hub is constructed in main
// and injected; nothing outside this package touches its state.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// defaultWriteWait bounds how long a single fan-out write may block on a
// slow peer before that peer is dropped.
const defaultWriteWait = 10 * time.Second

type Notification map[string]interface{}

// Event is the wire envelope for every server-emitted message.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	seen  map[string]struct{}

	upgrader  websocket.Upgrader
	log       *slog.Logger
	writeWait time.Duration
}

func NewHub(allowedOrigin string, l *slog.Logger) *Hub {
	return &Hub{
		conns:     make(map[*websocket.Conn]struct{}),
		seen:      make(map[string]struct{}),
		writeWait: defaultWriteWait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
		log: l,
	}
}

// ServeWS upgrades the request and services the connection until the peer
// goes away. New connections receive no backlog of earlier notifications;
// that is the documented behavior, not an oversight.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return nil
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.log.Info("ws connected", "conns", n)

	h.readLoop(conn)
	return nil
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)

	for {
		var msg struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case "sendNotification":
			var n Notification
			if err := json.Unmarshal(msg.Data, &n); err != nil {
				continue // malformed payloads are dropped silently
			}
			h.Submit(n)
		case "new-product":
			h.broadcast(Event{Event: "product-created", Data: msg.Data})
		default:
			// unknown client events are ignored
		}
	}
}

// Submit records the notification id and fans the payload out to every
// live connection. A second submission with an id already seen during this
// process's lifetime is a silent no-op, so two simultaneous submissions of
// the same id produce exactly one broadcast. Reports whether the
// notification was actually delivered.
func (h *Hub) Submit(n Notification) bool {
	rawID, ok := n["id"]
	if !ok || rawID == nil {
		return false
	}
	id := fmt.Sprint(rawID)

	h.mu.Lock()
	if _, dup := h.seen[id]; dup {
		h.mu.Unlock()
		return false
	}
	h.seen[id] = struct{}{}
	h.fanout(Event{Event: "newNotification", Data: n})
	h.mu.Unlock()
	return true
}

// BroadcastProductCreated pushes a creation event to every connection.
// Creation events are not deduplicated: every create is announced once.
func (h *Hub) BroadcastProductCreated(product interface{}) {
	h.broadcast(Event{Event: "product-created", Data: product})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	h.fanout(ev)
	h.mu.Unlock()
}

// fanout must be called with h.mu held; holding the lock also serializes
// writes to each connection. Delivery is at-most-once: a peer failing or
// stalling mid-send is closed and dropped. The write deadline keeps one
// wedged peer from holding the lock, and with it every later broadcast,
// hostage.
func (h *Hub) fanout(ev Event) {
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		conn.Close()
		delete(h.conns, conn)
	}
	n := len(h.conns)
	h.mu.Unlock()
	h.log.Info("ws disconnected", "conns", n)
}

// Conns reports the number of live connections.
func (h *Hub) Conns() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close tears the hub down at shutdown, closing every live connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		conn.Close()
		delete(h.conns, conn)
	}
}
