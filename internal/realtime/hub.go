// Package realtime pushes engine events to websocket clients: the full
// state on every transition and the remaining time on every tick.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/model"
	"github.com/iliyamo/workspace-sessions/internal/utils"
)

const (
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

// Message is the frame sent to clients.
type Message struct {
	Kind             engine.EventKind `json:"kind"`
	At               time.Time        `json:"at"`
	Reason           engine.EndReason `json:"reason,omitempty"`
	Remaining        string           `json:"remaining,omitempty"`
	RemainingSeconds int64            `json:"remaining_seconds,omitempty"`
	Session          *model.Session   `json:"session,omitempty"`
	State            *model.AppState  `json:"state,omitempty"`
}

// KindSnapshot is the first frame every client receives.
const KindSnapshot engine.EventKind = "snapshot"

// Hub fans engine events out to connected clients. A client that falls
// behind by more than its send buffer is disconnected.
type Hub struct {
	snapshot func() model.AppState
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub that greets each client with snapshot().
func NewHub(snapshot func() model.AppState) *Hub {
	return &Hub{
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log.New("realtime"),
		clients: make(map[*client]struct{}),
	}
}

// Listener is registered with Engine.Subscribe.
func (h *Hub) Listener(ev engine.Event) {
	msg := Message{Kind: ev.Kind, At: ev.At, Reason: ev.Reason, Session: ev.Session, State: ev.State}
	if ev.Kind == engine.EventTick {
		msg.Remaining = utils.FormatCountdown(ev.Remaining)
		msg.RemainingSeconds = int64(ev.Remaining / time.Second)
	}
	h.broadcast(msg)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("marshal %s: %v", msg.Kind, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.logger.Warnf("client %s too slow; disconnecting", c.conn.RemoteAddr())
			h.removeLocked(c)
		}
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Serve upgrades the request and streams events until the client goes
// away.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return nil
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	st := h.snapshot()
	first, err := json.Marshal(Message{Kind: KindSnapshot, At: time.Now(), State: &st})
	if err != nil {
		conn.Close()
		return err
	}
	cl.send <- first

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// readLoop discards client frames and unregisters on disconnect.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(c)
		h.mu.Unlock()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
