package dashboard

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait     = 10 * time.Second
	subscriberBuf = 8
)

// feedMessage is the outgoing WebSocket message format.
type feedMessage struct {
	Type    string         `json:"type"` // "snapshot" or "changes"
	Changes []stats.Change `json:"changes"`
}

// Hub fans board changes out to websocket subscribers. Slow subscribers
// drop messages rather than block the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []stats.Change]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan []stats.Change]struct{})}
}

// Broadcast sends changes to every subscriber. It never blocks.
func (h *Hub) Broadcast(changes []stats.Change) {
	if len(changes) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- changes:
		default:
		}
	}
}

// Subscribers returns the number of connected feeds.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() chan []stats.Change {
	ch := make(chan []stats.Change, subscriberBuf)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan []stats.Change) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// snapshotChanges renders the board as a change list in slot order.
func snapshotChanges(b *stats.Board) []stats.Change {
	snap := b.Snapshot()
	out := make([]stats.Change, 0, len(snap))
	for _, slot := range stats.Slots {
		if v, ok := snap[slot]; ok {
			out = append(out, stats.Change{Slot: slot, Value: v})
		}
	}
	return out
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err, "component", "Dashboard")
		return
	}
	defer conn.Close()

	ch := d.hub.subscribe()
	defer d.hub.unsubscribe(ch)

	// The feed is one-way; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("Websocket read failed", "error", err, "component", "Dashboard")
				}
				return
			}
		}
	}()

	if err := d.send(conn, feedMessage{Type: "snapshot", Changes: snapshotChanges(d.board)}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case changes := <-ch:
			if err := d.send(conn, feedMessage{Type: "changes", Changes: changes}); err != nil {
				return
			}
		}
	}
}

func (d *Dashboard) send(conn *websocket.Conn, msg feedMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("Websocket write failed", "error", err, "component", "Dashboard")
		return err
	}
	return nil
}
