// Package ws streams load tracking updates to websocket subscribers. The Hub
// is fed by the event publisher after each committed transaction.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var ErrHubStopped = errors.New("tracking hub stopped")

type client struct {
	loadID kernel.ID
	conn   *websocket.Conn
	send   chan []byte
}

type envelope struct {
	loadID kernel.ID
	body   []byte
}

// Hub keeps subscribers per load and implements ports.EventPublisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan envelope
	done       chan struct{}

	mu          sync.RWMutex
	subscribers map[kernel.ID]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:      logger.With("component", "tracking_hub"),
		register:    make(chan *client),
		unregister:  make(chan *client),
		broadcast:   make(chan envelope, 64),
		done:        make(chan struct{}),
		subscribers: make(map[kernel.ID]map[*client]struct{}),
	}
}

// Run dispatches until ctx is done, then disconnects every subscriber.
// Run must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.subscribers[c.loadID] == nil {
				h.subscribers[c.loadID] = make(map[*client]struct{})
			}
			h.subscribers[c.loadID][c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for c := range h.subscribers[e.loadID] {
				select {
				case c.send <- e.body:
				default:
					// Slow subscriber.
					h.remove(c)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.subscribers {
				for c := range clients {
					h.remove(c)
				}
			}
			h.mu.Unlock()
			close(h.done)
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *client) {
	clients, ok := h.subscribers[c.loadID]
	if !ok {
		return
	}
	if _, ok = clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.subscribers, c.loadID)
	}
}

// Subscribers reports how many connections follow the load.
func (h *Hub) Subscribers(loadID kernel.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[loadID])
}

// Publish queues the events for subscribers of their loads. Loads nobody
// follows are skipped.
func (h *Hub) Publish(ctx context.Context, events ...load.Event) error {
	for _, event := range events {
		if h.Subscribers(event.LoadID) == 0 {
			continue
		}

		msg, err := messageFromEvent(event)
		if err != nil {
			return err
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		select {
		case h.broadcast <- envelope{loadID: event.LoadID, body: body}:
		case <-h.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Serve upgrades the request and streams updates of loadID, starting with
// snapshot. It returns once the connection is registered.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, loadID kernel.ID, snapshot Message) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	first, err := json.Marshal(snapshot)
	if err != nil {
		_ = conn.Close()
		return err
	}

	c := &client{loadID: loadID, conn: conn, send: make(chan []byte, sendBufferSize)}
	c.send <- first

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubStopped
	case <-r.Context().Done():
		_ = conn.Close()
		return r.Context().Err()
	}

	go h.writePump(c)
	go h.readPump(c)

	h.logger.DebugContext(r.Context(), "tracking subscriber connected", "reference", kernel.ReferencePrefix+loadID.String())
	return nil
}

// readPump only drains control frames; subscribers never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case body, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
