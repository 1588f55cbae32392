// Package wsconn fans JSON messages out to read-only WebSocket subscribers.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/fd1az/multichain-arb/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 16
)

// Envelope is the frame sent to subscribers.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Config holds hub settings.
type Config struct {
	// OriginPatterns allowed cross-origin; empty allows same-origin only.
	OriginPatterns []string
	PingPeriod     time.Duration
}

type client struct {
	send chan []byte
}

// Hub tracks connected subscribers and broadcasts to all of them.
// The latest message is replayed to new subscribers.
type Hub struct {
	cfg Config
	log logger.LoggerInterface

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

// NewHub creates a hub.
func NewHub(cfg Config, log logger.LoggerInterface) *Hub {
	if cfg.PingPeriod <= 0 {
		cfg.PingPeriod = pingPeriod
	}
	return &Hub{
		cfg:     cfg,
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast marshals payload once and queues it for every subscriber.
// Slow subscribers whose buffer is full miss the message.
func (h *Hub) Broadcast(ctx context.Context, msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.latest = frame

	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn(ctx, "ws: dropping message for slow client", "type", msgType)
		}
	}
	return nil
}

// Latest returns the last broadcast frame, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) register(c *client) (latest []byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}
	h.clients[c] = struct{}{}
	return h.latest, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeHTTP upgrades the request and streams frames until either side closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		h.log.Warn(r.Context(), "ws: accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	c := &client{send: make(chan []byte, sendBufferSize)}
	latest, ok := h.register(c)
	if !ok {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(c)

	// Subscribers never send; CloseRead handles control frames and cancels on close.
	ctx := conn.CloseRead(r.Context())

	h.log.Debug(ctx, "ws: client connected", "clients", h.ClientCount())

	if err := h.writeJSON(ctx, conn, Envelope{Type: "hello"}); err != nil {
		return
	}
	if latest != nil {
		if err := h.write(ctx, conn, latest); err != nil {
			return
		}
	}

	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := h.write(ctx, conn, frame); err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, frame []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return h.logWriteErr(ctx, conn.Write(ctx, websocket.MessageText, frame))
}

func (h *Hub) writeJSON(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return h.logWriteErr(ctx, wsjson.Write(ctx, conn, v))
}

func (h *Hub) logWriteErr(ctx context.Context, err error) error {
	if err != nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) == -1 {
		h.log.Debug(ctx, "ws: write failed", "error", err)
	}
	return err
}
