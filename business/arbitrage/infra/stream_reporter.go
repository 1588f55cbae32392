package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fd1az/multichain-arb/business/arbitrage/domain"
	"github.com/fd1az/multichain-arb/internal/logger"
	"github.com/fd1az/multichain-arb/internal/wsconn"
)

const cycleMessage = "cycle"

// StreamReporter broadcasts every result to WebSocket subscribers on /ws and
// serves the last one on GET /api/latest.
type StreamReporter struct {
	port int
	hub  *wsconn.Hub
	log  logger.LoggerInterface

	latest atomic.Pointer[domain.CycleResult]
	server *http.Server
}

// NewStreamReporter creates a StreamReporter listening on port.
func NewStreamReporter(port int, hub *wsconn.Hub, log logger.LoggerInterface) *StreamReporter {
	return &StreamReporter{port: port, hub: hub, log: log}
}

// Handler returns the stream mux.
func (r *StreamReporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", r.hub)
	mux.HandleFunc("GET /api/latest", r.handleLatest)
	return mux
}

// Start serves in the background.
func (r *StreamReporter) Start(ctx context.Context) error {
	r.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", r.port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.Warn(ctx, "stream server stopped", "error", err)
		}
	}()

	r.log.Info(ctx, "stream server started", "addr", r.server.Addr)
	return nil
}

// Publish stores res and broadcasts it.
func (r *StreamReporter) Publish(res domain.CycleResult) {
	r.latest.Store(&res)

	ctx := context.Background()
	if err := r.hub.Broadcast(ctx, cycleMessage, res); err != nil {
		r.log.Warn(ctx, "cycle broadcast failed", "cycle_id", res.CycleID, "error", err)
	}
}

// Stop disconnects subscribers and shuts the server down.
func (r *StreamReporter) Stop() error {
	r.hub.Close()
	if r.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.server.Shutdown(ctx)
}

func (r *StreamReporter) handleLatest(w http.ResponseWriter, req *http.Request) {
	res := r.latest.Load()
	if res == nil {
		http.Error(w, "no cycle yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		r.log.Warn(req.Context(), "failed to write latest cycle", "cycle_id", res.CycleID, "error", err)
	}
}
