// Package gateway accepts WebSocket connections from delivery workers
// and dashboards. Both roles share one channel type: every connected
// party receives broadcast events, and any of them may send status
// reports.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kolapsis/wardlink/internal/hub"
)

// StatusReporter receives worker-origin status reports.
type StatusReporter interface {
	ReportStatus(ctx context.Context, taskID, status string) error
}

// inbound is the one message shape the gateway acts on. Anything else
// is ignored without an error back to the sender: the channel has no
// response semantics.
type inbound struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

const typeTaskStatus = "task_status"

// Gateway upgrades HTTP requests to WebSocket connections, registers
// them with the hub and routes their status reports to the reporter.
type Gateway struct {
	hub      *hub.Hub
	reporter StatusReporter
	upgrader websocket.Upgrader
	sendBuf  int
}

// New creates a Gateway. sendBuf is the per-connection outbound queue
// depth; a connection that falls that far behind is dropped.
func New(h *hub.Hub, reporter StatusReporter, sendBuf int) *Gateway {
	if sendBuf <= 0 {
		sendBuf = 64
	}
	return &Gateway{
		hub:      h,
		reporter: reporter,
		upgrader: websocket.Upgrader{
			// The REST boundary is already open to any origin; the
			// channel matches it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sendBuf: sendBuf,
	}
}

// ServeHTTP handles a WebSocket upgrade request.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newConn(ws, g.sendBuf)
	g.hub.Register(c)

	slog.Info("client connected", "remote", r.RemoteAddr)

	go c.writePump()
	g.readPump(r.Context(), c)

	g.hub.Unregister(c)
	_ = c.Close()

	slog.Info("client disconnected", "remote", r.RemoteAddr)
}

// readPump consumes inbound frames until the connection closes.
// Malformed frames and unknown message types are skipped.
func (g *Gateway) readPump(ctx context.Context, c *conn) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Debug("ignoring malformed frame", "error", err)
			continue
		}
		if msg.Type != typeTaskStatus {
			slog.Debug("ignoring frame", "type", msg.Type)
			continue
		}

		if err := g.reporter.ReportStatus(ctx, msg.TaskID, msg.Status); err != nil {
			// Swallowed: the worker gets no acknowledgment by design.
			slog.Error("status report failed", "task_id", msg.TaskID, "error", err)
		}
	}
}
