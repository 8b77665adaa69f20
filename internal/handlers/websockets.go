package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
	wsAlertBatch     = 100
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"` // snapshot | alert
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the dashboard host is fixed
}

// wsConnect streams the latest snapshot and every alert recorded after the
// connection was opened (or after ?since_id=).
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	ctx := c.Request.Context()

	lastID, err := h.startAlertCursor(c)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to open alert stream", "ws_cursor_failed", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if lastID, err = h.sendUpdates(ctx, conn, lastID); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if lastID, err = h.sendUpdates(ctx, conn, lastID); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// startAlertCursor returns the id after which alerts are streamed: ?since_id
// when valid, otherwise the newest alert id so only new alerts are pushed.
func (h *Handler) startAlertCursor(c *gin.Context) (int64, error) {
	if s := c.Query("since_id"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			return v, nil
		}
	}
	newest, err := h.services.Alerts.List(c.Request.Context(), service.AlertFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(newest) == 0 {
		return 0, nil
	}
	return newest[0].ID, nil
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendUpdates writes the current snapshot (if any) followed by alerts newer
// than lastID, and returns the advanced cursor.
func (h *Handler) sendUpdates(ctx context.Context, conn *websocket.Conn, lastID int64) (int64, error) {
	snap, err := h.services.Telemetry.Latest(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_latest_snapshot_failed", "err", err)
		}
		return lastID, err
	}
	if snap != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(wsEnvelope{Type: "snapshot", Data: snap}); err != nil {
			return lastID, err
		}
	}

	alerts, err := h.services.Alerts.List(ctx, service.AlertFilter{AfterID: lastID, Limit: wsAlertBatch})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_alerts_failed", "err", err, "after_id", lastID)
		}
		return lastID, err
	}
	for _, a := range alerts {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(wsEnvelope{Type: "alert", Data: a}); err != nil {
			return lastID, err
		}
		if a.ID > lastID {
			lastID = a.ID
		}
	}
	return lastID, nil
}
