package handlers

import (
	"net/http"
	"strings"
	"time"

	"fourheat/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Envelope types.
const (
	wsTypeState  = "state"
	wsTypeNoData = "no_data"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string          `json:"type"`
	Data  models.Snapshot `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// newUpgrader accepts the listed origins. An empty list keeps the
// same-host check of websocket.Upgrader and "*" accepts any origin.
// Requests without an Origin header come from non-browser clients and pass.
func newUpgrader(allowed []string) websocket.Upgrader {
	if len(allowed) == 0 {
		return websocket.Upgrader{}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "*" {
			return websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		}
		set[o] = struct{}{}
	}
	return websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}}
}

// wsConnect streams snapshots: the cached one first, then every snapshot
// the poller publishes.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
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

	updates, unsubscribe := h.services.Poller.Subscribe()
	defer unsubscribe()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := h.sendInitial(c, conn); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeState, Data: snap}); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

func (h *Handler) sendInitial(c *gin.Context, conn *websocket.Conn) error {
	snap, err := h.services.Monitoring.Current(c.Request.Context())
	if err != nil {
		return writeEnvelope(conn, wsEnvelope{Type: wsTypeNoData, Error: err.Error()})
	}
	return writeEnvelope(conn, wsEnvelope{Type: wsTypeState, Data: snap})
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
