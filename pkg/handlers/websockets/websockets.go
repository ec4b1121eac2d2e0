package websockets

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler streams live feed events to dashboards over WebSocket.
type Handler struct {
	feed     feed.Subscriber
	upgrader websocket.Upgrader
}

// NewHandler creates a new Handler. checkOrigin may be nil to allow every origin.
func NewHandler(subscriber feed.Subscriber, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		feed:     subscriber,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// ServeHTTP upgrades the request and forwards matching events until either side goes away.
// The optional stallId and studentId query parameters narrow the stream.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter := feed.Filter{
		StallID:   r.URL.Query().Get("stallId"),
		StudentID: r.URL.Query().Get("studentId"),
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	slog.Info("Client connected", "connectionId", connectionID, "stall_id", filter.StallID, "student_id", filter.StudentID)
	defer slog.Info("Client disconnected", "connectionId", connectionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, unsubscribe := h.feed.Subscribe(ctx, filter)
	defer unsubscribe()

	// The server doesn't process incoming messages, but reading is necessary
	// to handle pongs and to detect when the client closes the connection.
	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					slog.Error("unexpected close error", "connectionId", connectionID, "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				slog.Warn("failed to write event", "connectionId", connectionID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
