package websockets

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Type    feed.EventType `json:"type"`
	Payload struct {
		ID      string `json:"id"`
		StallID string `json:"stall_id"`
	} `json:"payload"`
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, broker *feed.Broker, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return broker.Subscribers() == n }, time.Second, 5*time.Millisecond)
}

func TestServeHTTP_StreamsFilteredEvents(t *testing.T) {
	broker := feed.NewBroker(8)
	server := httptest.NewServer(NewHandler(broker, nil))
	defer server.Close()

	conn := dial(t, server, "?stallId=stall-a")
	waitForSubscribers(t, broker, 1)

	ctx := context.Background()
	require.NoError(t, broker.Publish(ctx, feed.TransactionCommitted(&models.Transaction{ID: "tx-b", StallID: "stall-b", TotalAmount: money.MustParse("1")})))
	require.NoError(t, broker.Publish(ctx, feed.TransactionCommitted(&models.Transaction{ID: "tx-a", StallID: "stall-a", TotalAmount: money.MustParse("2")})))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got wireEvent
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, feed.EventTransactionCommitted, got.Type)
	assert.Equal(t, "tx-a", got.Payload.ID)
	assert.Equal(t, "stall-a", got.Payload.StallID)
}

func TestServeHTTP_UnsubscribesOnClose(t *testing.T) {
	broker := feed.NewBroker(8)
	server := httptest.NewServer(NewHandler(broker, nil))
	defer server.Close()

	conn := dial(t, server, "")
	waitForSubscribers(t, broker, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	waitForSubscribers(t, broker, 0)
}
