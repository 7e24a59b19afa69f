package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
)

func dial(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubPushesTickToClients(t *testing.T) {
	hub := NewHub(nil, nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	first := dial(t, server, nil)
	second := dial(t, server, nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	finished := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	event := refresh.TickEvent{ID: "tick-1", FinishedAt: finished, SportsRefreshed: []string{"basketball_nba"}, BetsUpdated: 3}
	require.NoError(t, hub.Observer()(context.Background(), event))

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, MessageOddsRefreshed, msg.Type)
		assert.Equal(t, "tick-1", msg.TickID)
		assert.True(t, finished.Equal(msg.At))
		assert.Equal(t, 3, msg.BetsUpdated)
	}
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	hub := NewHub(nil, []string{"*"})
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server, nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubRejectsUnknownOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"http://localhost:3000"})
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	dial(t, server, http.Header{"Origin": []string{"http://localhost:3000"}})
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Close()
}

func TestClosedHub(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Close()

	_, err := hub.Broadcast(Message{Type: MessageOddsRefreshed})
	assert.ErrorIs(t, err, ErrHubClosed)

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsObserver(t *testing.T) {
	err := MetricsObserver()(context.Background(), refresh.TickEvent{ID: "t", BetsUpdated: 1})
	assert.NoError(t, err)
}
