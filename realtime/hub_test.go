package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/alert-board/model"
	"github.com/ariebrainware/alert-board/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startHubServer registers every upgraded connection with hub and keeps
// reading until the peer goes away.
func startHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := NewClient(1, conn)
		hub.Register(cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(cl)
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastAlertCreated(t *testing.T) {
	m := observability.NewMetricsForTesting()
	hub := NewHub(m)
	srv := startHubServer(t, hub)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebsocketClients))

	alert := model.NewAlert("Storm", "Take shelter", model.SeverityError)
	alert.ID = 42
	hub.AlertCreated(&alert)

	for _, c := range []*websocket.Conn{c1, c2} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := c.ReadMessage()
		require.NoError(t, err)

		var got struct {
			Kind  string `json:"kind"`
			Alert struct {
				ID       uint   `json:"id"`
				Title    string `json:"title"`
				Severity string `json:"severity"`
			} `json:"alert"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, KindAlertCreated, got.Kind)
		assert.Equal(t, uint(42), got.Alert.ID)
		assert.Equal(t, "Storm", got.Alert.Title)
		assert.Equal(t, "error", got.Alert.Severity)
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	m := observability.NewMetricsForTesting()
	hub := NewHub(m)
	srv := startHubServer(t, hub)

	c := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WebsocketClients))
}

func TestHub_NilIsNoop(t *testing.T) {
	var hub *Hub
	alert := model.NewAlert("t", "m", model.SeverityInfo)
	assert.NotPanics(t, func() { hub.AlertCreated(&alert) })
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() { hub.Broadcast(map[string]string{"kind": "noop"}) })
	assert.Zero(t, hub.Len())
}
