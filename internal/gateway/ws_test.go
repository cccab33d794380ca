package gateway

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"priceboard/internal/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readUntil reads frames until a message of typ arrives or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)
		for _, line := range bytes.Split(frame, []byte{'\n'}) {
			var e envelope
			require.NoError(t, json.Unmarshal(line, &e))
			if e.typ() == typ {
				return e
			}
		}
	}
}

func TestWebsocketRoundTrip(t *testing.T) {
	hub := NewHub(Config{Location: time.UTC})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgHello, "fontSize": 16, "tz": "UTC"}))
	th := readUntil(t, conn, OutTheme)
	assert.Equal(t, "light", th["mode"])
	readUntil(t, conn, OutOptions)

	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(&model.Snapshot{Seq: 1, Points: flatFeed(5), CurrentHourPrice: 5, Last24hAverage: 5})

	zoom := readUntil(t, conn, OutZoom)
	assert.InDelta(t, 87.5, zoom["start"], 1e-9)

	conn.Close()
	require.Eventually(t, func() bool { return hub.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubCloseEndsSessions(t *testing.T) {
	hub := NewHub(Config{})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.SessionCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.SessionCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
