package mux

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/poker/holdem"
	"holdem-server/pkg/room"
)

func testMux(t *testing.T) *Mux {
	t.Helper()

	opts := holdem.DefaultOptions()
	opts.Countdown = time.Hour
	opts.ActionTimeout = time.Hour

	rm, err := room.New(logrus.StandardLogger(), opts)
	if err != nil {
		t.Fatal(err)
	}

	return NewMux("test-version", rm)
}

func TestMux_getHealth(t *testing.T) {
	a := assert.New(t)

	ts := httptest.NewServer(testMux(t))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	a.NoError(err)
	defer func() { _ = resp.Body.Close() }()

	a.Equal(http.StatusOK, resp.StatusCode)
	a.Equal("application/json", resp.Header.Get("Content-Type"))

	var payload healthResponse
	a.NoError(json.NewDecoder(resp.Body).Decode(&payload))
	a.Equal("OK", payload.Status)
	a.Equal("test-version", payload.Version)
}

func TestMux_getTableWS(t *testing.T) {
	a := assert.New(t)

	ts := httptest.NewServer(testMux(t))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/table/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	a.NoError(err)
	defer func() { _ = conn.Close() }()
	if resp != nil {
		_ = resp.Body.Close()
	}

	a.NoError(conn.WriteJSON(&room.Command{
		Action:  room.ActionJoin,
		Name:    "alice",
		Context: "join-1",
	}))

	got := readMessages(t, conn, "joined", "ok")
	a.Equal("alice", got["joined"]["data"].(map[string]interface{})["name"])
	a.Equal("join-1", got["ok"]["context"])
}

// readMessages reads from the connection until every wanted message type
// has been seen. Responses are keyed by their "key" field, notifications
// by their "type" field.
func readMessages(t *testing.T, conn *websocket.Conn, want ...string) map[string]map[string]interface{} {
	t.Helper()

	got := make(map[string]map[string]interface{})
	remaining := make(map[string]bool)
	for _, w := range want {
		remaining[w] = true
	}

	deadline := time.Now().Add(time.Second * 2)
	for len(remaining) > 0 {
		_ = conn.SetReadDeadline(deadline)

		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("still waiting on %v: %v", remaining, err)
		}

		key, _ := msg["key"].(string)
		if key == "" {
			key, _ = msg["type"].(string)
		}

		if remaining[key] {
			got[key] = msg
			delete(remaining, key)
		}
	}

	return got
}
