package controller

import (
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/service/sync"
)

type wsEnvelope struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func newWSTestServer(t *testing.T) (*httptest.Server, *inmemory.Registry) {
	t.Helper()

	sessions := inmemory.NewRegistry(slog.Default())
	c := NewController(&Services{
		Sync: sync.NewService(sessions, slog.Default()),
	}, sessions, slog.Default())

	server := httptest.NewServer(c.GetMux())
	t.Cleanup(server.Close)

	return server, sessions
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env wsEnvelope
	require.NoError(t, conn.ReadJSON(&env))

	return env
}

func assertNoMessage(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var env wsEnvelope
	err := conn.ReadJSON(&env)
	require.Error(t, err, "expected no message, got %+v", env)
}

func waitForMembers(t *testing.T, sessions *inmemory.Registry, roomId string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sessions.MembersCount(roomId) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %q never reached %d members", roomId, want)
}

func TestWebsocketPlaybackSync(t *testing.T) {
	server, sessions := newWSTestServer(t)

	a := dialWS(t, server)
	require.NoError(t, a.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": "7"},
	}))
	waitForMembers(t, sessions, "7", 1)

	// second member joins, first one is asked for its state
	b := dialWS(t, server)
	require.NoError(t, b.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": 7},
	}))
	waitForMembers(t, sessions, "7", 2)

	env := readEnvelope(t, a)
	assert.Equal(t, "request-state", env.Type)

	// first member answers; only the newcomer hears it, without the room key
	require.NoError(t, a.WriteJSON(map[string]any{
		"type": "send-state",
		"payload": map[string]any{
			"roomId":    "7",
			"videoUrl":  "https://example.com/lecture",
			"isPlaying": true,
			"time":      42.0,
		},
	}))

	env = readEnvelope(t, b)
	assert.Equal(t, "playback-update", env.Type)
	assert.Equal(t, true, env.Payload["isPlaying"])
	assert.NotContains(t, env.Payload, "roomId")

	// newcomer seeks; the first member hears it and the sender gets no echo
	require.NoError(t, b.WriteJSON(map[string]any{
		"type": "playback-update",
		"payload": map[string]any{
			"roomId": "7",
			"time":   99.0,
		},
	}))

	env = readEnvelope(t, a)
	assert.Equal(t, "playback-update", env.Type)
	assert.Equal(t, 99.0, env.Payload["time"])

	assertNoMessage(t, b)
}

func TestWebsocketBadEventsDropped(t *testing.T) {
	server, sessions := newWSTestServer(t)

	a := dialWS(t, server)
	require.NoError(t, a.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": "7"},
	}))
	waitForMembers(t, sessions, "7", 1)

	b := dialWS(t, server)
	require.NoError(t, b.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": "7"},
	}))
	waitForMembers(t, sessions, "7", 2)
	readEnvelope(t, a) // request-state

	// unknown type, missing room key, unknown room: all silently dropped
	require.NoError(t, b.WriteJSON(map[string]any{"type": "self-destruct", "payload": map[string]any{}}))
	require.NoError(t, b.WriteJSON(map[string]any{"type": "playback-update", "payload": map[string]any{"time": 1.0}}))
	require.NoError(t, b.WriteJSON(map[string]any{"type": "playback-update", "payload": map[string]any{"roomId": "ghost"}}))

	// the connection is still alive and relaying
	require.NoError(t, b.WriteJSON(map[string]any{
		"type":    "playback-update",
		"payload": map[string]any{"roomId": "7", "time": 5.0},
	}))

	env := readEnvelope(t, a)
	assert.Equal(t, "playback-update", env.Type)
	assert.Equal(t, 5.0, env.Payload["time"])
}

func TestWebsocketDisconnectLeavesRoom(t *testing.T) {
	server, sessions := newWSTestServer(t)

	a := dialWS(t, server)
	require.NoError(t, a.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": "7"},
	}))
	waitForMembers(t, sessions, "7", 1)

	b := dialWS(t, server)
	require.NoError(t, b.WriteJSON(map[string]any{
		"type":    "join-room",
		"payload": map[string]any{"roomId": "7"},
	}))
	waitForMembers(t, sessions, "7", 2)

	b.Close()
	waitForMembers(t, sessions, "7", 1)
}
