package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/service/sync"
)

const wsWriteTimeout = 10 * time.Second

// serveWS upgrades the connection and runs it until either side drops.
// Each connection gets one session; the session's queue is drained to
// the socket by a dedicated write pump so a slow reader never blocks
// room broadcasts.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	session := c.sessions.NewSession()
	ctx := context.WithValue(r.Context(), sessionCtxKey, session)

	c.logger.DebugContext(ctx, "websocket connected", "session_id", session.ID())

	go c.writePump(ctx, conn, session)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.DebugContext(ctx, "websocket closed", "session_id", session.ID(), "error", err)
	}

	c.syncService.Disconnect(ctx, session)
}

// writePump drains the session queue to the socket. It owns all writes
// on conn. A write failure closes the session, which in turn ends the
// read loop.
func (c controller) writePump(ctx context.Context, conn *websocket.Conn, session *inmemory.Session) {
	for msg := range session.Messages() {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			c.logger.DebugContext(ctx, "failed to write to websocket", "session_id", session.ID(), "error", err)
			session.Close()
			conn.Close()
			return
		}
	}

	conn.Close()
}

type JoinRoomInput struct {
	RoomId any `json:"roomId"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	session := c.getSessionFromCtx(ctx)
	if session == nil {
		return errors.New("no session in context")
	}

	var input JoinRoomInput
	if err := json.Unmarshal(payload, &input); err != nil {
		return sync.ErrMalformedEvent
	}

	return c.syncService.JoinRoom(ctx, &sync.JoinRoomParams{
		RoomKey: input.RoomId,
		Session: session,
	})
}

func (c controller) handlePlaybackUpdate(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	session := c.getSessionFromCtx(ctx)
	if session == nil {
		return errors.New("no session in context")
	}

	state, err := decodeState(payload)
	if err != nil {
		return err
	}

	return c.syncService.PlaybackUpdate(ctx, &sync.PlaybackUpdateParams{
		State:   state,
		Session: session,
	})
}

func (c controller) handleSendState(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	session := c.getSessionFromCtx(ctx)
	if session == nil {
		return errors.New("no session in context")
	}

	state, err := decodeState(payload)
	if err != nil {
		return err
	}

	return c.syncService.StateAnswer(ctx, &sync.StateAnswerParams{
		State:   state,
		Session: session,
	})
}

func decodeState(payload json.RawMessage) (map[string]any, error) {
	var state map[string]any
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, sync.ErrMalformedEvent
	}

	return state, nil
}
