package controller

import (
	"context"

	"github.com/studyroom/server/pkg/wsrouter"
)

const (
	wsMessageTypeJoinRoom       = "join-room"
	wsMessageTypePlaybackUpdate = "playback-update"
	wsMessageTypeSendState      = "send-state"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle(wsMessageTypeJoinRoom, c.handleJoinRoom)
	mux.Handle(wsMessageTypePlaybackUpdate, c.handlePlaybackUpdate)
	mux.Handle(wsMessageTypeSendState, c.handleSendState)

	// bad events are dropped, never answered
	mux.OnError(func(ctx context.Context, messageType string, err error) {
		c.logger.DebugContext(ctx, "dropping websocket event", "type", messageType, "error", err)
	})

	return mux
}
