// Package sync is the realtime playback relay. The server holds no
// playback truth of its own: it fans each member's event out to the
// rest of the room verbatim and lets clients converge on whichever
// update arrives last.
//
// Delivery is fire-and-forget. No acknowledgements are requested, no
// sequence numbers are attached and no delivery failure is surfaced to
// the sender. Concurrent updates from different members resolve by
// last-write-wins on each receiving client.
package sync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studyroom/server/internal/repository/registry"
)

// ErrMalformedEvent marks an inbound event missing or carrying an
// unusable room key. Malformed events are dropped without a response.
var ErrMalformedEvent = errors.New("malformed event")

const (
	// roomKeyField is the payload field naming the target room. It is
	// stripped before relaying so receivers see only playback state.
	roomKeyField = "roomId"

	messageTypeRequestState   = "request-state"
	messageTypePlaybackUpdate = "playback-update"
)

type iRegistry interface {
	AddMember(roomId string, session registry.Session)
	RemoveSession(session registry.Session)
	Broadcast(roomId string, sender registry.Session, msg registry.Message)
	MembersCount(roomId string) int
}

type service struct {
	registry iRegistry
	logger   *slog.Logger
}

func NewService(registry iRegistry, logger *slog.Logger) *service {
	return &service{
		registry: registry,
		logger:   logger,
	}
}

type JoinRoomParams struct {
	RoomKey any
	Session registry.Session
}

// JoinRoom adds the session to the room and asks the existing members
// for their current playback state. The joiner receives nothing
// directly: whoever answers does so with a relayed state event.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) error {
	roomId, ok := normalizeRoomKey(params.RoomKey)
	if !ok {
		return ErrMalformedEvent
	}

	s.registry.AddMember(roomId, params.Session)
	s.logger.DebugContext(ctx, "session joined room",
		"room_id", roomId,
		"session_id", params.Session.ID(),
		"members", s.registry.MembersCount(roomId),
	)

	s.registry.Broadcast(roomId, params.Session, registry.Message{
		Type:    messageTypeRequestState,
		Payload: map[string]any{},
	})

	return nil
}

type PlaybackUpdateParams struct {
	State   map[string]any
	Session registry.Session
}

// PlaybackUpdate relays a member's playback change to the rest of its
// room. The event is forwarded as-is apart from the room key, which is
// routing information rather than state.
func (s service) PlaybackUpdate(ctx context.Context, params *PlaybackUpdateParams) error {
	return s.relay(ctx, params.State, params.Session)
}

type StateAnswerParams struct {
	State   map[string]any
	Session registry.Session
}

// StateAnswer relays a member's response to a state request. It rides
// the same outbound event as a regular update: to a receiver a state
// answer and a playback change are indistinguishable.
func (s service) StateAnswer(ctx context.Context, params *StateAnswerParams) error {
	return s.relay(ctx, params.State, params.Session)
}

func (s service) relay(ctx context.Context, state map[string]any, sender registry.Session) error {
	roomId, payload, err := splitRoomKey(state)
	if err != nil {
		return err
	}

	s.registry.Broadcast(roomId, sender, registry.Message{
		Type:    messageTypePlaybackUpdate,
		Payload: payload,
	})

	return nil
}

// Disconnect removes the session from its room, if any. The remaining
// members are not told: the next playback event simply has one fewer
// receiver.
func (s service) Disconnect(ctx context.Context, session registry.Session) {
	s.logger.DebugContext(ctx, "session disconnected", "session_id", session.ID())
	s.registry.RemoveSession(session)
}

// splitRoomKey extracts the room key from an inbound event payload and
// returns the payload without it.
func splitRoomKey(state map[string]any) (string, map[string]any, error) {
	if state == nil {
		return "", nil, ErrMalformedEvent
	}

	raw, ok := state[roomKeyField]
	if !ok {
		return "", nil, ErrMalformedEvent
	}

	roomId, ok := normalizeRoomKey(raw)
	if !ok {
		return "", nil, ErrMalformedEvent
	}

	payload := make(map[string]any, len(state)-1)
	for k, v := range state {
		if k == roomKeyField {
			continue
		}
		payload[k] = v
	}

	return roomId, payload, nil
}
