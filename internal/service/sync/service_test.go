package sync_test

import (
	"context"
	"log/slog"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyroom/server/internal/repository/registry"
	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/service/sync"
)

func newTestService(t *testing.T) (*inmemory.Registry, interface {
	JoinRoom(context.Context, *sync.JoinRoomParams) error
	PlaybackUpdate(context.Context, *sync.PlaybackUpdateParams) error
	StateAnswer(context.Context, *sync.StateAnswerParams) error
	Disconnect(ctx context.Context, session registry.Session)
}) {
	t.Helper()
	sessions := inmemory.NewRegistry(slog.Default())
	return sessions, sync.NewService(sessions, slog.Default())
}

func drain(s *inmemory.Session) []registry.Message {
	var msgs []registry.Message
	for {
		select {
		case msg, ok := <-s.Messages():
			if !ok {
				return msgs
			}
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func join(t *testing.T, svc interface {
	JoinRoom(context.Context, *sync.JoinRoomParams) error
}, roomKey any, session registry.Session,
) {
	t.Helper()
	require.NoError(t, svc.JoinRoom(context.Background(), &sync.JoinRoomParams{
		RoomKey: roomKey,
		Session: session,
	}))
}

func TestJoinRequestsStateFromPeers(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	c := sessions.NewSession()

	join(t, svc, "7", a)
	join(t, svc, "7", b)
	drain(a)
	drain(b)

	// two members already present: the third join triggers exactly one
	// request-state per existing member and nothing for the joiner
	join(t, svc, "7", c)

	for _, peer := range []*inmemory.Session{a, b} {
		msgs := drain(peer)
		var requests int
		for _, msg := range msgs {
			if msg.Type == "request-state" {
				requests++
			}
		}
		assert.Equal(t, 1, requests)
	}

	assert.Empty(t, drain(c), "joiner must not receive its own state request")
}

func TestJoinEmptyRoomEmitsNothing(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	join(t, svc, "solo", a)

	assert.Empty(t, drain(a))
	assert.Equal(t, 1, sessions.MembersCount("solo"))
}

func TestPlaybackUpdateNotEchoedToSender(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, "7", b)
	drain(a)
	drain(b)

	err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
		State: map[string]any{
			"roomId":    "7",
			"isPlaying": true,
			"time":      12.5,
		},
		Session: a,
	})
	require.NoError(t, err)

	assert.Empty(t, drain(a), "sender must not receive its own update")

	msgs := drain(b)
	require.Len(t, msgs, 1)
	assert.Equal(t, "playback-update", msgs[0].Type)

	payload, ok := msgs[0].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, payload["isPlaying"])
	assert.Equal(t, 12.5, payload["time"])
	assert.NotContains(t, payload, "roomId", "room key is routing info, not state")
}

func TestStateAnswerRelayedAsPlaybackUpdate(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, "7", b)
	drain(a)
	drain(b)

	err := svc.StateAnswer(context.Background(), &sync.StateAnswerParams{
		State: map[string]any{
			"roomId":    float64(7),
			"videoUrl":  "https://example.com/v",
			"isPlaying": false,
			"time":      0.0,
		},
		Session: b,
	})
	require.NoError(t, err)

	msgs := drain(a)
	require.Len(t, msgs, 1)
	assert.Equal(t, "playback-update", msgs[0].Type)
	assert.Empty(t, drain(b))
}

func TestNumericAndStringRoomKeysAddressSameRoom(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, float64(7), b)

	assert.Equal(t, 2, sessions.MembersCount("7"))
	drain(a)
	drain(b)

	err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
		State:   map[string]any{"roomId": float64(7), "time": 3.0},
		Session: a,
	})
	require.NoError(t, err)

	assert.Len(t, drain(b), 1)
}

func TestUpdateForUnknownRoomIsSilentNoop(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	join(t, svc, "7", a)
	drain(a)

	err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
		State:   map[string]any{"roomId": "nobody-here", "time": 1.0},
		Session: a,
	})
	require.NoError(t, err)
	assert.Empty(t, drain(a))
}

func TestMalformedEventsRejected(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	join(t, svc, "7", a)

	cases := []map[string]any{
		nil,
		{},
		{"time": 5.0},
		{"roomId": ""},
		{"roomId": true},
		{"roomId": []any{"7"}},
	}
	for _, state := range cases {
		err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
			State:   state,
			Session: a,
		})
		assert.ErrorIs(t, err, sync.ErrMalformedEvent)
	}

	err := svc.JoinRoom(context.Background(), &sync.JoinRoomParams{RoomKey: nil, Session: a})
	assert.ErrorIs(t, err, sync.ErrMalformedEvent)
}

func TestDuplicateUpdatesDeliveredTwice(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, "7", b)
	drain(a)
	drain(b)

	state := map[string]any{"roomId": "7", "isPlaying": true, "time": 10.0}
	for i := 0; i < 2; i++ {
		require.NoError(t, svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
			State:   state,
			Session: a,
		}))
	}

	// no dedup: identical updates arrive once each
	assert.Len(t, drain(b), 2)
}

func TestDisconnectRemovesMemberSilently(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	c := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, "7", b)
	join(t, svc, "7", c)
	drain(a)
	drain(b)
	drain(c)

	svc.Disconnect(context.Background(), c)
	assert.Equal(t, 2, sessions.MembersCount("7"))

	// remaining members get no membership notification
	assert.Empty(t, drain(a))
	assert.Empty(t, drain(b))

	// fan-out keeps working and skips the departed session
	err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
		State:   map[string]any{"roomId": "7", "time": 9.0},
		Session: a,
	})
	require.NoError(t, err)
	assert.Len(t, drain(b), 1)
}

func TestJoinLeavesPreviousRoom(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	join(t, svc, "old", a)
	join(t, svc, "old", b)
	drain(a)
	drain(b)

	join(t, svc, "new", b)

	assert.Equal(t, 1, sessions.MembersCount("old"))
	assert.Equal(t, 1, sessions.MembersCount("new"))

	err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
		State:   map[string]any{"roomId": "old", "time": 1.0},
		Session: a,
	})
	require.NoError(t, err)
	assert.Empty(t, drain(b), "member of a different room must not receive the update")
}

func TestConcurrentUpdatesAllRelayed(t *testing.T) {
	sessions, svc := newTestService(t)

	a := sessions.NewSession()
	b := sessions.NewSession()
	receiver := sessions.NewSession()
	join(t, svc, "7", a)
	join(t, svc, "7", b)
	join(t, svc, "7", receiver)
	drain(a)
	drain(b)
	drain(receiver)

	const perSender = 5

	var wg stdsync.WaitGroup
	for _, sender := range []*inmemory.Session{a, b} {
		wg.Add(1)
		go func(s *inmemory.Session) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				err := svc.PlaybackUpdate(context.Background(), &sync.PlaybackUpdateParams{
					State:   map[string]any{"roomId": "7", "time": float64(i)},
					Session: s,
				})
				assert.NoError(t, err)
			}
		}(sender)
	}
	wg.Wait()

	// receiver's queue holds both senders' updates; the queue is large
	// enough here that nothing was shed
	received := drain(receiver)
	assert.Len(t, received, 2*perSender)
}

func TestEndToEndRoomScenario(t *testing.T) {
	sessions, svc := newTestService(t)
	ctx := context.Background()

	// first member joins an empty room
	a := sessions.NewSession()
	join(t, svc, "7", a)
	require.Empty(t, drain(a))

	// second member joins: the first is asked for state
	b := sessions.NewSession()
	join(t, svc, "7", b)
	msgs := drain(a)
	require.Len(t, msgs, 1)
	require.Equal(t, "request-state", msgs[0].Type)

	// first member answers; only the newcomer hears it
	require.NoError(t, svc.StateAnswer(ctx, &sync.StateAnswerParams{
		State: map[string]any{
			"roomId":    "7",
			"videoUrl":  "https://example.com/lecture",
			"isPlaying": true,
			"time":      42.0,
			"clientTs":  float64(time.Now().UnixMilli()),
		},
		Session: a,
	}))
	msgs = drain(b)
	require.Len(t, msgs, 1)
	assert.Equal(t, "playback-update", msgs[0].Type)
	assert.Empty(t, drain(a))

	// newcomer pauses; the first member hears it
	require.NoError(t, svc.PlaybackUpdate(ctx, &sync.PlaybackUpdateParams{
		State:   map[string]any{"roomId": "7", "isPlaying": false, "time": 43.5},
		Session: b,
	}))
	msgs = drain(a)
	require.Len(t, msgs, 1)
	payload := msgs[0].Payload.(map[string]any)
	assert.Equal(t, false, payload["isPlaying"])

	// first member leaves, room survives with one member
	svc.Disconnect(ctx, a)
	assert.Equal(t, 1, sessions.MembersCount("7"))

	// last member leaves, room is gone
	svc.Disconnect(ctx, b)
	assert.Equal(t, 0, sessions.MembersCount("7"))
}
