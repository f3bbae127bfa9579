package room

import (
	"context"
	"fmt"
	"time"

	"github.com/studyroom/server/internal/repository/playback"
)

type UpsertPlaybackParams struct {
	RoomId       string
	VideoURL     string
	IsPlaying    bool
	PlaybackTime float64
	ClientTs     int64
	UpdatedBy    string
}

// UpsertPlayback writes the durable playback row for a room. This is the
// request/response path only: the realtime relay never calls it, so the
// row trails whatever was last broadcast in the room.
func (s service) UpsertPlayback(ctx context.Context, params *UpsertPlaybackParams) (playback.State, error) {
	clientTs := params.ClientTs
	if clientTs == 0 {
		clientTs = time.Now().UnixMilli()
	}

	state, err := s.playbackRepo.Upsert(ctx, &playback.UpsertParams{
		RoomId:       params.RoomId,
		VideoURL:     params.VideoURL,
		IsPlaying:    params.IsPlaying,
		PlaybackTime: params.PlaybackTime,
		ClientTs:     clientTs,
		UpdatedBy:    params.UpdatedBy,
	})
	if err != nil {
		return playback.State{}, fmt.Errorf("failed to upsert playback state: %w", err)
	}

	return state, nil
}

// GetPlayback returns the stored playback row, or playback.ErrNotFound
// when the room has never had one.
func (s service) GetPlayback(ctx context.Context, roomId string) (playback.State, error) {
	state, err := s.playbackRepo.Get(ctx, roomId)
	if err != nil {
		return playback.State{}, err
	}

	return state, nil
}
