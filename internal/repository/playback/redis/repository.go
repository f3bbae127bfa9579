package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyroom/server/internal/repository/playback"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getPlaybackKey(roomId string) string {
	return "room:" + roomId + ":playback"
}

// Upsert writes the full state row for the room and stamps it with the
// server clock. The previous row, if any, is overwritten field by field.
func (r repo) Upsert(ctx context.Context, params *playback.UpsertParams) (playback.State, error) {
	state := playback.State{
		VideoURL:     params.VideoURL,
		IsPlaying:    params.IsPlaying,
		PlaybackTime: params.PlaybackTime,
		ClientTs:     params.ClientTs,
		UpdatedBy:    params.UpdatedBy,
		UpdatedAt:    time.Now().Unix(),
	}

	playbackKey := r.getPlaybackKey(params.RoomId)
	if err := r.rc.HSet(ctx, playbackKey,
		"video_url", state.VideoURL,
		"is_playing", state.IsPlaying,
		"playback_time", state.PlaybackTime,
		"client_ts", state.ClientTs,
		"updated_by", state.UpdatedBy,
		"updated_at", state.UpdatedAt,
	).Err(); err != nil {
		return playback.State{}, fmt.Errorf("failed to upsert playback state: %w", err)
	}

	r.rc.Expire(ctx, playbackKey, r.expireDuration)

	return state, nil
}

func (r repo) Get(ctx context.Context, roomId string) (playback.State, error) {
	playbackKey := r.getPlaybackKey(roomId)
	res, err := r.rc.Exists(ctx, playbackKey).Result()
	if err != nil {
		return playback.State{}, fmt.Errorf("failed to check if playback state exists: %w", err)
	}
	if res == 0 {
		return playback.State{}, playback.ErrNotFound
	}

	var state playback.State
	if err := r.rc.HGetAll(ctx, playbackKey).Scan(&state); err != nil {
		return playback.State{}, fmt.Errorf("failed to get playback state: %w", err)
	}

	r.rc.Expire(ctx, playbackKey, r.expireDuration)

	return state, nil
}
