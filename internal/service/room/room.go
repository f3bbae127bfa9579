package room

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/studyroom/server/internal/repository/playback"
	"github.com/studyroom/server/internal/repository/store"
)

type CreateRoomParams struct {
	Title     string
	Subject   *string
	VideoURL  *string
	CreatedBy string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (store.Room, error) {
	room, err := s.roomRepo.CreateRoom(ctx, &store.CreateRoomParams{
		Title:     params.Title,
		Subject:   params.Subject,
		VideoURL:  params.VideoURL,
		CreatedBy: params.CreatedBy,
	})
	if err != nil {
		return store.Room{}, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

type ListRoomsParams struct {
	Limit  int
	Offset int
}

func (s service) ListRooms(ctx context.Context, params *ListRoomsParams) ([]store.Room, error) {
	limit := params.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	rooms, err := s.roomRepo.ListRooms(ctx, &store.ListRoomsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	return rooms, nil
}

type UpdateRoomParams struct {
	RoomId    int64
	Title     *string
	Subject   *string
	VideoURL  *string
	UpdatedBy string
}

// UpdateRoom applies a partial update. When the video url changes, the
// stored playback row is reset to paused-at-zero so players re-sync from
// the start of the new video; a failed reset is logged, not surfaced, the
// same way the row is best-effort everywhere else.
func (s service) UpdateRoom(ctx context.Context, params *UpdateRoomParams) (store.Room, error) {
	if _, err := s.roomRepo.GetRoom(ctx, params.RoomId); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, ErrRoomNotFound
		}

		return store.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	room, err := s.roomRepo.UpdateRoom(ctx, &store.UpdateRoomParams{
		RoomId:   params.RoomId,
		Title:    params.Title,
		Subject:  params.Subject,
		VideoURL: params.VideoURL,
	})
	if err != nil {
		return store.Room{}, fmt.Errorf("failed to update room: %w", err)
	}

	if params.VideoURL != nil {
		if _, err := s.playbackRepo.Upsert(ctx, &playback.UpsertParams{
			RoomId:    strconv.FormatInt(params.RoomId, 10),
			VideoURL:  *params.VideoURL,
			IsPlaying: false,
			UpdatedBy: params.UpdatedBy,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to reset playback state after video url change",
				"room_id", params.RoomId, "error", err)
		}
	}

	return room, nil
}
