package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/studyroom/server/internal/repository/store"
)

func (r repo) CreateRoom(ctx context.Context, params *store.CreateRoomParams) (store.Room, error) {
	var room store.Room
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (title, subject, video_url, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, subject, video_url, created_by, created_at
	`, params.Title, params.Subject, params.VideoURL, params.CreatedBy).
		Scan(&room.Id, &room.Title, &room.Subject, &room.VideoURL, &room.CreatedBy, &room.CreatedAt)
	if err != nil {
		return store.Room{}, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (r repo) GetRoom(ctx context.Context, roomId int64) (store.Room, error) {
	var room store.Room
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, subject, video_url, created_by, created_at
		FROM rooms
		WHERE id = $1
	`, roomId).
		Scan(&room.Id, &room.Title, &room.Subject, &room.VideoURL, &room.CreatedBy, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Room{}, store.ErrNotFound
		}

		return store.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (r repo) ListRooms(ctx context.Context, params *store.ListRoomsParams) ([]store.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, subject, video_url, created_by, created_at
		FROM rooms
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]store.Room, 0)
	for rows.Next() {
		var room store.Room
		if err := rows.Scan(&room.Id, &room.Title, &room.Subject, &room.VideoURL, &room.CreatedBy, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// UpdateRoom applies the non-nil fields and returns the updated row.
// COALESCE keeps the stored value for nil inputs, so a set subject or
// video_url cannot be cleared back to null through this path, only
// replaced.
func (r repo) UpdateRoom(ctx context.Context, params *store.UpdateRoomParams) (store.Room, error) {
	var room store.Room
	err := r.pool.QueryRow(ctx, `
		UPDATE rooms
		SET title = COALESCE($2, title),
		    subject = COALESCE($3, subject),
		    video_url = COALESCE($4, video_url)
		WHERE id = $1
		RETURNING id, title, subject, video_url, created_by, created_at
	`, params.RoomId, params.Title, params.Subject, params.VideoURL).
		Scan(&room.Id, &room.Title, &room.Subject, &room.VideoURL, &room.CreatedBy, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Room{}, store.ErrNotFound
		}

		return store.Room{}, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}
