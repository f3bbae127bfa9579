package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyroom/server/internal/repository/store"
)

func (r repo) CreateStroke(ctx context.Context, params *store.CreateStrokeParams) (store.Stroke, error) {
	points, err := json.Marshal(params.Points)
	if err != nil {
		return store.Stroke{}, fmt.Errorf("failed to marshal points: %w", err)
	}

	stroke := store.Stroke{
		RoomId:    params.RoomId,
		Points:    params.Points,
		Color:     params.Color,
		Tool:      params.Tool,
		Size:      params.Size,
		CreatedBy: params.CreatedBy,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO strokes (room_id, points, color, tool, size, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, params.RoomId, points, params.Color, params.Tool, params.Size, params.CreatedBy).
		Scan(&stroke.Id, &stroke.CreatedAt)
	if err != nil {
		return store.Stroke{}, fmt.Errorf("failed to create stroke: %w", err)
	}

	return stroke, nil
}

func (r repo) ListStrokes(ctx context.Context, roomId int64) ([]store.Stroke, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, points, color, tool, size, created_by, created_at
		FROM strokes
		WHERE room_id = $1
		ORDER BY created_at ASC
	`, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}
	defer rows.Close()

	strokes := make([]store.Stroke, 0)
	for rows.Next() {
		var stroke store.Stroke
		var points []byte
		if err := rows.Scan(&stroke.Id, &stroke.RoomId, &points, &stroke.Color, &stroke.Tool, &stroke.Size, &stroke.CreatedBy, &stroke.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stroke: %w", err)
		}
		if err := json.Unmarshal(points, &stroke.Points); err != nil {
			return nil, fmt.Errorf("failed to unmarshal points: %w", err)
		}
		strokes = append(strokes, stroke)
	}

	return strokes, rows.Err()
}

func (r repo) DeleteStrokes(ctx context.Context, roomId int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM strokes WHERE room_id = $1`, roomId); err != nil {
		return fmt.Errorf("failed to delete strokes: %w", err)
	}

	return nil
}
