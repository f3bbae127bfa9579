package postgres

import (
	"context"
	"fmt"

	"github.com/studyroom/server/internal/repository/store"
)

func (r repo) CreateComment(ctx context.Context, params *store.CreateCommentParams) (store.Comment, error) {
	var comment store.Comment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO video_comments (room_id, user_id, content, video_timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room_id, user_id, content, video_timestamp, created_at,
			COALESCE((SELECT username FROM users WHERE id = $2), $5)
	`, params.RoomId, params.UserId, params.Content, params.VideoTimestamp, unknownUsername).
		Scan(&comment.Id, &comment.RoomId, &comment.UserId, &comment.Content, &comment.VideoTimestamp, &comment.CreatedAt, &comment.Username)
	if err != nil {
		return store.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns the room's comments, newest first.
func (r repo) ListComments(ctx context.Context, roomId int64) ([]store.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.room_id, c.user_id, c.content, c.video_timestamp, c.created_at,
			COALESCE(u.username, $2)
		FROM video_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.room_id = $1
		ORDER BY c.created_at DESC
	`, roomId, unknownUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]store.Comment, 0)
	for rows.Next() {
		var comment store.Comment
		if err := rows.Scan(&comment.Id, &comment.RoomId, &comment.UserId, &comment.Content, &comment.VideoTimestamp, &comment.CreatedAt, &comment.Username); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}
