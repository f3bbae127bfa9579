package postgres

import (
	"context"
	"fmt"

	"github.com/studyroom/server/internal/repository/store"
)

const unknownUsername = "Unknown"

func (r repo) CreateMessage(ctx context.Context, params *store.CreateMessageParams) (store.Message, error) {
	var msg store.Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO room_messages (room_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, room_id, user_id, content, created_at,
			COALESCE((SELECT username FROM users WHERE id = $2), $4)
	`, params.RoomId, params.UserId, params.Content, unknownUsername).
		Scan(&msg.Id, &msg.RoomId, &msg.UserId, &msg.Content, &msg.CreatedAt, &msg.Username)
	if err != nil {
		return store.Message{}, fmt.Errorf("failed to create message: %w", err)
	}

	return msg, nil
}

func (r repo) ListMessages(ctx context.Context, roomId int64) ([]store.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.room_id, m.user_id, m.content, m.created_at,
			COALESCE(u.username, $2)
		FROM room_messages m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.room_id = $1
		ORDER BY m.created_at ASC
	`, roomId, unknownUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.Id, &msg.RoomId, &msg.UserId, &msg.Content, &msg.CreatedAt, &msg.Username); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
