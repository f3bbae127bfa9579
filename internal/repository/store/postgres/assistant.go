package postgres

import (
	"context"
	"fmt"

	"github.com/studyroom/server/internal/repository/store"
)

func (r repo) CreateAssistantMessage(ctx context.Context, params *store.CreateAssistantMessageParams) (store.AssistantMessage, error) {
	var msg store.AssistantMessage
	err := r.pool.QueryRow(ctx, `
		INSERT INTO assistant_messages (room_id, user_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room_id, user_id, role, content, created_at
	`, params.RoomId, params.UserId, params.Role, params.Content).
		Scan(&msg.Id, &msg.RoomId, &msg.UserId, &msg.Role, &msg.Content, &msg.CreatedAt)
	if err != nil {
		return store.AssistantMessage{}, fmt.Errorf("failed to create assistant message: %w", err)
	}

	return msg, nil
}

func (r repo) ListAssistantMessages(ctx context.Context, params *store.ListAssistantMessagesParams) ([]store.AssistantMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, user_id, role, content, created_at
		FROM assistant_messages
		WHERE room_id = $1
		ORDER BY id ASC
		LIMIT $2
	`, params.RoomId, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistant messages: %w", err)
	}
	defer rows.Close()

	messages := make([]store.AssistantMessage, 0)
	for rows.Next() {
		var msg store.AssistantMessage
		if err := rows.Scan(&msg.Id, &msg.RoomId, &msg.UserId, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assistant message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
