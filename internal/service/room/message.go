package room

import (
	"context"
	"fmt"

	"github.com/studyroom/server/internal/repository/store"
)

type SendMessageParams struct {
	RoomId  int64
	UserId  string
	Content string
}

func (s service) SendMessage(ctx context.Context, params *SendMessageParams) (store.Message, error) {
	msg, err := s.roomRepo.CreateMessage(ctx, &store.CreateMessageParams{
		RoomId:  params.RoomId,
		UserId:  params.UserId,
		Content: params.Content,
	})
	if err != nil {
		return store.Message{}, fmt.Errorf("failed to create message: %w", err)
	}

	return msg, nil
}

func (s service) ListMessages(ctx context.Context, roomId int64) ([]store.Message, error) {
	messages, err := s.roomRepo.ListMessages(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

type AddCommentParams struct {
	RoomId         int64
	UserId         string
	Content        string
	VideoTimestamp float64
}

func (s service) AddComment(ctx context.Context, params *AddCommentParams) (store.Comment, error) {
	comment, err := s.roomRepo.CreateComment(ctx, &store.CreateCommentParams{
		RoomId:         params.RoomId,
		UserId:         params.UserId,
		Content:        params.Content,
		VideoTimestamp: params.VideoTimestamp,
	})
	if err != nil {
		return store.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

func (s service) ListComments(ctx context.Context, roomId int64) ([]store.Comment, error) {
	comments, err := s.roomRepo.ListComments(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}
