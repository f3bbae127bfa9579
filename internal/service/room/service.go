// Package room covers the request/response room surface: room CRUD, chat
// messages, video comments and the durable playback row. The realtime
// relay never goes through here; reconnecting clients use this path to
// recover the last stored playback state, which may lag behind what the
// room's peers currently believe.
package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studyroom/server/internal/repository/playback"
	"github.com/studyroom/server/internal/repository/store"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type iRoomRepo interface {
	CreateRoom(context.Context, *store.CreateRoomParams) (store.Room, error)
	GetRoom(context.Context, int64) (store.Room, error)
	ListRooms(context.Context, *store.ListRoomsParams) ([]store.Room, error)
	UpdateRoom(context.Context, *store.UpdateRoomParams) (store.Room, error)
	CreateMessage(context.Context, *store.CreateMessageParams) (store.Message, error)
	ListMessages(context.Context, int64) ([]store.Message, error)
	CreateComment(context.Context, *store.CreateCommentParams) (store.Comment, error)
	ListComments(context.Context, int64) ([]store.Comment, error)
}

type iPlaybackRepo interface {
	Upsert(context.Context, *playback.UpsertParams) (playback.State, error)
	Get(context.Context, string) (playback.State, error)
}

type service struct {
	roomRepo     iRoomRepo
	playbackRepo iPlaybackRepo
	logger       *slog.Logger
}

func NewService(roomRepo iRoomRepo, playbackRepo iPlaybackRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo:     roomRepo,
		playbackRepo: playbackRepo,
		logger:       logger,
	}
}
