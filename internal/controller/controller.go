package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/studyroom/server/internal/repository/playback"
	"github.com/studyroom/server/internal/repository/registry"
	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/repository/store"
	"github.com/studyroom/server/internal/service/account"
	"github.com/studyroom/server/internal/service/assistant"
	"github.com/studyroom/server/internal/service/board"
	"github.com/studyroom/server/internal/service/room"
	"github.com/studyroom/server/internal/service/rtc"
	"github.com/studyroom/server/internal/service/sync"
	"github.com/studyroom/server/pkg/validator"
	"github.com/studyroom/server/pkg/wsrouter"
)

type iSyncService interface {
	JoinRoom(context.Context, *sync.JoinRoomParams) error
	PlaybackUpdate(context.Context, *sync.PlaybackUpdateParams) error
	StateAnswer(context.Context, *sync.StateAnswerParams) error
	Disconnect(ctx context.Context, session registry.Session)
}

type iAccountService interface {
	SignUp(context.Context, *account.SignUpParams) (account.AuthResponse, error)
	SignIn(context.Context, *account.SignInParams) (account.AuthResponse, error)
	Verify(token string) (account.Identity, error)
}

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (store.Room, error)
	ListRooms(context.Context, *room.ListRoomsParams) ([]store.Room, error)
	UpdateRoom(context.Context, *room.UpdateRoomParams) (store.Room, error)
	SendMessage(context.Context, *room.SendMessageParams) (store.Message, error)
	ListMessages(ctx context.Context, roomId int64) ([]store.Message, error)
	AddComment(context.Context, *room.AddCommentParams) (store.Comment, error)
	ListComments(ctx context.Context, roomId int64) ([]store.Comment, error)
	UpsertPlayback(context.Context, *room.UpsertPlaybackParams) (playback.State, error)
	GetPlayback(ctx context.Context, roomId string) (playback.State, error)
}

type iBoardService interface {
	AddStroke(context.Context, *board.AddStrokeParams) (store.Stroke, error)
	ListStrokes(ctx context.Context, roomId int64) ([]store.Stroke, error)
	ClearStrokes(ctx context.Context, roomId int64) error
}

type iAssistantService interface {
	Ask(context.Context, *assistant.AskParams) (assistant.AskResponse, error)
	History(context.Context, *assistant.HistoryParams) ([]store.AssistantMessage, error)
}

type iRTCService interface {
	MintToken(roomId, identity string) (rtc.TokenResponse, error)
}

type controller struct {
	syncService      iSyncService
	accountService   iAccountService
	roomService      iRoomService
	boardService     iBoardService
	assistantService iAssistantService
	rtcService       iRTCService
	sessions         *inmemory.Registry
	upgrader         websocket.Upgrader
	validate         *validator.Validator
	wsmux            *wsrouter.WSRouter
	logger           *slog.Logger
}

type Services struct {
	Sync      iSyncService
	Account   iAccountService
	Room      iRoomService
	Board     iBoardService
	Assistant iAssistantService
	RTC       iRTCService
}

func NewController(services *Services, sessions *inmemory.Registry, logger *slog.Logger) *controller {
	c := &controller{
		syncService:      services.Sync,
		accountService:   services.Account,
		roomService:      services.Room,
		boardService:     services.Board,
		assistantService: services.Assistant,
		rtcService:       services.RTC,
		sessions:         sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
