// Package assistant relays study questions to an AI model and keeps the
// per-room conversation history in the relational store.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/studyroom/server/internal/repository/store"
)

var ErrRateLimited = errors.New("too many requests for this room")

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500

	roleUser      = "user"
	roleAssistant = "assistant"
)

// promptPreamble keeps answers short enough for a chat sidebar.
const promptPreamble = `Be concise. If confident, answer in <=120 words using bullets/steps.
If missing crucial info, ask 1 clarifying question only.
No preamble or repetition.
User: `

type iModelClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type iHistoryRepo interface {
	CreateAssistantMessage(context.Context, *store.CreateAssistantMessageParams) (store.AssistantMessage, error)
	ListAssistantMessages(context.Context, *store.ListAssistantMessagesParams) ([]store.AssistantMessage, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// RoomRatePerMinute caps model calls per room. Zero disables the cap.
	RoomRatePerMinute int
}

type service struct {
	historyRepo iHistoryRepo
	model       iModelClient
	logger      *slog.Logger

	ratePerMinute int
	mu            sync.Mutex
	limiters      map[int64]*rate.Limiter
}

func NewService(historyRepo iHistoryRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		historyRepo:   historyRepo,
		model:         newModelClient(cfg.BaseURL, cfg.APIKey, cfg.Model),
		logger:        logger,
		ratePerMinute: cfg.RoomRatePerMinute,
		limiters:      make(map[int64]*rate.Limiter),
	}
}

type AskParams struct {
	RoomId int64
	UserId *string
	Prompt string
}

type AskResponse struct {
	UserMessage      store.AssistantMessage
	AssistantMessage store.AssistantMessage
}

// Ask persists the user's turn, calls the model and persists the answer.
// The user turn survives even when the model call fails, matching the
// history a client sees after a retry.
func (s *service) Ask(ctx context.Context, params *AskParams) (AskResponse, error) {
	if !s.allow(params.RoomId) {
		return AskResponse{}, ErrRateLimited
	}

	userMsg, err := s.historyRepo.CreateAssistantMessage(ctx, &store.CreateAssistantMessageParams{
		RoomId:  params.RoomId,
		UserId:  params.UserId,
		Role:    roleUser,
		Content: params.Prompt,
	})
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to save user message: %w", err)
	}

	answer, err := s.model.GenerateContent(ctx, promptPreamble+params.Prompt)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	assistantMsg, err := s.historyRepo.CreateAssistantMessage(ctx, &store.CreateAssistantMessageParams{
		RoomId:  params.RoomId,
		Role:    roleAssistant,
		Content: answer,
	})
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to save assistant message: %w", err)
	}

	return AskResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

type HistoryParams struct {
	RoomId int64
	Limit  int
}

func (s *service) History(ctx context.Context, params *HistoryParams) ([]store.AssistantMessage, error) {
	limit := params.Limit
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.historyRepo.ListAssistantMessages(ctx, &store.ListAssistantMessagesParams{
		RoomId: params.RoomId,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return messages, nil
}

func (s *service) allow(roomId int64) bool {
	if s.ratePerMinute <= 0 {
		return true
	}

	s.mu.Lock()
	limiter, ok := s.limiters[roomId]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.ratePerMinute)/60, s.ratePerMinute)
		s.limiters[roomId] = limiter
	}
	s.mu.Unlock()

	return limiter.Allow()
}
