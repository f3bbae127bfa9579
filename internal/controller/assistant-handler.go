package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/studyroom/server/internal/service/assistant"
)

func (c controller) assistantHistory(w http.ResponseWriter, r *http.Request) {
	roomId, err := strconv.ParseInt(r.URL.Query().Get("room_id"), 10, 64)
	if err != nil {
		c.respondError(w, http.StatusBadRequest, "invalid room_id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := c.assistantService.History(r.Context(), &assistant.HistoryParams{
		RoomId: roomId,
		Limit:  limit,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to fetch assistant history", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	c.respondJSON(w, http.StatusOK, messages)
}

type AskInput struct {
	RoomId any    `json:"room_id" validate:"required"`
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

func (c controller) assistantAsk(w http.ResponseWriter, r *http.Request) {
	var input AskInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	roomId, ok := int64FromAny(input.RoomId)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid room_id")
		return
	}

	var userId *string
	if identity, ok := c.getIdentityFromCtx(r.Context()); ok {
		userId = &identity.Id
	}

	resp, err := c.assistantService.Ask(r.Context(), &assistant.AskParams{
		RoomId: roomId,
		UserId: userId,
		Prompt: input.Prompt,
	})
	if err != nil {
		if errors.Is(err, assistant.ErrRateLimited) {
			c.respondError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to answer prompt", "error", err)
		c.respondError(w, http.StatusInternalServerError, "assistant unavailable")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{
		"user_message":      resp.UserMessage,
		"assistant_message": resp.AssistantMessage,
	})
}
