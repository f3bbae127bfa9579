package controller

import (
	"errors"
	"net/http"

	"github.com/studyroom/server/internal/service/board"
)

func (c controller) listStrokes(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	strokes, err := c.boardService.ListStrokes(r.Context(), roomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list strokes", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch strokes")
		return
	}

	c.respondJSON(w, http.StatusOK, strokes)
}

type AddStrokeInput struct {
	RoomId any                `json:"room_id" validate:"required"`
	Points []board.PointInput `json:"strokes" validate:"required,min=1"`
	Color  string             `json:"color" validate:"required"`
	Tool   string             `json:"tool"`
	Size   float64            `json:"size"`
}

func (c controller) addStroke(w http.ResponseWriter, r *http.Request) {
	var input AddStrokeInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	roomId, ok := int64FromAny(input.RoomId)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid room_id")
		return
	}

	var createdBy *string
	if identity, ok := c.getIdentityFromCtx(r.Context()); ok {
		createdBy = &identity.Id
	}

	stroke, err := c.boardService.AddStroke(r.Context(), &board.AddStrokeParams{
		RoomId:    roomId,
		Points:    input.Points,
		Color:     input.Color,
		Tool:      input.Tool,
		Size:      input.Size,
		CreatedBy: createdBy,
	})
	if err != nil {
		if errors.Is(err, board.ErrNoValidPoints) {
			c.respondError(w, http.StatusBadRequest, "strokes contain no valid points")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to add stroke", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to save stroke")
		return
	}

	c.respondJSON(w, http.StatusCreated, stroke)
}

func (c controller) clearStrokes(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	if err := c.boardService.ClearStrokes(r.Context(), roomId); err != nil {
		c.logger.WarnContext(r.Context(), "failed to clear strokes", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to clear strokes")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]string{"message": "cleared"})
}
