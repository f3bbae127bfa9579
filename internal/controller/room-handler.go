package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studyroom/server/internal/repository/playback"
	"github.com/studyroom/server/internal/service/room"
)

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	rooms, err := c.roomService.ListRooms(r.Context(), &room.ListRoomsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list rooms", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch rooms")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

type CreateRoomInput struct {
	Title    string  `json:"title" validate:"required"`
	Subject  *string `json:"subject"`
	VideoURL *string `json:"video_url"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var input CreateRoomInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	identity, _ := c.getIdentityFromCtx(r.Context())

	created, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Title:     input.Title,
		Subject:   input.Subject,
		VideoURL:  input.VideoURL,
		CreatedBy: identity.Id,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create room", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	c.respondJSON(w, http.StatusCreated, map[string]any{"room": created})
}

type UpdateRoomInput struct {
	Title    *string `json:"title"`
	Subject  *string `json:"subject"`
	VideoURL *string `json:"video_url"`
}

func (c controller) updateRoom(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	var input UpdateRoomInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	if input.Title == nil && input.Subject == nil && input.VideoURL == nil {
		c.respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	identity, _ := c.getIdentityFromCtx(r.Context())

	updated, err := c.roomService.UpdateRoom(r.Context(), &room.UpdateRoomParams{
		RoomId:    roomId,
		Title:     input.Title,
		Subject:   input.Subject,
		VideoURL:  input.VideoURL,
		UpdatedBy: identity.Id,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.respondError(w, http.StatusNotFound, "room not found")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to update room", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to update room")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"room": updated})
}

func (c controller) listMessages(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	messages, err := c.roomService.ListMessages(r.Context(), roomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list messages", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required"`
}

func (c controller) sendMessage(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	var input SendMessageInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	identity, _ := c.getIdentityFromCtx(r.Context())

	msg, err := c.roomService.SendMessage(r.Context(), &room.SendMessageParams{
		RoomId:  roomId,
		UserId:  identity.Id,
		Content: input.Content,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to send message", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	c.respondJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (c controller) listComments(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	comments, err := c.roomService.ListComments(r.Context(), roomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to list comments", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch comments")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

type AddCommentInput struct {
	Content        string  `json:"content" validate:"required"`
	VideoTimestamp float64 `json:"video_timestamp"`
}

func (c controller) addComment(w http.ResponseWriter, r *http.Request) {
	roomId, ok := c.roomIdParam(w, r)
	if !ok {
		return
	}

	var input AddCommentInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	identity, _ := c.getIdentityFromCtx(r.Context())

	comment, err := c.roomService.AddComment(r.Context(), &room.AddCommentParams{
		RoomId:         roomId,
		UserId:         identity.Id,
		Content:        input.Content,
		VideoTimestamp: input.VideoTimestamp,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to add comment", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to add comment")
		return
	}

	c.respondJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

type UpsertPlaybackInput struct {
	RoomId       any      `json:"room_id" validate:"required"`
	VideoURL     string   `json:"video_url"`
	IsPlaying    *bool    `json:"is_playing" validate:"required"`
	PlaybackTime *float64 `json:"playback_time" validate:"required"`
	ClientTs     int64    `json:"client_ts"`
}

func (c controller) upsertPlayback(w http.ResponseWriter, r *http.Request) {
	var input UpsertPlaybackInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	roomId, ok := int64FromAny(input.RoomId)
	if !ok {
		c.respondError(w, http.StatusBadRequest, "invalid room_id")
		return
	}

	identity, _ := c.getIdentityFromCtx(r.Context())

	state, err := c.roomService.UpsertPlayback(r.Context(), &room.UpsertPlaybackParams{
		RoomId:       strconv.FormatInt(roomId, 10),
		VideoURL:     input.VideoURL,
		IsPlaying:    *input.IsPlaying,
		PlaybackTime: *input.PlaybackTime,
		ClientTs:     input.ClientTs,
		UpdatedBy:    identity.Id,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upsert playback", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to update playback")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"playback": state})
}

func (c controller) getPlayback(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		c.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	state, err := c.roomService.GetPlayback(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, playback.ErrNotFound) {
			c.respondError(w, http.StatusNotFound, "playback state not found")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get playback", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to fetch playback")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{"playback": state})
}
