package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var (
	errMissingAuthHeader   = errors.New("missing authorization header")
	errMalformedAuthHeader = errors.New("malformed authorization header")
)

type errorResponse struct {
	Error string `json:"error"`
}

func (c controller) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Warn("failed to encode response", "error", err)
	}
}

func (c controller) respondError(w http.ResponseWriter, status int, message string) {
	c.respondJSON(w, status, errorResponse{Error: message})
}

func (c controller) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		c.logger.DebugContext(r.Context(), "failed to decode body", "error", err)
		c.respondError(w, http.StatusBadRequest, "invalid json body")
		return false
	}

	if validationErrors, ok := c.validate.Validate(v); !ok {
		c.respondJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return false
	}

	return true
}

func (c controller) roomIdParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	roomId, err := strconv.ParseInt(chi.URLParam(r, "room-id"), 10, 64)
	if err != nil {
		c.respondError(w, http.StatusBadRequest, "invalid room id")
		return 0, false
	}

	return roomId, true
}

// int64FromAny accepts json numbers and numeric strings, the two shapes
// clients send room ids in.
func int64FromAny(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		return parsed, err == nil
	case json.Number:
		parsed, err := n.Int64()
		return parsed, err == nil
	default:
		return 0, false
	}
}
