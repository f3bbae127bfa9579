package controller

import (
	"errors"
	"net/http"

	"github.com/studyroom/server/internal/service/rtc"
)

func (c controller) rtcToken(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	identity := r.URL.Query().Get("identity")

	resp, err := c.rtcService.MintToken(room, identity)
	if err != nil {
		if errors.Is(err, rtc.ErrRoomRequired) || errors.Is(err, rtc.ErrIdentityRequired) {
			c.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		c.logger.WarnContext(r.Context(), "failed to mint rtc token", "error", err)
		c.respondError(w, http.StatusInternalServerError, "failed to mint token")
		return
	}

	c.respondJSON(w, http.StatusOK, resp)
}
