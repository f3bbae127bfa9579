package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", c.signUp)
		r.Post("/auth/signin", c.signIn)

		r.Get("/rooms", c.listRooms)
		r.With(c.authMw).Post("/rooms", c.createRoom)
		r.With(c.optionalAuthMw).Patch("/rooms/{room-id}", c.updateRoom)

		r.Get("/rooms/{room-id}/messages", c.listMessages)
		r.With(c.authMw).Post("/rooms/{room-id}/messages", c.sendMessage)

		r.Get("/rooms/{room-id}/comments", c.listComments)
		r.With(c.authMw).Post("/rooms/{room-id}/comments", c.addComment)

		r.With(c.authMw).Post("/rooms/playback", c.upsertPlayback)
		r.Get("/rooms/{room-id}/playback", c.getPlayback)

		r.Get("/strokes/{room-id}", c.listStrokes)
		r.With(c.optionalAuthMw).Post("/strokes", c.addStroke)
		r.Delete("/strokes/{room-id}", c.clearStrokes)

		r.Get("/ai/history", c.assistantHistory)
		r.With(c.optionalAuthMw).Post("/ai/ask", c.assistantAsk)

		r.Get("/rtc/token", c.rtcToken)
	})

	// realtime playback sync channel, deliberately unauthenticated
	r.HandleFunc("/ws", c.serveWS)

	return r
}
