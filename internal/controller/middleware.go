package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studyroom/server/internal/service/account"
	"github.com/studyroom/server/pkg/ctxlogger"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// authMw requires a valid bearer token and attaches the caller identity
// to the request context.
func (c controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := c.bearerIdentity(r)
		if err != nil {
			c.logger.DebugContext(r.Context(), "unauthenticated request", "error", err)
			c.respondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), identityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuthMw attaches the identity when a valid token is present and
// lets the request through either way.
func (c controller) optionalAuthMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, err := c.bearerIdentity(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), identityCtxKey, identity))
		}
		next.ServeHTTP(w, r)
	})
}

func (c controller) bearerIdentity(r *http.Request) (account.Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return account.Identity{}, errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return account.Identity{}, errMalformedAuthHeader
	}

	identity, err := c.accountService.Verify(parts[1])
	if err != nil {
		return account.Identity{}, err
	}

	return identity, nil
}
