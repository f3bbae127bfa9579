package controller

import (
	"context"

	"github.com/studyroom/server/internal/repository/registry/inmemory"
	"github.com/studyroom/server/internal/service/account"
)

type contextKey int

const (
	sessionCtxKey contextKey = iota
	identityCtxKey
)

func (c controller) getSessionFromCtx(ctx context.Context) *inmemory.Session {
	session, ok := ctx.Value(sessionCtxKey).(*inmemory.Session)
	if !ok {
		return nil
	}

	return session
}

func (c controller) getIdentityFromCtx(ctx context.Context) (account.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(account.Identity)
	return identity, ok
}
