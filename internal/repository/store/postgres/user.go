package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/studyroom/server/internal/repository/store"
)

// unique_violation
const pgUniqueViolationCode = "23505"

func (r repo) CreateUser(ctx context.Context, params *store.CreateUserParams) (store.User, error) {
	var user store.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, created_at
	`, uuid.NewString(), params.Username, params.PasswordHash).
		Scan(&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return store.User{}, store.ErrAlreadyExists
		}

		return store.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r repo) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	var user store.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).
		Scan(&user.Id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.User{}, store.ErrNotFound
		}

		return store.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
