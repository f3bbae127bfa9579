// Package account handles user registration, credential checks and the
// bearer tokens the REST surface authenticates with.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/studyroom/server/internal/repository/store"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 12

type iUserRepo interface {
	CreateUser(context.Context, *store.CreateUserParams) (store.User, error)
	GetUserByUsername(ctx context.Context, username string) (store.User, error)
}

type service struct {
	userRepo iUserRepo
	secret   []byte
	logger   *slog.Logger
}

func NewService(userRepo iUserRepo, secret string, logger *slog.Logger) *service {
	return &service{
		userRepo: userRepo,
		secret:   []byte(secret),
		logger:   logger,
	}
}

type SignUpParams struct {
	Username string
	Password string
}

type SignInParams struct {
	Username string
	Password string
}

type AuthResponse struct {
	Token string
	User  store.User
}

func (s service) SignUp(ctx context.Context, params *SignUpParams) (AuthResponse, error) {
	username := normalizeUsername(params.Username)

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, &store.CreateUserParams{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return AuthResponse{}, ErrUsernameTaken
		}

		return AuthResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s service) SignIn(ctx context.Context, params *SignInParams) (AuthResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, normalizeUsername(params.Username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}

		return AuthResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		return AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s service) issueToken(user store.User) (AuthResponse, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return AuthResponse{Token: token, User: user}, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
