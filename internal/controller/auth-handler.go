package controller

import (
	"errors"
	"net/http"

	"github.com/studyroom/server/internal/service/account"
)

type SignUpInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required"`
}

func (c controller) signUp(w http.ResponseWriter, r *http.Request) {
	var input SignUpInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	resp, err := c.accountService.SignUp(r.Context(), &account.SignUpParams{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, account.ErrUsernameTaken) {
			c.respondError(w, http.StatusConflict, "username already taken")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to sign up", "error", err)
		c.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	c.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "user created",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

type SignInInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c controller) signIn(w http.ResponseWriter, r *http.Request) {
	var input SignInInput
	if !c.decodeBody(w, r, &input) {
		return
	}

	resp, err := c.accountService.SignIn(r.Context(), &account.SignInParams{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			c.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		c.logger.WarnContext(r.Context(), "failed to sign in", "error", err)
		c.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	c.respondJSON(w, http.StatusOK, map[string]any{
		"message": "signed in",
		"token":   resp.Token,
		"user":    resp.User,
	})
}
