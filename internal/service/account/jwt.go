package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studyroom/server/internal/repository/store"
)

const tokenTTL = 7 * 24 * time.Hour

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	Id       string
	Username string
}

func (s service) generateJWT(user store.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.Id,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	})

	return token.SignedString(s.secret)
}

// Verify parses a bearer token and returns the identity it carries.
func (s service) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" {
		return Identity{}, errors.New("token missing subject")
	}

	return Identity{Id: id, Username: username}, nil
}
