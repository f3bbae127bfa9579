// Package rtc mints access tokens for the third-party video SFU. The
// token format is LiveKit-compatible: an HS256 JWT whose "video" claim
// carries the room grants.
package rtc

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrRoomRequired     = errors.New("room is required")
	ErrIdentityRequired = errors.New("identity is required")
)

type Config struct {
	URL       string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

type service struct {
	url       string
	apiKey    string
	apiSecret []byte
	tokenTTL  time.Duration
}

func NewService(cfg *Config) *service {
	return &service{
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		apiSecret: []byte(cfg.APISecret),
		tokenTTL:  cfg.TokenTTL,
	}
}

type VideoGrant struct {
	Room           string `json:"room"`
	RoomJoin       bool   `json:"roomJoin"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

type TokenResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// MintToken issues a join token for the given room and participant
// identity, allowing publish, subscribe and data channels.
func (s service) MintToken(room, identity string) (TokenResponse, error) {
	if room == "" {
		return TokenResponse{}, ErrRoomRequired
	}
	if identity == "" {
		return TokenResponse{}, ErrIdentityRequired
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.apiKey,
		"sub": identity,
		"nbf": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
		"video": VideoGrant{
			Room:           room,
			RoomJoin:       true,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.apiSecret)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{URL: s.url, Token: token}, nil
}
