package rtc

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *service {
	return NewService(&Config{
		URL:       "wss://rtc.example.com",
		APIKey:    "api-key",
		APISecret: "api-secret",
		TokenTTL:  time.Hour,
	})
}

func TestMintToken(t *testing.T) {
	svc := newTestService()

	resp, err := svc.MintToken("room-7", "alice")
	require.NoError(t, err)
	assert.Equal(t, "wss://rtc.example.com", resp.URL)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (any, error) {
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "api-key", claims["iss"])
	assert.Equal(t, "alice", claims["sub"])

	video, ok := claims["video"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "room-7", video["room"])
	assert.Equal(t, true, video["roomJoin"])
	assert.Equal(t, true, video["canPublish"])
	assert.Equal(t, true, video["canSubscribe"])
	assert.Equal(t, true, video["canPublishData"])
}

func TestMintTokenValidatesInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.MintToken("", "alice")
	assert.ErrorIs(t, err, ErrRoomRequired)

	_, err = svc.MintToken("room-7", "")
	assert.ErrorIs(t, err, ErrIdentityRequired)
}
