package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newService(t)

	tokenString, expiresAt, err := svc.GenerateAccessToken("S1", true)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "S1", claims["staff_id"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newService(t)

	tokenString, expiresIn, err := svc.GenerateSSEToken("S1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	staffID, err := svc.ValidateSSEToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "S1", staffID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newService(t)

	access, _, err := svc.GenerateAccessToken("S1", false)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateSSEToken_RejectsExpired(t *testing.T) {
	svc := newService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tokenString, _, err := svc.GenerateSSEToken("S1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(tokenString)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsForeignSignature(t *testing.T) {
	other, err := NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	tokenString, _, err := other.GenerateSSEToken("S1")
	require.NoError(t, err)

	_, err = newService(t).ValidateSSEToken(tokenString)
	assert.Error(t, err)
}
