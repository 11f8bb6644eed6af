package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"
)

const sseTokenLifetime = 5 * time.Minute

var ErrInvalidTokenType = errors.New("invalid token type")

type Service interface {
	GenerateAccessToken(staffID string, isAdmin bool) (token string, expiresAt int64, err error)
	GenerateSSEToken(staffID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (staffID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpirationTime: expiration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(staffID string, isAdmin bool) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"staff_id": staffID,
		"is_admin": isAdmin,
		"type":     TokenTypeAccess,
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(staffID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"staff_id": staffID,
		"type":     TokenTypeSSE,
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the staff ID
func (j *JWTService) ValidateSSEToken(tokenString string) (staffID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	if tokenType, ok := token.Get("type"); !ok || tokenType != TokenTypeSSE {
		return "", ErrInvalidTokenType
	}

	staffIDVal, ok := token.Get("staff_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	staffID, ok = staffIDVal.(string)
	if !ok || staffID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return staffID, nil
}
