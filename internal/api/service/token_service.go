package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for session cookies that were not issued by
// this server or have expired.
var ErrInvalidToken = errors.New("invalid session token")

const tokenIssuer = "hotseat-tictactoe"

// TokenService signs the session ID carried in the page cookie.
type TokenService interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with HS256.
func NewTokenService(secret []byte, ttl time.Duration) TokenService {
	return &tokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the session.
func (s *tokenService) Issue(sessionID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the session ID it carries.
func (s *tokenService) Parse(raw string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	return claims.SessionID, nil
}
