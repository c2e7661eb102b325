package service

import (
	"errors"
	"fmt"
	"time"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenIssuer = "pdf-study-agent"

// SessionClaims binds a bearer token to one study session. Subject is the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(sessionID string) (string, error)
	// Validate returns the session id carried by a valid token.
	Validate(tokenString string) (string, error)
}

type tokenServiceImpl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService signs tokens with HS256.
func NewTokenService(secret string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("session token secret is not configured (session.token_secret)")
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &tokenServiceImpl{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *tokenServiceImpl) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign session token", err)
	}
	return signed, nil
}

func (s *tokenServiceImpl) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Info("Session token expired", zap.Error(err))
			return "", domain.NewUnauthorizedError("Session token has expired. Start a new session.")
		}
		logger.Get().Warn("Session token validation failed", zap.Error(err))
		return "", domain.NewUnauthorizedError("Invalid session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", domain.NewUnauthorizedError("Invalid session token")
	}
	return claims.Subject, nil
}
