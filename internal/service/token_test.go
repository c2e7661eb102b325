package service

import (
	"testing"
	"time"

	"pdf-study-agent/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(testSessionID)
	require.NoError(t, err)

	sessionID, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, testSessionID, sessionID)
}

func TestTokenService_Rejects(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue(testSessionID)
	require.NoError(t, err)

	expiredSvc := svc.(*tokenServiceImpl)
	past := &tokenServiceImpl{secret: expiredSvc.secret, ttl: time.Minute, now: func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}}
	expired, err := past.Issue(testSessionID)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: testSessionID, Issuer: tokenIssuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
		})
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)
}
