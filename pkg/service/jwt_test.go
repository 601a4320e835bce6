package service

import (
	"testing"
	"time"

	apperrors "pharmacy-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, zap.NewNop())

	token, issued, err := svc.GenerateToken("7", "client", "Cliente Demo")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "client", claims.UserType)
	assert.Equal(t, "Cliente Demo", claims.Name)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("one", time.Hour, zap.NewNop())
	verifier := NewJWTService("two", time.Hour, zap.NewNop())

	token, _, err := issuer.GenerateToken("1", "admin", "Admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("s", time.Minute, zap.NewNop()).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken("1", "admin", "Admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
