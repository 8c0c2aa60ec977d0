package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)
	userId := uuid.New()

	signed, err := svc.IssueAccessToken(userId, "jane@example.com", "jane")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userId, claims.UserId)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "jane", claims.Username)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", time.Nanosecond)

	signed, err := svc.IssueAccessToken(uuid.New(), "jane@example.com", "jane")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", 30*time.Minute)
	verifier := NewService("secret-b", 30*time.Minute)

	signed, err := issuer.IssueAccessToken(uuid.New(), "jane@example.com", "jane")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsRefreshValue(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)

	// A refresh value is opaque, not a JWT.
	_, err := svc.VerifyAccessToken(svc.NewRefreshValue())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashRefreshValue(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)

	a := svc.NewRefreshValue()
	b := svc.NewRefreshValue()
	require.NotEqual(t, a, b)

	assert.Equal(t, HashRefreshValue(a), HashRefreshValue(a))
	assert.NotEqual(t, HashRefreshValue(a), HashRefreshValue(b))
	assert.Len(t, HashRefreshValue(a), 64)
}
