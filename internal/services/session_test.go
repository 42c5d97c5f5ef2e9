package services

import (
	"errors"
	"testing"
	"time"

	"aotd/config"
	. "aotd/internal/models"
	"aotd/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionServiceAt(t *testing.T, secret string, now time.Time) *SessionService {
	t.Helper()

	clock, err := utils.NewFixedClock("America/Chicago", now)
	require.NoError(t, err)

	return NewSessionService(clock, config.Config{SessionSecret: secret})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := sessionServiceAt(t, "test-secret", now)
	userID := uuid.New()

	token, err := service.IssueToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSessionTokenExpiry(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := sessionServiceAt(t, "test-secret", issued)

	token, err := issuer.IssueToken(uuid.New())
	require.NoError(t, err)

	// Still valid just before the seven day lifetime ends.
	almostExpired := sessionServiceAt(t, "test-secret", issued.Add(sessionDuration-time.Minute))
	_, err = almostExpired.ValidateToken(token)
	assert.NoError(t, err)

	expired := sessionServiceAt(t, "test-secret", issued.Add(sessionDuration+time.Minute))
	_, err = expired.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestSessionTokenWrongSecret(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := sessionServiceAt(t, "secret-a", now)
	token, err := issuer.IssueToken(uuid.New())
	require.NoError(t, err)

	validator := sessionServiceAt(t, "secret-b", now)
	_, err = validator.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestSessionTokenGarbage(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := sessionServiceAt(t, "test-secret", now)

	_, err := service.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}
