package services

import (
	"path/filepath"
	"testing"

	"task-tracker/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthSettings(t *testing.T) *config.Store {
	t.Helper()
	settings, err := config.NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return settings
}

func TestIssueTokenDisabledWithoutKeyHash(t *testing.T) {
	auth := NewOperatorAuthService(newAuthSettings(t))

	assert.False(t, auth.Enabled())
	_, _, err := auth.IssueToken("anything")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestIssueAndValidateToken(t *testing.T) {
	settings := newAuthSettings(t)

	hash, err := HashOperatorKey("super-secret-key")
	require.NoError(t, err)
	require.NoError(t, settings.Set("api", "operator_key_hash", hash))

	auth := NewOperatorAuthService(settings)
	assert.True(t, auth.Enabled())

	token, expiresIn, err := auth.IssueToken("super-secret-key")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	assert.NoError(t, auth.ValidateToken(token))
}

func TestIssueTokenRejectsWrongKey(t *testing.T) {
	settings := newAuthSettings(t)

	hash, err := HashOperatorKey("super-secret-key")
	require.NoError(t, err)
	require.NoError(t, settings.Set("api", "operator_key_hash", hash))

	auth := NewOperatorAuthService(settings)
	_, _, err = auth.IssueToken("wrong-key")
	assert.ErrorIs(t, err, ErrInvalidOperatorKey)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := NewOperatorAuthService(newAuthSettings(t))

	assert.ErrorIs(t, auth.ValidateToken("not-a-jwt"), ErrInvalidToken)
}
