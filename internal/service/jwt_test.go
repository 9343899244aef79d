package service

import (
	"testing"

	"livestream_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, err := GenerateJWT(42, domain.RoleStreamer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.UserID)
	assert.Equal(t, domain.RoleStreamer, ident.Role)
}

func TestJWTTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	InitJWT()

	token, err := GenerateJWT(7, domain.RoleViewer)
	require.NoError(t, err)

	_, err = ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	InitJWT()
	token, err := GenerateJWT(7, domain.RoleViewer)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	InitJWT()
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
