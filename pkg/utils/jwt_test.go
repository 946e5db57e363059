package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "user-1",
		Email: "tenant@example.com",
		Role:  models.RoleTenant,
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret")

	access, refresh, expiresAt, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Greater(t, expiresAt, int64(0))

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTenant, claims.Role)
	assert.Equal(t, "access", claims.Type)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret")
	access, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService("different-secret")
	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	access, refresh, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	newAccess, expiresAt, err := svc.RefreshAccessToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.Greater(t, expiresAt, int64(0))

	// An access token must not refresh.
	_, _, err = svc.RefreshAccessToken(access)
	assert.Error(t, err)
}

func TestGenerateURLToken(t *testing.T) {
	first, err := GenerateURLToken(24)
	require.NoError(t, err)
	second, err := GenerateURLToken(24)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "+")
}
