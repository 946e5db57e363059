package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "3000")
	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.InviteValidity)
	assert.Equal(t, 90*time.Second, cfg.PresenceThreshold)
	require.NoError(t, cfg.Validate())
}

func TestGetCachedReturnsSameConfig(t *testing.T) {
	first := GetCached()
	second := GetCached()
	require.NotNil(t, first)
	assert.Same(t, first, second)
}
