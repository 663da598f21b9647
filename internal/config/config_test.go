package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "favorly", cfg.DBName)
	assert.True(t, cfg.FavoritesFullProjection)
	assert.False(t, cfg.SMSEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("FAVORITES_FULL_PROJECTION", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.False(t, cfg.FavoritesFullProjection)
}

func TestLoad_InvalidBoolFallsBack(t *testing.T) {
	t.Setenv("FAVORITES_FULL_PROJECTION", "banana")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.FavoritesFullProjection)
}

func TestSMSEnabled(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_FROM_NUMBER", "+15550001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.SMSEnabled())
}
