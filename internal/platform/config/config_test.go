package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SOCIETY360_ADDR", "")
	t.Setenv("SOCIETY360_ENV", "")
	t.Setenv("JWT_SIGNING_KEY", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	// Development gets the fallback key so local runs work out of the box.
	assert.Equal(t, devSigningKey, cfg.JWTSigningKey)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOCIETY360_ADDR", ":9999")
	t.Setenv("SOCIETY360_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "real-secret")
	t.Setenv("TOKEN_TTL", "12h")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "real-secret", cfg.JWTSigningKey)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestValidate_FailsLoudlyOutsideDevelopment(t *testing.T) {
	t.Run("missing key in production", func(t *testing.T) {
		t.Setenv("SOCIETY360_ENV", "production")
		t.Setenv("JWT_SIGNING_KEY", "")

		cfg := FromEnv()
		require.Error(t, cfg.Validate())
	})

	t.Run("development fallback key rejected in production", func(t *testing.T) {
		cfg := Config{
			Env:           EnvProduction,
			JWTSigningKey: devSigningKey,
			TokenTTL:      time.Hour,
		}
		require.Error(t, cfg.Validate())
	})

	t.Run("unknown environment rejected", func(t *testing.T) {
		cfg := Config{Env: "staging", JWTSigningKey: "k", TokenTTL: time.Hour}
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive TTL rejected", func(t *testing.T) {
		cfg := Config{Env: EnvTest, JWTSigningKey: "k"}
		require.Error(t, cfg.Validate())
	})
}
