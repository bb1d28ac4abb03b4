package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AUTH_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, 10, cfg.MaxConns)
	require.Equal(t, time.Minute, cfg.TokenTTL)
	require.Equal(t, 3*time.Second, cfg.StoreTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("DB_MAX_CONNS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, 3, cfg.MaxConns)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
