package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"en"}, cfg.Languages)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LANGUAGES", "nl,en-US,en")
	t.Setenv("TIMEOUT", "5s")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/tubescribe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"nl", "en-US", "en"}, cfg.Languages)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "postgres://localhost/tubescribe", cfg.PostgresDSN)
}
