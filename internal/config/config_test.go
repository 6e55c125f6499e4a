package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("STICKY_API_URL", "https://merchant.sticky.io/api/v1/")
	t.Setenv("STICKY_API_USERNAME", "api-user")
	t.Setenv("STICKY_API_PASSWORD", "secret")
	t.Setenv("STICKY_APP_KEY", "app-key-123")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://merchant.sticky.io/api/v1", cfg.ProcessorAPIURL)
	assert.Equal(t, DefaultTokenField, cfg.TokenField)
	assert.Equal(t, 8*time.Second, cfg.ProcessorTimeout)
	assert.Equal(t, 5*time.Minute, cfg.IPCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8090")
	t.Setenv("STICKY_TOKEN_FIELD", "cc_token")
	t.Setenv("PROCESSOR_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "cc_token", cfg.TokenField)
	assert.Equal(t, 3*time.Second, cfg.ProcessorTimeout)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadFailsFastOnMissingProcessorSettings(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantEnv string
	}{
		{"api url", "STICKY_API_URL", "STICKY_API_URL"},
		{"username", "STICKY_API_USERNAME", "STICKY_API_USERNAME"},
		{"password", "STICKY_API_PASSWORD", "STICKY_API_PASSWORD"},
		{"app key", "STICKY_APP_KEY", "STICKY_APP_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantEnv)
		})
	}
}

func TestLoadRejectsUnboundedTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("PROCESSOR_TIMEOUT", "45s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROCESSOR_TIMEOUT")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("IP_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IP_CACHE_TTL")
}
