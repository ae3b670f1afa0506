package authclient_test

import (
	"errors"
	"testing"
	"time"

	authclient "github.com/goliatone/go-auth-client"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := authclient.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, authclient.DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_CLIENT_API_URL", "https://auth.example.com/")
	t.Setenv("AUTH_CLIENT_REQUEST_TIMEOUT", "3s")
	t.Setenv("AUTH_CLIENT_AUTH_SCHEME", "Bearer")
	t.Setenv("AUTH_CLIENT_NOTIFICATION_TTL", "2s")
	t.Setenv("AUTH_CLIENT_FADE_DURATION", "150ms")
	t.Setenv("AUTH_CLIENT_DEFAULT_ROUTE", "/dashboard")

	cfg, err := authclient.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example.com/", cfg.APIURL)
	assert.Equal(t, "https://auth.example.com", cfg.APIBase())
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.Equal(t, 2*time.Second, cfg.NotificationTTL)
	assert.Equal(t, 150*time.Millisecond, cfg.FadeDuration)
	assert.Equal(t, "/dashboard", cfg.DefaultRoute)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("AUTH_CLIENT_NOTIFICATION_TTL", "soon")

	_, err := authclient.LoadConfig()
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, authclient.TextCodeInvalidConfig, richErr.TextCode)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*authclient.Config)
		field  string
	}{
		{
			name:   "unknown scheme",
			mutate: func(c *authclient.Config) { c.AuthScheme = "Basic" },
			field:  "AuthScheme",
		},
		{
			name:   "missing url",
			mutate: func(c *authclient.Config) { c.APIURL = "" },
			field:  "APIURL",
		},
		{
			name:   "zero ttl",
			mutate: func(c *authclient.Config) { c.NotificationTTL = 0 },
			field:  "NotificationTTL",
		},
		{
			name:   "zero fade",
			mutate: func(c *authclient.Config) { c.FadeDuration = 0 },
			field:  "FadeDuration",
		},
		{
			name:   "negative fade",
			mutate: func(c *authclient.Config) { c.FadeDuration = -time.Second },
			field:  "FadeDuration",
		},
		{
			name:   "missing route",
			mutate: func(c *authclient.Config) { c.DefaultRoute = "" },
			field:  "DefaultRoute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := authclient.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var richErr *goerrors.Error
			require.True(t, errors.As(err, &richErr))
			assert.Equal(t, authclient.TextCodeInvalidConfig, richErr.TextCode)
			assert.Contains(t, richErr.Metadata, tt.field)
		})
	}

	assert.NoError(t, authclient.DefaultConfig().Validate())
}
