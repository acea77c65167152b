package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("TICKETS_PAGE_SIZE", "")
	t.Setenv("NOTIFY_SMTP_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 10, cfg.Tickets.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.False(t, cfg.Notification.MailEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("NOTIFY_SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.True(t, cfg.Notification.MailEnabled())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	for _, key := range []string{"HTTP_REQUEST_TIMEOUT_SECONDS", "POSTGRES_RUN_MIGRATIONS", "REDIS_DB"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-value")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	t.Setenv("TICKETS_PAGE_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
