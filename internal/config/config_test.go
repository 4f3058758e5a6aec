package config

import (
	"strings"
	"testing"
	"time"

	"dinehub/internal/pkg/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecret(t *testing.T) {
	t.Setenv("QR_SIGNATURE_SECRET", strings.Repeat("s", signature.MinSecretLength))
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("ALLOWED_ORIGINS", "")
	setSecret(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, 10*time.Minute, cfg.QR.FreshnessWindow)
	assert.Equal(t, time.Minute, cfg.QR.FutureSkew)
	assert.Equal(t, "0 0 * * *", cfg.Sweep.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Sweep.Lookback)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.VerifyPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.VerifyBurst)
	assert.Equal(t, 100, cfg.RateLimit.APIPerMinute)
	assert.Equal(t, 5, cfg.RateLimit.AuthPerMinute)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
}

func TestLoadDatabaseConfig_IdleCappedByOpen(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_MAX_IDLE_CONNS", "16")

	db, err := loadDatabaseConfig("dev")
	require.NoError(t, err)
	assert.Equal(t, 4, db.MaxOpenConns)
	assert.Equal(t, 4, db.MaxIdleConns)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{
		Host:     "db",
		Port:     "3306",
		User:     "dine",
		Password: "pw",
		DBName:   "dinehub",
	})

	assert.True(t, strings.HasPrefix(dsn, "dine:pw@tcp(db:3306)/dinehub?"))
	assert.Contains(t, dsn, "parseTime=True")
	assert.Contains(t, dsn, "loc=UTC")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestFromEnv_SecretRequired(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	t.Run("missing", func(t *testing.T) {
		t.Setenv("QR_SIGNATURE_SECRET", "")
		_, err := FromEnv()
		assert.ErrorIs(t, err, signature.ErrMissingSecret)
	})

	t.Run("short", func(t *testing.T) {
		t.Setenv("QR_SIGNATURE_SECRET", "too-short")
		_, err := FromEnv()
		assert.ErrorIs(t, err, signature.ErrWeakSecret)
	})
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	setSecret(t)
	t.Setenv("QR_FRESHNESS_WINDOW", "5m")
	t.Setenv("MEMBERSHIP_SWEEP_CRON", "*/15 * * * *")
	t.Setenv("MEMBERSHIP_SWEEP_ENABLED", "false")
	t.Setenv("PROD_DB_NAME", "dinehub_prod")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, 5*time.Minute, cfg.QR.FreshnessWindow)
	assert.Equal(t, "*/15 * * * *", cfg.Sweep.Schedule)
	assert.False(t, cfg.Sweep.Enabled)
	assert.Equal(t, "dinehub_prod", cfg.Database.DBName)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "https://dinehub.app", cfg.GetAllowedOrigins())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	setSecret(t)

	t.Run("app mode", func(t *testing.T) {
		t.Setenv("APP_MODE", "staging")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("APP_MODE", "dev")
		t.Setenv("QR_FRESHNESS_WINDOW", "ten minutes")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "QR_FRESHNESS_WINDOW")
	})
}
