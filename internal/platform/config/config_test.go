package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"SERVICE_NAME", "HTTP_PORT", "POSTGRES_DSN", "BOLT_PATH", "KAFKA_BROKERS",
	"MAX_ROWS_PER_STRUCTURE", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
	"ENABLE_EDIT_JOURNAL", "OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE",
}

// unsetConfigEnv clears every variable Load reads and restores them after the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetConfigEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "rewardsplit", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 100, cfg.MaxRowsPerStructure)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.EnableEditJournal)
	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MAX_ROWS_PER_STRUCTURE", "12")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ENABLE_EDIT_JOURNAL", "off")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12, cfg.MaxRowsPerStructure)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.False(t, cfg.EnableEditJournal)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "OUTBOX_BATCH_SIZE")

	t.Setenv("OUTBOX_BATCH_SIZE", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "OUTBOX_POLL_INTERVAL")
}

func TestLoadEnvFile(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("HTTP_PORT", "7000")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVICE_NAME=payouts\nHTTP_PORT=1234\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "payouts", cfg.ServiceName)
	assert.Equal(t, "7000", cfg.HTTPPort)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
