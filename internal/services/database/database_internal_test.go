package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "postgres://app:pw@db.internal:5432/loans?sslmode=disable"

func TestBuildPoolConfig_Defaults(t *testing.T) {
	cfg, settings, err := buildPoolConfig(testURL)
	require.NoError(t, err)

	assert.Equal(t, int32(defaultMaxConns), cfg.MaxConns)
	assert.Equal(t, int32(0), cfg.MinConns)
	assert.Equal(t, defaultConnectTimeout, settings.connectTimeout)
	assert.Equal(t, "on", cfg.ConnConfig.RuntimeParams["default_transaction_read_only"])
	assert.Equal(t, "db.internal", cfg.ConnConfig.Host)
}

func TestBuildPoolConfig_Options(t *testing.T) {
	cfg, settings, err := buildPoolConfig(testURL, WithMaxConns(12), WithConnectTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, int32(12), cfg.MaxConns)
	assert.Equal(t, time.Second, settings.connectTimeout)
	assert.Equal(t, time.Second, cfg.ConnConfig.ConnectTimeout)
}

func TestBuildPoolConfig_NonPositiveOptionsKeepDefaults(t *testing.T) {
	cfg, settings, err := buildPoolConfig(testURL, WithMaxConns(0), WithConnectTimeout(-time.Second))
	require.NoError(t, err)

	assert.Equal(t, int32(defaultMaxConns), cfg.MaxConns)
	assert.Equal(t, defaultConnectTimeout, settings.connectTimeout)
}

func TestBuildPoolConfig_InvalidURL(t *testing.T) {
	_, _, err := buildPoolConfig("postgres://%zz")
	assert.ErrorContains(t, err, "invalid database URL")
}
