package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPoolConfigAppliesTuning(t *testing.T) {
	t.Parallel()

	poolCfg, err := buildPoolConfig(Config{
		URL:             "postgres://localhost:5432/blog",
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 10 * time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(25), poolCfg.MaxConns)
	assert.Equal(t, int32(5), poolCfg.MinConns)
	assert.Equal(t, time.Hour, poolCfg.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnIdleTime)
}

func TestBuildPoolConfigDefaults(t *testing.T) {
	t.Parallel()

	poolCfg, err := buildPoolConfig(Config{URL: "postgres://localhost:5432/blog"})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, poolCfg.MaxConnIdleTime)
	assert.Equal(t, 30*time.Second, poolCfg.HealthCheckPeriod)
}

func TestBuildPoolConfigRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := buildPoolConfig(Config{URL: "://not-a-url"})
	require.Error(t, err)
}
