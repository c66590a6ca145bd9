package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "learnhub"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "learnhub"
	cfg.Database.MaxOpenConns = 12
	cfg.Database.MaxIdleConns = 3
	cfg.Database.ConnMaxLifetime = "30m"
	return cfg
}

func TestNewPoolConfigAppliesDatabaseSettings(t *testing.T) {
	poolConfig, err := newPoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "learnhub", poolConfig.ConnConfig.Database)
	assert.Equal(t, int32(12), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
}

func TestNewPoolConfigClampsIdleToMax(t *testing.T) {
	cfg := testConfig()
	cfg.Database.MaxOpenConns = 2
	cfg.Database.MaxIdleConns = 8

	poolConfig, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(2), poolConfig.MinConns)
}

func TestNewPoolConfigRejectsBadLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := newPoolConfig(cfg)
	assert.ErrorContains(t, err, "conn_max_lifetime")
}
