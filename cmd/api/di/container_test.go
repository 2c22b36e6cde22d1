package di

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ldap-seeder/internal/adapter/cache"
	"ldap-seeder/internal/config"
)

func loadConfig(t *testing.T) *config.Config {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_WithoutRedis(t *testing.T) {
	c, err := NewContainer(context.Background(), loadConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.RateLimiter)
	assert.NotNil(t, c.GinHandler)
	assert.NoError(t, c.Close())
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := loadConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NotNil(t, c.RedisClient)
	assert.NotNil(t, c.RateLimiter)
	assert.NoError(t, c.Close())
}

func TestNewContainer_FlushesStaleSearches(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	stale := cache.Key("objectClass=inetOrgPerson", []string{"cn"})
	require.NoError(t, mr.Set(stale, `{"stdout":"cn: user1\n"}`))
	require.NoError(t, mr.Set("unrelated", "kept"))

	cfg := loadConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.False(t, mr.Exists(stale))
	mr.CheckGet(t, "unrelated", "kept")
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := loadConfig(t)
	cfg.LDAP.Port = 0

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
