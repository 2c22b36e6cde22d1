package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ldap-seeder/internal/adapter/ldaptool"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

var attrs = []string{"uid", "cn"}

func TestRedisSearchCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	res := &ldaptool.Result{Stdout: "dn: cn=user1,ou=users,dc=photobook,dc=local\nuid: user1\n", Duration: 12 * time.Millisecond}
	require.NoError(t, cache.Set(ctx, "objectClass=inetOrgPerson", attrs, res))

	assert.True(t, mr.Exists(Key("objectClass=inetOrgPerson", attrs)))
	assert.Equal(t, time.Minute, mr.TTL(Key("objectClass=inetOrgPerson", attrs)))

	cached, err := cache.Get(ctx, "objectClass=inetOrgPerson", attrs)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, res.Stdout, cached.Stdout)
	assert.Equal(t, res.Duration, cached.Duration)
}

func TestRedisSearchCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))

	cached, err := cache.Get(context.Background(), "(uid=nobody)", attrs)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisSearchCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "f", attrs, &ldaptool.Result{Stdout: "x"}))
	mr.FastForward(2 * time.Minute)

	cached, err := cache.Get(ctx, "f", attrs)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisSearchCache_RejectsFailedResult(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), "f", attrs, &ldaptool.Result{ExitCode: 49})
	assert.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestRedisSearchCache_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, mr.Set(Key("f", attrs), "{not json"))

	_, err := cache.Get(context.Background(), "f", attrs)
	assert.Error(t, err)
}

func TestRedisSearchCache_Flush(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisSearchCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", attrs, &ldaptool.Result{}))
	require.NoError(t, cache.Set(ctx, "b", attrs, &ldaptool.Result{}))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Flush(ctx))

	assert.Equal(t, []string{"unrelated"}, mr.Keys())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("f", attrs), Key("f", []string{"uid", "cn"}))
	assert.NotEqual(t, Key("f", attrs), Key("f", []string{"uid"}))
	assert.NotEqual(t, Key("f", attrs), Key("g", attrs))
	assert.Contains(t, Key("f", attrs), "ldap:search:")
}
