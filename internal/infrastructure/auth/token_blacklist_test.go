package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/school/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	blacklisted, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Hour))

	blacklisted, err = bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	blacklisted, err = bl.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "short", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	blacklisted, err := bl.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, blacklisted)
	assert.Empty(t, bl.jtiBlacklist)
}

func TestRedisTokenBlacklist_Keys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	bl := NewRedisTokenBlacklistWithClient(client)
	assert.Equal(t, "sms:token:blacklist:jti:abc", bl.jtiKey("abc"))
}

func TestTokenBlacklist_Interface(t *testing.T) {
	var _ TokenBlacklist = NewInMemoryTokenBlacklist()
	var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)
}

func TestNewTokenBlacklist_Fallback(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	bl, closeFn := NewTokenBlacklist(config.RedisConfig{Enabled: false}, logger)
	require.NotNil(t, closeFn)
	assert.IsType(t, &InMemoryTokenBlacklist{}, bl)
	assert.NoError(t, closeFn())
	assert.Equal(t, 1, logs.FilterMessage("Using in-memory token blacklist").Len())

	// Port 1 refuses connections, so the Redis ping fails fast.
	bl, closeFn = NewTokenBlacklist(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, logger)
	assert.IsType(t, &InMemoryTokenBlacklist{}, bl)
	assert.NoError(t, closeFn())
	assert.Equal(t, 1, logs.FilterMessage("Redis unavailable, falling back to in-memory token blacklist").Len())
}
