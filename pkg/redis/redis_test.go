package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBlacklist(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenBlacklist(client), mr
}

func TestTokenBlacklist_RevokeAndCheck(t *testing.T) {
	bl, mr := setupBlacklist(t)
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_ExpiredTokenIsNotStored(t *testing.T) {
	bl, mr := setupBlacklist(t)

	require.NoError(t, bl.Revoke(context.Background(), "jti-old", 0))
	assert.False(t, mr.Exists(blacklistPrefix+"jti-old"))
}

func TestTokenBlacklist_ConnectionError(t *testing.T) {
	bl, mr := setupBlacklist(t)
	mr.Close()

	_, err := bl.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
