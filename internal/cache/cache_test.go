package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SetGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	data, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "user:1", []byte(`{"name":"Alice"}`), time.Minute))
	data, err = c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"Alice"}`, string(data))

	mr.FastForward(2 * time.Minute)
	data, _ = c.Get(ctx, "user:1")
	assert.Nil(t, data, "entry must expire after its TTL")

	require.NoError(t, c.Set(ctx, "user:2", []byte("x"), time.Minute))
	require.NoError(t, c.Delete(ctx, "user:2"))
	assert.False(t, mr.Exists("user:2"))
}

func TestClient_SetNXKeepsExistingValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.SetNX(ctx, "user:1", []byte("first"), time.Minute))
	require.NoError(t, c.SetNX(ctx, "user:1", []byte("second"), time.Minute))

	data, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Equal(t, "first", string(data))
	assert.Equal(t, time.Minute, mr.TTL("user:1"))
}

func TestClient_FailsSafeWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	mr.Close()
	ctx := context.Background()

	assert.Error(t, c.Ping(ctx))

	data, err := c.Get(ctx, "user:1")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Set(ctx, "user:1", []byte("x"), time.Minute))
	assert.NoError(t, c.SetNX(ctx, "user:1", []byte("x"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "user:1"))
}

func TestClient_NilIsDisabledCache(t *testing.T) {
	c := New("", "", 0)
	require.Nil(t, c)
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.SetNX(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
