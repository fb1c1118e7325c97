//go:build integration

package es

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/news-board/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	kv, err := NewKV(ctx, ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "user_kv_test",
	})
	require.NoError(t, err)
	return kv
}

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	_, err := kv.Get(ctx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "alice", "savedCards", []byte(`[{"id":"1"}]`)))
	v, err := kv.Get(ctx, "alice", "savedCards")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(v))

	require.NoError(t, kv.Put(ctx, "alice", "debug", []byte(`true`)))
	v, err = kv.Get(ctx, "alice", "debug")
	require.NoError(t, err)
	assert.Equal(t, `true`, string(v))

	require.NoError(t, kv.Delete(ctx, "alice", "savedCards"))
	_, err = kv.Get(ctx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, kv.Delete(ctx, "alice", "missing"))

	assert.NoError(t, kv.EnsureIndex(ctx), "second call finds the existing index")
	assert.True(t, NewHealthChecker(kv).Healthy(ctx))
}
