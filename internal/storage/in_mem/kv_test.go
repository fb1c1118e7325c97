package in_mem

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	_, err := kv.Get(ctx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "alice", "savedCards", []byte(`[]`)))
	require.NoError(t, kv.Put(ctx, "bob", "savedCards", []byte(`[{"id":"1"}]`)))

	v, err := kv.Get(ctx, "alice", "savedCards")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v))

	require.NoError(t, kv.Delete(ctx, "alice", "savedCards"))
	_, err = kv.Get(ctx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	v, err = kv.Get(ctx, "bob", "savedCards")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(v))

	assert.NoError(t, kv.Delete(ctx, "nobody", "x"))
}

func TestKV_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	in := []byte(`"dark"`)
	require.NoError(t, kv.Put(ctx, "alice", "theme", in))
	in[1] = 'X'

	v, err := kv.Get(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(v))
}
