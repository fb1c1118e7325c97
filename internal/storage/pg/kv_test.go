//go:build integration

package pg

import (
	"context"
	"os"
	"testing"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/news-board/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "news_board_test",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		_ = testcontainers.TerminateContainer(pg.Container)
		panic(err)
	}

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func TestKV_RoundTrip(t *testing.T) {
	kv := NewKV(testPool)

	_, err := kv.Get(testCtx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Put(testCtx, "alice", "savedCards", []byte(`[{"id":"1","title":"Cats"}]`)))
	v, err := kv.Get(testCtx, "alice", "savedCards")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","title":"Cats"}]`, string(v))

	require.NoError(t, kv.Put(testCtx, "alice", "savedCards", []byte(`[]`)))
	v, err = kv.Get(testCtx, "alice", "savedCards")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v))

	require.NoError(t, kv.Delete(testCtx, "alice", "savedCards"))
	_, err = kv.Get(testCtx, "alice", "savedCards")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKV_NamespacesAreIsolated(t *testing.T) {
	kv := NewKV(testPool)

	require.NoError(t, kv.Put(testCtx, "alice", "debug", []byte(`true`)))
	require.NoError(t, kv.Put(testCtx, "bob", "debug", []byte(`false`)))

	v, err := kv.Get(testCtx, "bob", "debug")
	require.NoError(t, err)
	assert.JSONEq(t, `false`, string(v))
}

func TestHealthChecker(t *testing.T) {
	assert.True(t, NewHealthChecker(testPool).Healthy(testCtx))
	assert.False(t, NewHealthChecker(nil).Healthy(testCtx))
}
