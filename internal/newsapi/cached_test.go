package newsapi

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSearcher struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (s *countingSearcher) Search(_ context.Context, p query.Params) (*Result, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Articles: []domain.Article{{Title: p.Q, URL: "https://" + p.Q}}, TotalResults: 1}, nil
}

func TestCachedSearcher_ServesFreshEntryFromCache(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[*Result]("news", 5*time.Minute, cache.WithClock(func() time.Time { return now }))
	next := &countingSearcher{}
	s := NewCachedSearcher(next, c)

	_, err := s.Search(context.Background(), query.Params{Q: "dogs"})
	require.NoError(t, err)
	now = now.Add(time.Minute)
	res, err := s.Search(context.Background(), query.Params{Q: "  DOGS "})
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	assert.Len(t, res.Articles, 1)
	_, ok := c.Get("news:dogs")
	assert.True(t, ok)
}

func TestCachedSearcher_RefetchesAfterMaxAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[*Result]("news", 5*time.Minute, cache.WithClock(func() time.Time { return now }))
	next := &countingSearcher{}
	s := NewCachedSearcher(next, c)

	_, err := s.Search(context.Background(), query.Params{Q: "dogs"})
	require.NoError(t, err)
	now = now.Add(6 * time.Minute)
	_, err = s.Search(context.Background(), query.Params{Q: "dogs"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedSearcher_ErrorsAreNotCached(t *testing.T) {
	c := cache.New[*Result]("news", time.Minute)
	next := &countingSearcher{err: errors.New("boom")}
	s := NewCachedSearcher(next, c)

	_, err := s.Search(context.Background(), query.Params{Q: "dogs"})
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCachedSearcher_CollapsesConcurrentMisses(t *testing.T) {
	c := cache.New[*Result]("news", time.Minute)
	next := &countingSearcher{gate: make(chan struct{})}
	s := NewCachedSearcher(next, c)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Search(context.Background(), query.Params{Q: "cats"})
			assert.NoError(t, err)
		}()
	}

	assert.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.gate)
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedSearcher_ReturnsCopies(t *testing.T) {
	c := cache.New[*Result]("news", time.Minute)
	s := NewCachedSearcher(&countingSearcher{}, c)

	res, err := s.Search(context.Background(), query.Params{Q: "dogs"})
	require.NoError(t, err)
	res.Articles[0].Title = "changed"

	again, err := s.Search(context.Background(), query.Params{Q: "dogs"})
	require.NoError(t, err)
	assert.Equal(t, "dogs", again.Articles[0].Title)
}
