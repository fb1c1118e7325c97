package newsapi

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/query"
	"golang.org/x/sync/singleflight"
)

// CachedSearcher is a read-through cache in front of a Searcher. Concurrent
// misses for the same key share one upstream call. Failed searches are not cached.
type CachedSearcher struct {
	next  Searcher
	cache *cache.Cache[*Result]
	group singleflight.Group
}

func NewCachedSearcher(next Searcher, c *cache.Cache[*Result]) *CachedSearcher {
	return &CachedSearcher{next: next, cache: c}
}

func (s *CachedSearcher) Search(ctx context.Context, params query.Params) (*Result, error) {
	key := params.Key()
	if res, ok := s.cache.Get(key); ok {
		slog.Debug("News search served from cache", "key", key)
		return res.clone(), nil
	}

	// The shared call outlives a single caller giving up; the client timeout bounds it.
	ch := s.group.DoChan(key, func() (any, error) {
		res, err := s.next.Search(context.WithoutCancel(ctx), params)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			slog.Debug("News search shared an in-flight request", "key", key)
		}
		return r.Val.(*Result).clone(), nil
	}
}

// Invalidate drops the cached answer for params.
func (s *CachedSearcher) Invalidate(params query.Params) {
	s.cache.Delete(params.Key())
}

func (r *Result) clone() *Result {
	c := *r
	c.Articles = append(c.Articles[:0:0], r.Articles...)
	return &c
}
