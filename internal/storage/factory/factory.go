package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	"github.com/DjordjeVuckovic/news-board/internal/storage/es"
	"github.com/DjordjeVuckovic/news-board/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-board/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-board/pkg/server"
)

// Backend is an opened storage with its health checker. Close releases connections.
type Backend struct {
	KV     storage.KV
	Health server.HealthChecker
	Close  func()
}

// NewKV opens the key-value storage selected by cfg.
func NewKV(ctx context.Context, cfg *StorageConfig) (*Backend, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return &Backend{
			KV:     pg.NewKV(pool),
			Health: pg.NewHealthChecker(pool),
			Close:  pool.Close,
		}, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}

		kv, err := es.NewKV(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}

		return &Backend{
			KV:     kv,
			Health: es.NewHealthChecker(kv),
			Close:  func() {},
		}, nil

	case storage.InMem:
		return &Backend{
			KV:     in_mem.NewKV(),
			Health: server.NewOkHealthChecker(),
			Close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
