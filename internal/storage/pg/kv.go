package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KV keeps values in the user_kv table (db/migrations).
type KV struct {
	db *pgxpool.Pool
}

func NewKV(pool *ConnectionPool) *KV {
	return &KV{db: pool.conn}
}

func (s *KV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	const q = `SELECT value FROM user_kv WHERE namespace = $1 AND key = $2`

	var value []byte
	err := s.db.QueryRow(ctx, q, namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

func (s *KV) Put(ctx context.Context, namespace, key string, value []byte) error {
	const cmd = `
        INSERT INTO user_kv (namespace, key, value, updated_at)
        VALUES ($1, $2, $3::jsonb, now())
        ON CONFLICT (namespace, key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
    `
	if _, err := s.db.Exec(ctx, cmd, namespace, key, string(value)); err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, namespace, key string) error {
	const cmd = `DELETE FROM user_kv WHERE namespace = $1 AND key = $2`

	if _, err := s.db.Exec(ctx, cmd, namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	return nil
}
