package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
)

type KV struct {
	storageLock sync.RWMutex
	storage     map[string]map[string][]byte
}

func NewKV() *KV {
	return &KV{
		storage: make(map[string]map[string][]byte),
	}
}

func (s *KV) Get(_ context.Context, namespace, key string) ([]byte, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	v, ok := s.storage[namespace][key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *KV) Put(_ context.Context, namespace, key string, value []byte) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	ns, ok := s.storage[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.storage[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	slog.Debug("Saved value to in-memory storage", "namespace", namespace, "key", key, "bytes", len(value))
	return nil
}

func (s *KV) Delete(_ context.Context, namespace, key string) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	delete(s.storage[namespace], key)
	return nil
}
