package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// document is one stored value; the JSON value is kept as an opaque binary field.
type document struct {
	Namespace string    `json:"namespace"`
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KV stores one document per namespace:key pair.
type KV struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewKV(ctx context.Context, config ClientConfig) (*KV, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	kv := &KV{client: client, indexName: config.IndexName}
	if err := kv.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return kv, nil
}

func docID(namespace, key string) string {
	return namespace + ":" + key
}

func (s *KV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	res, err := s.client.Get(s.indexName, docID(namespace, key)).Do(ctx)
	if isNotFound(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc.Value, nil
}

func (s *KV) Put(ctx context.Context, namespace, key string, value []byte) error {
	doc := document{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	res, err := s.client.Index(s.indexName).Id(docID(namespace, key)).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	slog.Debug("Document indexed", "id", docID(namespace, key), "index", s.indexName, "result", res.Result)
	return nil
}

func (s *KV) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.client.Delete(s.indexName, docID(namespace, key)).Do(ctx)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (s *KV) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"namespace":  types.NewKeywordProperty(),
			"key":        types.NewKeywordProperty(),
			"value":      types.NewBinaryProperty(),
			"updated_at": types.NewDateProperty(),
		},
	}

	createRes, err := s.client.Indices.Create(s.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == http.StatusNotFound
}
