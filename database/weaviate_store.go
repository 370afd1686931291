package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/thiiagovboas/eureca-assistant/types"
)

const BATCH_SIZE = 200

// DefaultChunkClass is the Weaviate class chunks are stored under when the
// configuration does not name one.
const DefaultChunkClass = "ApprenticeChunk"

// WeaviateStore is the remote VectorIndex backend. Vectors are computed
// client-side, so the class carries no vectorizer module.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
}

// WeaviateConfig carries the connection settings for the store.
type WeaviateConfig struct {
	Host   string
	APIKey string
	Class  string
}

func classObject(name string) *models.Class {
	return &models.Class{
		Class: name,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "fingerprint", DataType: []string{"text"}},
			{Name: "processedAt", DataType: []string{"int"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

func NewWeaviateStore(config WeaviateConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
	}

	class := config.Class
	if class == "" {
		class = DefaultChunkClass
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	store := &WeaviateStore{client: client, class: class}
	if err := store.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %v", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.class {
			return nil
		}
	}
	if err := s.client.Schema().ClassCreator().WithClass(classObject(s.class)).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.class, err)
	}
	return nil
}

// Replace drops the chunk class and batch-inserts the new set. The caller
// only marks the index valid after Replace returns nil, so a partially
// rebuilt class is never searched.
func (s *WeaviateStore) Replace(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	if err := s.Clear(ctx); err != nil {
		return err
	}

	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      s.class,
				Properties: chunkProperties(chunks[j]),
				Vector:     vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
	}
	return nil
}

func chunkProperties(chunk types.Chunk) map[string]interface{} {
	return map[string]interface{}{
		"content":     chunk.Content,
		"documentId":  chunk.DocumentID,
		"chunkIndex":  chunk.Index,
		"fingerprint": chunk.Fingerprint,
		"processedAt": chunk.ProcessedAt.Unix(),
	}
}

func (s *WeaviateStore) Search(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "documentId"},
		{Name: "chunkIndex"},
		{Name: "fingerprint"},
		{Name: "processedAt"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(fields...).
		WithNearVector(nearVector)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var scored []types.ScoredChunk
	if data, ok := result.Data["Get"].(map[string]interface{})[s.class].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			chunk := types.Chunk{
				Content:     stringProp(obj, "content"),
				DocumentID:  stringProp(obj, "documentId"),
				Index:       intProp(obj, "chunkIndex"),
				Fingerprint: stringProp(obj, "fingerprint"),
				ProcessedAt: time.Unix(int64(intProp(obj, "processedAt")), 0).UTC(),
			}
			var score float32
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if id, ok := additional["id"].(string); ok {
					chunk.ID = id
				}
				if distance, ok := additional["distance"].(float64); ok {
					// Cosine distance; closer means more similar.
					score = float32(1 - distance)
				}
			}
			scored = append(scored, types.ScoredChunk{Chunk: chunk, Score: score})
		}
	}
	return scored, nil
}

func (s *WeaviateStore) Count(ctx context.Context) (int, error) {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(s.class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, err
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("aggregate failed: %v", result.Errors[0].Message)
	}

	if data, ok := result.Data["Aggregate"].(map[string]interface{})[s.class].([]interface{}); ok && len(data) > 0 {
		if obj, ok := data[0].(map[string]interface{}); ok {
			if meta, ok := obj["meta"].(map[string]interface{}); ok {
				if count, ok := meta["count"].(float64); ok {
					return int(count), nil
				}
			}
		}
	}
	return 0, nil
}

func (s *WeaviateStore) Clear(ctx context.Context) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(s.class).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete class %s: %v", s.class, err)
	}
	if err := s.client.Schema().ClassCreator().WithClass(classObject(s.class)).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.class, err)
	}
	return nil
}

func stringProp(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func intProp(obj map[string]interface{}, key string) int {
	if v, ok := obj[key].(float64); ok {
		return int(v)
	}
	return 0
}
