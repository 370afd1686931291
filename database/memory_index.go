package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// MemoryIndex is the in-process vector index. The chunk set is held as one
// immutable snapshot that Replace swaps atomically, so a search never sees
// a half-built index.
type MemoryIndex struct {
	mu       sync.RWMutex
	snapshot []indexedChunk
}

type indexedChunk struct {
	chunk  types.Chunk
	vector []float32
}

// NewMemoryIndex creates an empty in-memory vector index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Replace(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	snapshot := make([]indexedChunk, len(chunks))
	for i := range chunks {
		snapshot[i] = indexedChunk{chunk: chunks[i], vector: vectors[i]}
	}

	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error) {
	m.mu.RLock()
	snapshot := m.snapshot
	m.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil, types.ErrIndexNotReady
	}

	scored := make([]types.ScoredChunk, len(snapshot))
	for i, ic := range snapshot {
		scored[i] = types.ScoredChunk{
			Chunk: ic.chunk,
			Score: cosineSimilarity(vector, ic.vector),
		}
	}

	// Stable sort keeps original chunk order on equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshot), nil
}

func (m *MemoryIndex) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.snapshot = nil
	m.mu.Unlock()
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
