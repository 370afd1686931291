package database

import (
	"context"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// VectorIndex stores embedded chunks and answers similarity queries. A
// rebuild replaces the whole chunk set in one step; backends never apply
// partial updates.
type VectorIndex interface {
	// Replace swaps the entire indexed chunk set for the given one.
	// len(vectors) must equal len(chunks).
	Replace(ctx context.Context, chunks []types.Chunk, vectors [][]float32) error

	// Search returns up to limit chunks ranked by similarity to the query
	// vector, descending, ties broken by original chunk order.
	Search(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error)

	// Count reports how many chunks are currently indexed.
	Count(ctx context.Context) (int, error)

	// Clear drops all indexed chunks.
	Clear(ctx context.Context) error
}
