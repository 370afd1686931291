package service

import (
	"context"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// AIService generates answers from a composed prompt transcript.
type AIService interface {
	Chat(ctx context.Context, messages []types.Message) (*types.Message, error)
	// ChatStream delivers fragments to the handler as they arrive and
	// returns the assembled final message.
	ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) (*types.Message, error)
}

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
