package service

import (
	"github.com/google/uuid"

	"github.com/thiiagovboas/eureca-assistant/types"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// chunkDocument splits a document into fixed-size overlapping chunks. Sizes
// are counted in runes so accented text is never cut mid-character. The
// last chunk may be shorter than chunkSize.
func chunkDocument(record types.DocumentRecord, chunkSize, overlap int) []types.Chunk {
	if record.Text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	runes := []rune(record.Text)
	textLen := len(runes)

	estimated := textLen/(chunkSize-overlap) + 1
	chunks := make([]types.Chunk, 0, estimated)

	index := 0
	start := 0
	for start < textLen {
		end := start + chunkSize
		if end > textLen {
			end = textLen
		}

		chunks = append(chunks, types.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  record.ID,
			Content:     string(runes[start:end]),
			Index:       index,
			Fingerprint: record.Fingerprint,
			ProcessedAt: record.ProcessedAt,
		})
		index++

		start += chunkSize - overlap
	}

	return chunks
}
