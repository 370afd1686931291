package types

import "time"

// DocumentRef names one source document of the knowledge base.
type DocumentRef struct {
	ID   string `json:"id" mapstructure:"id"`
	Path string `json:"path" mapstructure:"path"`
}

// DocumentRecord is the converted text of a source document together with
// its change-detection fingerprint.
type DocumentRecord struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Text        string    `json:"-"`
	Fingerprint string    `json:"fingerprint"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Chunk is a fixed-size overlapping text segment of a source document, the
// unit of retrieval. Embedding vectors are owned by the index backend.
type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Content     string    `json:"content"`
	Index       int       `json:"index"`
	Fingerprint string    `json:"fingerprint"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ScoredChunk is a chunk ranked by similarity to a query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// DocumentStatus reports the on-disk state of one tracked document.
type DocumentStatus struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	Present     bool   `json:"present"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// IndexStatus reports the state of the retrieval index.
type IndexStatus struct {
	Initialized bool             `json:"initialized"`
	CacheValid  bool             `json:"cache_valid"`
	LastBuilt   *time.Time       `json:"last_built,omitempty"`
	ChunkCount  int              `json:"chunk_count"`
	Documents   []DocumentStatus `json:"documents"`
}
