package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/thiiagovboas/eureca-assistant/database"
	"github.com/thiiagovboas/eureca-assistant/types"
	"github.com/thiiagovboas/eureca-assistant/utils"
)

// IndexConfig carries the chunking and cache settings of the index.
type IndexConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	CacheDuration time.Duration
}

var DefaultIndexConfig = IndexConfig{
	ChunkSize:     DefaultChunkSize,
	ChunkOverlap:  DefaultChunkOverlap,
	CacheDuration: 12 * time.Hour,
}

// IndexService keeps the retrieval index in sync with the knowledge-base
// documents. The index is rebuilt lazily: requests go through EnsureIndex,
// which rebuilds only when the cached build is stale. A build is stale when
// it never happened, aged past the cache duration, was marked dirty, or
// when any document changed or disappeared on disk since it ran.
type IndexService struct {
	store    *DocumentStore
	embedder EmbeddingService
	backend  database.VectorIndex
	config   IndexConfig

	mu           sync.Mutex
	builtAt      time.Time
	valid        bool
	dirty        bool
	chunkCount   int
	fingerprints map[string]string
}

func NewIndexService(store *DocumentStore, embedder EmbeddingService, backend database.VectorIndex, config IndexConfig) *IndexService {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 4
	}
	return &IndexService{
		store:    store,
		embedder: embedder,
		backend:  backend,
		config:   config,
	}
}

// EnsureIndex rebuilds the index when the cached build is stale and is a
// no-op otherwise. Concurrent callers serialize here, so a rebuild happens
// at most once per staleness event.
func (s *IndexService) EnsureIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheValidLocked() {
		return nil
	}
	return s.rebuildLocked(ctx)
}

// MarkDirty forces a rebuild on the next EnsureIndex call.
func (s *IndexService) MarkDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	log.Println("Index marked dirty, next request triggers a rebuild")
}

// Search answers a similarity query, rebuilding the index first if needed.
func (s *IndexService) Search(ctx context.Context, question string, limit int) ([]types.ScoredChunk, error) {
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	return s.backend.Search(ctx, vector, limit)
}

// Status reports the current index state without triggering a rebuild.
func (s *IndexService) Status() types.IndexStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := types.IndexStatus{
		Initialized: !s.builtAt.IsZero(),
		CacheValid:  s.cacheValidLocked(),
		ChunkCount:  s.chunkCount,
		Documents:   s.store.Status(),
	}
	if !s.builtAt.IsZero() {
		builtAt := s.builtAt
		status.LastBuilt = &builtAt
	}
	return status
}

func (s *IndexService) cacheValidLocked() bool {
	if !s.valid || s.dirty {
		return false
	}
	if s.config.CacheDuration > 0 && time.Since(s.builtAt) > s.config.CacheDuration {
		return false
	}

	for _, ref := range s.store.Refs() {
		current, err := utils.FileFingerprint(ref.Path)
		if err != nil || current != s.fingerprints[ref.Path] {
			return false
		}
	}
	return true
}

func (s *IndexService) rebuildLocked(ctx context.Context) error {
	log.Println("Rebuilding retrieval index")
	s.valid = false

	records, err := s.store.LoadOrRefresh(ctx)
	if err != nil {
		return err
	}

	var chunks []types.Chunk
	for _, id := range s.store.IDs() {
		record, ok := records[id]
		if !ok {
			continue
		}
		chunks = append(chunks, chunkDocument(record, s.config.ChunkSize, s.config.ChunkOverlap)...)
	}
	if len(chunks) == 0 {
		return types.ErrNoDocumentsLoaded
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return &types.IndexBuildError{Cause: err}
	}

	if err := s.backend.Replace(ctx, chunks, vectors); err != nil {
		return &types.IndexBuildError{Cause: err}
	}

	fingerprints := make(map[string]string, len(records))
	for _, record := range records {
		fingerprints[record.Path] = record.Fingerprint
	}
	for _, ref := range s.store.Refs() {
		if _, ok := fingerprints[ref.Path]; ok {
			continue
		}
		// Conversion-skipped documents keep a fingerprint too; only content
		// drift retriggers a build for them.
		if fingerprint, err := utils.FileFingerprint(ref.Path); err == nil {
			fingerprints[ref.Path] = fingerprint
		}
	}

	s.valid = true
	s.dirty = false
	s.builtAt = time.Now().UTC()
	s.chunkCount = len(chunks)
	s.fingerprints = fingerprints

	log.Printf("Index rebuilt: %d chunks from %d documents", len(chunks), len(records))
	return nil
}
