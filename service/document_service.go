package service

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/thiiagovboas/eureca-assistant/types"
	"github.com/thiiagovboas/eureca-assistant/utils"
)

// DocumentStore owns the configured knowledge-base documents. It converts
// them to plain text, fingerprints them for change detection and keeps the
// latest usable snapshot in memory. A missing file fails the whole refresh;
// documents that merely fail conversion are skipped so one corrupt file
// never takes down the rest of the knowledge base.
type DocumentStore struct {
	mu        sync.RWMutex
	refs      []types.DocumentRef
	converter Converter
	records   map[string]types.DocumentRecord
	loadedAt  time.Time
}

func NewDocumentStore(refs []types.DocumentRef, converter Converter) *DocumentStore {
	normalized := make([]types.DocumentRef, len(refs))
	for i, ref := range refs {
		if ref.ID == "" {
			ref.ID = utils.FileNameWithoutExt(ref.Path)
		}
		normalized[i] = ref
	}
	return &DocumentStore{
		refs:      normalized,
		converter: converter,
	}
}

// Refs returns the configured documents in configuration order.
func (s *DocumentStore) Refs() []types.DocumentRef {
	refs := make([]types.DocumentRef, len(s.refs))
	copy(refs, s.refs)
	return refs
}

// IDs returns the configured document IDs in configuration order. Retrieval
// output is assembled in this order, so it must be stable across calls.
func (s *DocumentStore) IDs() []string {
	ids := make([]string, 0, len(s.refs))
	for _, ref := range s.refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// LoadOrRefresh converts every configured document and replaces the
// in-memory snapshot with the result. Any missing file aborts the refresh
// with a MissingDocumentError naming it. Unconvertible documents are logged
// and skipped; when not a single one is usable the previous snapshot is
// kept and ErrNoDocumentsLoaded is returned.
func (s *DocumentStore) LoadOrRefresh(ctx context.Context) (map[string]types.DocumentRecord, error) {
	for _, ref := range s.refs {
		if _, err := os.Stat(ref.Path); err != nil {
			return nil, &types.MissingDocumentError{ID: ref.ID, Path: ref.Path}
		}
	}

	records := make(map[string]types.DocumentRecord)
	for _, ref := range s.refs {
		text, err := s.converter.Convert(ctx, ref.Path)
		if err != nil {
			log.Printf("Warning: failed to convert document %q: %v", ref.ID, err)
			continue
		}

		fingerprint, err := utils.FileFingerprint(ref.Path)
		if err != nil {
			log.Printf("Warning: failed to fingerprint document %q: %v", ref.ID, err)
			continue
		}

		records[ref.ID] = types.DocumentRecord{
			ID:          ref.ID,
			Path:        ref.Path,
			Text:        text,
			Fingerprint: fingerprint,
			ProcessedAt: time.Now().UTC(),
		}
	}

	if len(records) == 0 {
		return nil, types.ErrNoDocumentsLoaded
	}

	s.mu.Lock()
	s.records = records
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	return s.Records(), nil
}

// Records returns a copy of the latest usable snapshot. Empty until the
// first successful LoadOrRefresh.
func (s *DocumentStore) Records() map[string]types.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[string]types.DocumentRecord, len(s.records))
	for id, record := range s.records {
		records[id] = record
	}
	return records
}

// Status reports the on-disk state of every configured document without
// touching the snapshot.
func (s *DocumentStore) Status() []types.DocumentStatus {
	statuses := make([]types.DocumentStatus, 0, len(s.refs))
	for _, ref := range s.refs {
		status := types.DocumentStatus{ID: ref.ID, Path: ref.Path}
		if _, err := os.Stat(ref.Path); err == nil {
			status.Present = true
			if fingerprint, err := utils.FileFingerprint(ref.Path); err == nil {
				status.Fingerprint = fingerprint
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
