package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiiagovboas/eureca-assistant/database"
	"github.com/thiiagovboas/eureca-assistant/types"
)

func newWatcherFixture(t *testing.T) (*IndexService, *DocumentWatcher, string, []byte) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "manual.txt")
	content := []byte("texto do manual de aprendizagem")
	require.NoError(t, os.WriteFile(path, content, 0644))

	store := NewDocumentStore([]types.DocumentRef{{ID: "manual", Path: path}}, NewDocumentConverter())
	indexer := NewIndexService(store, &mockEmbedder{}, database.NewMemoryIndex(), IndexConfig{
		ChunkSize:     100,
		ChunkOverlap:  20,
		CacheDuration: time.Hour,
	})
	require.NoError(t, indexer.EnsureIndex(context.Background()))
	require.True(t, indexer.Status().CacheValid)

	watcher, err := NewDocumentWatcher(store.Refs(), indexer)
	require.NoError(t, err)
	return indexer, watcher, path, content
}

func TestWatcherMarksIndexDirtyOnWrite(t *testing.T) {
	indexer, watcher, path, content := newWatcherFixture(t)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Rewriting identical bytes keeps the fingerprint stable, so only the
	// watcher can invalidate the cache here.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, content, 0644))

	require.Eventually(t, func() bool {
		return !indexer.Status().CacheValid
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresUntrackedFiles(t *testing.T) {
	indexer, watcher, path, _ := newWatcherFixture(t)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(filepath.Dir(path), "anotacoes.txt")
	require.NoError(t, os.WriteFile(other, []byte("rascunho"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.True(t, indexer.Status().CacheValid, "untracked files must not invalidate the index")
}

func TestWatcherStop(t *testing.T) {
	_, watcher, _, _ := newWatcherFixture(t)
	assert.NoError(t, watcher.Stop())
}
