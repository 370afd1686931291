package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiiagovboas/eureca-assistant/types"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDocumentStoreLoadOrRefresh(t *testing.T) {
	dir := t.TempDir()
	manualPath := writeDoc(t, dir, "manual.txt", "texto do manual do aprendiz")
	sobrePath := writeDoc(t, dir, "sobre.txt", "texto sobre a eureca")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: manualPath},
		{ID: "sobre_eureca", Path: sobrePath},
	}, NewDocumentConverter())

	records, err := store.LoadOrRefresh(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "texto do manual do aprendiz", records["manual"].Text)
	assert.NotEmpty(t, records["manual"].Fingerprint)
	assert.False(t, records["manual"].ProcessedAt.IsZero())

	assert.Equal(t, []string{"manual", "sobre_eureca"}, store.IDs())
}

func TestDocumentStoreDerivesMissingIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "Manual_lei_de_aprendizagem.txt", "texto do manual")

	store := NewDocumentStore([]types.DocumentRef{{Path: path}}, NewDocumentConverter())
	assert.Equal(t, []string{"Manual_lei_de_aprendizagem"}, store.IDs())
}

func TestDocumentStoreFailsOnMissingDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "manual.txt", "texto do manual")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: filepath.Join(dir, "manual.txt")},
		{ID: "fantasma", Path: filepath.Join(dir, "nao-existe.txt")},
	}, NewDocumentConverter())

	_, err := store.LoadOrRefresh(context.Background())
	var missing *types.MissingDocumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "fantasma", missing.ID)
	assert.Empty(t, store.Records())
}

func TestDocumentStoreSkipsUnconvertibleDocuments(t *testing.T) {
	dir := t.TempDir()
	manualPath := writeDoc(t, dir, "manual.txt", "texto do manual")
	vazioPath := writeDoc(t, dir, "vazio.txt", "")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: manualPath},
		{ID: "vazio", Path: vazioPath},
	}, NewDocumentConverter())

	records, err := store.LoadOrRefresh(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	_, ok := records["vazio"]
	assert.False(t, ok)
}

func TestDocumentStoreNoUsableDocuments(t *testing.T) {
	dir := t.TempDir()
	vazioPath := writeDoc(t, dir, "vazio.txt", "")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "vazio", Path: vazioPath},
	}, NewDocumentConverter())

	_, err := store.LoadOrRefresh(context.Background())
	assert.ErrorIs(t, err, types.ErrNoDocumentsLoaded)
	assert.Empty(t, store.Records())
}

func TestDocumentStoreKeepsPreviousSnapshotOnFailedRefresh(t *testing.T) {
	dir := t.TempDir()
	manualPath := writeDoc(t, dir, "manual.txt", "texto do manual")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: manualPath},
	}, NewDocumentConverter())

	_, err := store.LoadOrRefresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(manualPath))
	_, err = store.LoadOrRefresh(context.Background())
	var missing *types.MissingDocumentError
	require.ErrorAs(t, err, &missing)

	// Previous snapshot still answers reads.
	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "texto do manual", records["manual"].Text)
}

func TestDocumentStoreStatus(t *testing.T) {
	dir := t.TempDir()
	manualPath := writeDoc(t, dir, "manual.txt", "texto do manual")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: manualPath},
		{ID: "fantasma", Path: filepath.Join(dir, "nao-existe.txt")},
	}, NewDocumentConverter())

	statuses := store.Status()
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Present)
	assert.NotEmpty(t, statuses[0].Fingerprint)
	assert.False(t, statuses[1].Present)
	assert.Empty(t, statuses[1].Fingerprint)
}

func TestDocumentStoreFingerprintTracksContent(t *testing.T) {
	dir := t.TempDir()
	manualPath := writeDoc(t, dir, "manual.txt", "versão um")

	store := NewDocumentStore([]types.DocumentRef{
		{ID: "manual", Path: manualPath},
	}, NewDocumentConverter())

	records, err := store.LoadOrRefresh(context.Background())
	require.NoError(t, err)
	first := records["manual"].Fingerprint

	require.NoError(t, os.WriteFile(manualPath, []byte("versão dois"), 0644))
	records, err = store.LoadOrRefresh(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, records["manual"].Fingerprint)
}
