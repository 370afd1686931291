package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("conteúdo"), 0o644))

	first, err := FileFingerprint(path)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	again, err := FileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte("conteúdo alterado"), 0o644))
	changed, err := FileFingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestFileFingerprintMissingFile(t *testing.T) {
	_, err := FileFingerprint(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "Manual_lei_de_aprendizagem", FileNameWithoutExt("/docs/Manual_lei_de_aprendizagem.pdf"))
	assert.Equal(t, "notes", FileNameWithoutExt("notes.txt"))
	assert.Equal(t, "plain", FileNameWithoutExt("plain"))
}
