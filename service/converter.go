package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter turns a source file into plain text ready for chunking.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// PdftotextConverter extracts text from PDF files with the pdftotext
// utility. The whole document is extracted in one pass.
type PdftotextConverter struct{}

func NewPdftotextConverter() *PdftotextConverter {
	return &PdftotextConverter{}
}

func (c *PdftotextConverter) Convert(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", "-nopgbrk", path, "-")
	var txtOut bytes.Buffer
	cmd.Stdout = &txtOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run pdftotext on %s: %v", path, err)
	}

	text := cleanText(txtOut.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from %s", path)
	}
	return text, nil
}

// PlainTextConverter reads .txt and .md files as-is.
type PlainTextConverter struct{}

func NewPlainTextConverter() *PlainTextConverter {
	return &PlainTextConverter{}
}

func (c *PlainTextConverter) Convert(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := cleanText(string(content))
	if text == "" {
		return "", fmt.Errorf("no text extracted from %s", path)
	}
	return text, nil
}

// MultiConverter dispatches on file extension. Unknown extensions fall
// back to the plain text converter.
type MultiConverter struct {
	converters map[string]Converter
	fallback   Converter
}

func NewDocumentConverter() *MultiConverter {
	plain := NewPlainTextConverter()
	return &MultiConverter{
		converters: map[string]Converter{
			".pdf": NewPdftotextConverter(),
			".txt": plain,
			".md":  plain,
		},
		fallback: plain,
	}
}

func (m *MultiConverter) Convert(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	converter, ok := m.converters[ext]
	if !ok {
		converter = m.fallback
	}
	return converter.Convert(ctx, path)
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
