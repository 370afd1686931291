package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDocumentsLoaded signals that conversion produced zero usable
// documents. Callers may continue in degraded (keyword-fallback) mode.
var ErrNoDocumentsLoaded = errors.New("no documents could be loaded")

// ErrIndexNotReady signals a search against an index that was never built
// or was invalidated and not yet rebuilt.
var ErrIndexNotReady = errors.New("index not built")

// ValidationError reports bad caller input. It is surfaced immediately and
// never retried.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("campos obrigatórios ausentes: %s", strings.Join(e.Fields, ", "))
	}
	return e.Reason
}

// NewValidationError builds a ValidationError for a single bad input.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// MissingDocumentError reports that a tracked source document is absent
// from disk.
type MissingDocumentError struct {
	ID   string
	Path string
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("document %q not found at %s", e.ID, e.Path)
}

// IndexBuildError wraps a failure while rebuilding the retrieval index,
// such as an embedding-service error.
type IndexBuildError struct {
	Cause error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("index build failed: %v", e.Cause)
}

func (e *IndexBuildError) Unwrap() error {
	return e.Cause
}
