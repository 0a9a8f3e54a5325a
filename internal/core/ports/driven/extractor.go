package driven

import (
	"context"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Extractor turns a source location into RawTextUnits.
// Each extractor handles exactly one source kind.
type Extractor interface {
	// Kind returns the source kind this extractor handles.
	Kind() domain.SourceKind

	// Extract reads the source at location and returns its text units in
	// traversal order (e.g. pages in document order).
	// Local read failures wrap domain.ErrSourceUnreadable; network failures
	// wrap domain.ErrSourceUnreachable. Units with no text are allowed.
	Extract(ctx context.Context, location string) ([]domain.RawTextUnit, error)
}
