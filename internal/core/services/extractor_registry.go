package services

import (
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
)

// ExtractorRegistry maps source kinds to extractors.
type ExtractorRegistry struct {
	mu         sync.RWMutex
	extractors map[domain.SourceKind]driven.Extractor
}

// NewExtractorRegistry creates a registry holding the given extractors.
func NewExtractorRegistry(extractors ...driven.Extractor) *ExtractorRegistry {
	r := &ExtractorRegistry{
		extractors: make(map[domain.SourceKind]driven.Extractor),
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor, replacing any previous one for the same kind.
func (r *ExtractorRegistry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Kind()] = e
}

// Get returns the extractor for kind.
func (r *ExtractorRegistry) Get(kind domain.SourceKind) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSourceKind, kind)
	}
	return e, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *ExtractorRegistry) Kinds() []domain.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.SourceKind, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
