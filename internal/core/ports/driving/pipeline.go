package driving

import (
	"context"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Pipeline extracts, scans and deduplicates the addresses in one source.
type Pipeline interface {
	// Run executes one extraction run. On failure it returns a
	// *domain.RunError naming the failed stage and no ResultSet.
	Run(ctx context.Context, source domain.SourceDescriptor) (*domain.ResultSet, error)

	// Kinds returns the source kinds that can be dispatched.
	Kinds() []domain.SourceKind
}

// TrackService runs the pipeline and hands the result to the reporter.
type TrackService interface {
	// Track runs the pipeline for source and delivers the result according
	// to opts. When delivery fails the ResultSet is still returned together
	// with an error wrapping domain.ErrDeliveryFailed.
	Track(ctx context.Context, source domain.SourceDescriptor, opts domain.TrackOptions) (*domain.ResultSet, error)
}
