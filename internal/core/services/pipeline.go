package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
	"github.com/custodia-labs/iptrace/internal/logger"
	"github.com/custodia-labs/iptrace/internal/scanner"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline runs dispatch, extraction, scanning and deduplication for one
// source at a time. It holds no per-run state, so concurrent runs are safe.
type Pipeline struct {
	registry *ExtractorRegistry
	metrics  driven.MetricsRecorder
	now      func() time.Time
}

// NewPipeline creates a pipeline. metrics is optional.
func NewPipeline(registry *ExtractorRegistry, metrics driven.MetricsRecorder) *Pipeline {
	return &Pipeline{
		registry: registry,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Kinds returns the source kinds that can be dispatched.
func (p *Pipeline) Kinds() []domain.SourceKind {
	return p.registry.Kinds()
}

// Run executes one extraction run for source.
func (p *Pipeline) Run(ctx context.Context, source domain.SourceDescriptor) (*domain.ResultSet, error) {
	start := p.now()
	runID := uuid.New().String()

	logger.Section("Run " + source.Label())
	logger.Debug("run %s: %s", runID, domain.StageDispatch)

	extractor, err := p.registry.Get(source.Kind)
	if err != nil {
		return nil, p.fail(domain.StageDispatch, source, err, start)
	}

	logger.Debug("run %s: %s", runID, domain.StageExtracting)
	units, err := extractor.Extract(ctx, source.Location)
	if err != nil {
		return nil, p.fail(domain.StageExtracting, source, err, start)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(domain.StageExtracting, source, err, start)
	}
	logger.Debug("run %s: extracted %d units", runID, len(units))

	logger.Debug("run %s: %s", runID, domain.StageScanning)
	addresses := dedupe(units)
	logger.Debug("run %s: %s", runID, domain.StageDeduplicating)

	result := &domain.ResultSet{
		RunID:       runID,
		Source:      source,
		Addresses:   addresses,
		Units:       len(units),
		CompletedAt: p.now(),
	}

	logger.Info("run %s: %s with %d unique addresses", runID, domain.StageDone, result.Len())
	p.observe(source.Kind, domain.StageDone, result.Len(), start)
	return result, nil
}

// dedupe scans units in order and keeps the first occurrence of each
// normalised address.
func dedupe(units []domain.RawTextUnit) []domain.ValidatedAddress {
	seen := make(map[string]struct{})
	addresses := make([]domain.ValidatedAddress, 0)

	for _, unit := range units {
		for addr := range scanner.Addresses(unit) {
			if _, dup := seen[addr.Address]; dup {
				continue
			}
			seen[addr.Address] = struct{}{}
			addresses = append(addresses, addr)
		}
	}

	return addresses
}

func (p *Pipeline) fail(stage domain.Stage, source domain.SourceDescriptor, err error, start time.Time) error {
	logger.Warn("%s failed for %s: %v", stage, source.Label(), err)
	p.observe(source.Kind, stage, 0, start)
	return &domain.RunError{Stage: stage, Source: source, Err: err}
}

func (p *Pipeline) observe(kind domain.SourceKind, stage domain.Stage, addresses int, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveRun(kind, stage, addresses, p.now().Sub(start))
}
