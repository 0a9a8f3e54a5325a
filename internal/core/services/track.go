package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Ensure TrackService implements the interface.
var _ driving.TrackService = (*TrackService)(nil)

// TrackService runs the pipeline and delivers each successful result.
type TrackService struct {
	pipeline        driving.Pipeline
	reporter        driven.Reporter
	defaultEndpoint string
	metrics         driven.MetricsRecorder
}

// NewTrackService creates a track service.
// reporter and metrics are optional; a nil reporter disables delivery.
func NewTrackService(
	pipeline driving.Pipeline,
	reporter driven.Reporter,
	defaultEndpoint string,
	metrics driven.MetricsRecorder,
) *TrackService {
	return &TrackService{
		pipeline:        pipeline,
		reporter:        reporter,
		defaultEndpoint: defaultEndpoint,
		metrics:         metrics,
	}
}

// Track runs the pipeline for source and reports the result.
// Failed runs are never reported.
func (s *TrackService) Track(
	ctx context.Context,
	source domain.SourceDescriptor,
	opts domain.TrackOptions,
) (*domain.ResultSet, error) {
	result, err := s.pipeline.Run(ctx, source)
	if err != nil {
		return nil, err
	}

	endpoint := opts.WebhookURL
	if endpoint == "" {
		endpoint = s.defaultEndpoint
	}

	if opts.SkipReport || s.reporter == nil || endpoint == "" {
		logger.Debug("run %s: delivery skipped", result.RunID)
		return result, nil
	}

	if err := s.reporter.Report(ctx, endpoint, result); err != nil {
		s.observeDelivery(driven.OutcomeFailure)
		logger.Error("delivery for %s failed: %v", source.Label(), err)
		return result, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	s.observeDelivery(driven.OutcomeSuccess)
	logger.Debug("run %s: delivered to webhook", result.RunID)
	return result, nil
}

func (s *TrackService) observeDelivery(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveDelivery(outcome)
	}
}
