package driven

import (
	"time"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Outcome labels for metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsRecorder observes pipeline runs and deliveries.
type MetricsRecorder interface {
	// ObserveRun records one finished run. stage is StageDone on success
	// or the stage that failed.
	ObserveRun(kind domain.SourceKind, stage domain.Stage, addresses int, elapsed time.Duration)

	// ObserveDelivery records one delivery attempt.
	ObserveDelivery(outcome string)
}
