package driven

import (
	"context"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// Reporter delivers a completed ResultSet to a notification endpoint.
// Formatting, transport and pacing are the implementation's concern.
type Reporter interface {
	// Report delivers result to endpoint. The result must not be modified.
	Report(ctx context.Context, endpoint string, result *domain.ResultSet) error
}
