package mcp

import (
	"net/http"

	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Pipeline runs extractions.
	Pipeline driving.Pipeline

	// Tracker runs extractions and reports them to the webhook.
	Tracker driving.TrackService

	// Settings exposes the current configuration.
	Settings driving.SettingsService

	// Metrics is served at /metrics in HTTP mode.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	// Tracker, Settings and Metrics are optional
	return nil
}
