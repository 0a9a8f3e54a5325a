package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// ExtractInput is the input schema for the extract_ips tool.
type ExtractInput struct {
	Kind     string `json:"kind,omitempty" jsonschema:"source kind: pdf, image or website (inferred from the location when empty)"`
	Location string `json:"location" jsonschema:"file path for pdf and image, http(s) URL for website"`
	Report   bool   `json:"report,omitempty" jsonschema:"also post the result to the configured webhook"`
}

// ExtractOutput is the output schema for the extract_ips tool.
type ExtractOutput struct {
	RunID         string          `json:"run_id"`
	Source        string          `json:"source"`
	Count         int             `json:"count"`
	Addresses     []AddressOutput `json:"addresses"`
	Reported      bool            `json:"reported"`
	DeliveryError string          `json:"delivery_error,omitempty"`
}

// AddressOutput represents one extracted address.
type AddressOutput struct {
	Address string `json:"address"`
	Family  string `json:"family"`
	Origin  string `json:"origin"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_ips",
		Description: "Extract the unique IPv4 and IPv6 addresses from a PDF, an image or a website",
	}, s.handleExtract)
}

// handleExtract handles the extract_ips tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	source, err := descriptorFor(input)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	var (
		result      *domain.ResultSet
		deliveryErr error
		reported    bool
	)
	if input.Report && s.ports.Tracker != nil {
		result, err = s.ports.Tracker.Track(ctx, source, domain.TrackOptions{})
		if errors.Is(err, domain.ErrDeliveryFailed) && result != nil {
			deliveryErr, err = err, nil
		}
		reported = err == nil && deliveryErr == nil && s.webhookConfigured()
	} else {
		result, err = s.ports.Pipeline.Run(ctx, source)
	}
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	s.remember(result)

	output := toOutput(result)
	output.Reported = reported
	if deliveryErr != nil {
		output.DeliveryError = deliveryErr.Error()
	}
	return nil, output, nil
}

// webhookConfigured reports whether a default webhook endpoint is set.
// Without a settings port delivery is assumed to have happened.
func (s *Server) webhookConfigured() bool {
	if s.ports.Settings == nil {
		return true
	}
	settings, err := s.ports.Settings.Get()
	return err == nil && settings.Webhook.IsConfigured()
}

// descriptorFor builds the source descriptor, inferring the kind from the
// location when none was given.
func descriptorFor(input ExtractInput) (domain.SourceDescriptor, error) {
	if input.Location == "" {
		return domain.SourceDescriptor{}, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if input.Kind != "" {
		return domain.NewSourceDescriptor(input.Kind, input.Location), nil
	}
	kind, ok := domain.KindForLocation(input.Location)
	if !ok {
		return domain.SourceDescriptor{}, fmt.Errorf("%w: cannot infer kind of %q, set kind", domain.ErrInvalidInput, input.Location)
	}
	return domain.NewSourceDescriptor(kind.String(), input.Location), nil
}

func toOutput(result *domain.ResultSet) ExtractOutput {
	output := ExtractOutput{
		RunID:     result.RunID,
		Source:    result.Source.Label(),
		Count:     result.Len(),
		Addresses: make([]AddressOutput, len(result.Addresses)),
	}
	for i, a := range result.Addresses {
		output.Addresses[i] = AddressOutput{
			Address: a.Address,
			Family:  string(a.Family),
			Origin:  a.Origin,
		}
	}
	return output
}
