package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for iptrace resources.
	uriScheme = "iptrace://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "kinds",
		Name:        "kinds",
		Description: "Source kinds that can be scanned",
		MIMEType:    "application/json",
	}, s.handleKindsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Current iptrace settings (webhook URL masked)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run-result",
		Description: "Result of a recent extract_ips run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleKindsResource lists the registered source kinds.
func (s *Server) handleKindsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type kindInfo struct {
		Kind        string `json:"kind"`
		Description string `json:"description"`
	}

	kinds := s.ports.Pipeline.Kinds()
	infos := make([]kindInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = kindInfo{Kind: k.String(), Description: k.Description()}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleSettingsResource returns the current settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	view := map[string]any{
		"webhook.url":             settings.Webhook.MaskedURL(),
		"webhook.username":        settings.Webhook.Username,
		"website.timeout_seconds": settings.Website.TimeoutSeconds,
		"website.max_body_bytes":  settings.Website.MaxBodyBytes,
		"website.user_agent":      settings.Website.UserAgent,
		"ocr.enabled":             settings.OCR.Enabled,
		"ocr.language":            settings.OCR.Language,
		"pdf.engine":              settings.PDF.Engine.String(),
		"scan.concurrency":        settings.Scan.Concurrency,
	}
	return jsonResource(req.Params.URI, view)
}

// handleRunResource returns a remembered run result.
func (s *Server) handleRunResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, ok := s.lookup(runID)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, toOutput(result))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like iptrace://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
