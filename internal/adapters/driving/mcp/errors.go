// Package mcp provides an MCP (Model Context Protocol) server adapter for
// iptrace. It lets AI assistants run extractions and read recent results.
package mcp

import "errors"

// ErrMissingPipeline is returned when the pipeline is not provided.
var ErrMissingPipeline = errors.New("mcp: pipeline is required")
