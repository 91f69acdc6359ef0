// Package mcp provides an MCP (Model Context Protocol) server adapter for daisytext.
// It lets AI assistants clean and segment OCR text and read archived runs.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
