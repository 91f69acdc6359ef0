package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for daisytext resources.
	uriScheme = "daisytext://"
)

// runInfo is the JSON shape of an archived run.
type runInfo struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Strategy     string    `json:"strategy"`
	UnicodeForm  string    `json:"unicode_form"`
	RawChars     int       `json:"raw_chars"`
	CleanChars   int       `json:"clean_chars"`
	SegmentCount int       `json:"segment_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Warnings     []string  `json:"warnings,omitempty"`
	Segments     []string  `json:"segments,omitempty"`
}

func newRunInfo(run domain.Run) runInfo {
	return runInfo{
		ID:           run.ID,
		Source:       run.Source,
		Strategy:     run.Strategy.String(),
		UnicodeForm:  run.UnicodeForm.String(),
		RawChars:     run.RawChars,
		CleanChars:   run.CleanChars,
		SegmentCount: run.SegmentCount,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Archived pipeline runs, most recent first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "An archived run with its segments",
		MIMEType:    "application/json",
	}, s.handleRunResource)

	// Template for the segments of a run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}/segments",
		Name:        "run-segments",
		Description: "Segments of an archived run, one per line",
		MIMEType:    "text/plain",
	}, s.handleSegmentsResource)
}

// handleRunsResource returns a list of all archived runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return textResult(req.Params.URI, "application/json", "[]"), nil
	}

	runs, err := s.ports.Runs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = newRunInfo(runs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleRunResource returns a single run including its segments.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	result, err := s.lookupRun(ctx, req.Params.URI, extractRunID(req.Params.URI))
	if err != nil {
		return nil, err
	}

	info := newRunInfo(result.Run)
	info.Warnings = result.Warnings
	info.Segments = result.Segments

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleSegmentsResource returns the segments of a run, one per line.
func (s *Server) handleSegmentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	result, err := s.lookupRun(ctx, req.Params.URI, extractSegmentsRunID(req.Params.URI))
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, seg := range result.Segments {
		b.WriteString(seg)
		b.WriteByte('\n')
	}
	return textResult(req.Params.URI, "text/plain", b.String()), nil
}

func (s *Server) lookupRun(ctx context.Context, uri, runID string) (*domain.RunResult, error) {
	if s.ports.Runs == nil || runID == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	result, err := s.ports.Runs.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return result, nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like daisytext://runs/{runId}.
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

// extractSegmentsRunID extracts the run ID from a URI like daisytext://runs/{runId}/segments.
func extractSegmentsRunID(uri string) string {
	const prefix = uriScheme + "runs/"
	const suffix = "/segments"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
