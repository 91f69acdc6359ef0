package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// CleanInput is the input schema for the clean_text tool.
type CleanInput struct {
	Text  string `json:"text" jsonschema:"raw OCR text to normalise"`
	Stage string `json:"stage,omitempty" jsonschema:"run only this cleaning stage (line_filter, artifacts, unicode, whitespace)"`
}

// CleanOutput is the output schema for the clean_text tool.
type CleanOutput struct {
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}

// SegmentInput is the input schema for the segment_text tool.
type SegmentInput struct {
	Text string `json:"text" jsonschema:"clean text to split into segments"`
}

// SegmentOutput is the output schema for the segment_text tool.
type SegmentOutput struct {
	Segments []string `json:"segments"`
	Count    int      `json:"count"`
}

// ProcessInput is the input schema for the process_text tool.
type ProcessInput struct {
	Text string `json:"text" jsonschema:"raw OCR text to clean and segment"`
}

// ProcessOutput is the output schema for the process_text tool.
type ProcessOutput struct {
	CleanText   string   `json:"clean_text"`
	Segments    []string `json:"segments"`
	Count       int      `json:"count"`
	Strategy    string   `json:"strategy"`
	UnicodeForm string   `json:"unicode_form"`
	RawChars    int      `json:"raw_chars"`
	CleanChars  int      `json:"clean_chars"`
	Warnings    []string `json:"warnings,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clean_text",
		Description: "Normalise raw OCR text: drop header/footer lines, strip artifacts and URLs, canonicalise Unicode and regularise whitespace",
	}, s.handleClean)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "segment_text",
		Description: "Split clean text into sentences or paragraphs using the configured strategy",
	}, s.handleSegment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_text",
		Description: "Clean and segment raw OCR text in one step",
	}, s.handleProcess)
}

// handleClean handles the clean_text tool invocation.
func (s *Server) handleClean(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CleanInput,
) (*mcp.CallToolResult, CleanOutput, error) {
	var (
		text string
		err  error
	)
	if input.Stage != "" {
		text, err = s.ports.Pipeline.CleanStage(input.Text, input.Stage)
	} else {
		text, err = s.ports.Pipeline.Clean(input.Text)
	}
	if err != nil {
		return nil, CleanOutput{}, err
	}

	return nil, CleanOutput{
		Text:       text,
		Characters: domain.CharCount(text),
	}, nil
}

// handleSegment handles the segment_text tool invocation.
func (s *Server) handleSegment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SegmentInput,
) (*mcp.CallToolResult, SegmentOutput, error) {
	segments, err := s.ports.Pipeline.Segment(input.Text)
	if err != nil {
		return nil, SegmentOutput{}, err
	}
	if segments == nil {
		segments = []string{}
	}

	return nil, SegmentOutput{
		Segments: segments,
		Count:    len(segments),
	}, nil
}

// handleProcess handles the process_text tool invocation.
func (s *Server) handleProcess(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	result, err := s.ports.Pipeline.Process(input.Text)
	if err != nil {
		return nil, ProcessOutput{}, err
	}

	segments := result.Segments
	if segments == nil {
		segments = []string{}
	}

	return nil, ProcessOutput{
		CleanText:   result.CleanText,
		Segments:    segments,
		Count:       len(segments),
		Strategy:    result.Run.Strategy.String(),
		UnicodeForm: result.Run.UnicodeForm.String(),
		RawChars:    result.Run.RawChars,
		CleanChars:  result.Run.CleanChars,
		Warnings:    result.Warnings,
	}, nil
}
