package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid run URI",
			uri:      "daisytext://runs/run-123",
			expected: "run-123",
		},
		{
			name:     "segments URI is not a run URI",
			uri:      "daisytext://runs/run-123/segments",
			expected: "",
		},
		{
			name:     "invalid prefix",
			uri:      "file://runs/run-123",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractRunID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractSegmentsRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid segments URI",
			uri:      "daisytext://runs/run-456/segments",
			expected: "run-456",
		},
		{
			name:     "missing segments suffix",
			uri:      "daisytext://runs/run-456",
			expected: "",
		},
		{
			name:     "invalid prefix",
			uri:      "file://runs/run-456/segments",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractSegmentsRunID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func testRunResult() *domain.RunResult {
	started := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	return &domain.RunResult{
		Run: domain.Run{
			ID:           "run-1",
			Source:       "input/book.pdf",
			Strategy:     domain.StrategySentence,
			UnicodeForm:  domain.UnicodeFormNFC,
			RawChars:     200,
			CleanChars:   180,
			SegmentCount: 2,
			StartedAt:    started,
			FinishedAt:   started.Add(time.Minute),
		},
		Segments: []string{"Câu thứ nhất", "Câu thứ hai"},
		Warnings: []string{"page 3: no text recognised"},
	}
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil run service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{}, nil)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("daisytext://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns runs successfully", func(t *testing.T) {
		runs := &mockRunService{runs: []domain.Run{testRunResult().Run}}
		server := newTestServer(t, &mockPipelineService{}, runs)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("daisytext://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "run-1"`)
		assert.Contains(t, result.Contents[0].Text, `"segment_count": 2`)
		assert.NotContains(t, result.Contents[0].Text, "segments\":")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		runs := &mockRunService{err: errors.New("database error")}
		server := newTestServer(t, &mockPipelineService{}, runs)

		_, err := server.handleRunsResource(ctx, makeReadResourceRequest("daisytext://runs"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing runs")
	})
}

func TestServer_handleRunResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns run with segments", func(t *testing.T) {
		runs := &mockRunService{result: testRunResult()}
		server := newTestServer(t, &mockPipelineService{}, runs)

		result, err := server.handleRunResource(ctx, makeReadResourceRequest("daisytext://runs/run-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "Câu thứ nhất")
		assert.Contains(t, result.Contents[0].Text, "page 3: no text recognised")
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		runs := &mockRunService{err: domain.ErrNotFound}
		server := newTestServer(t, &mockPipelineService{}, runs)

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("daisytext://runs/missing"))

		require.Error(t, err)
	})

	t.Run("nil run service is not found", func(t *testing.T) {
		server := newTestServer(t, &mockPipelineService{}, nil)

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("daisytext://runs/run-1"))

		require.Error(t, err)
	})

	t.Run("returns error on get failure", func(t *testing.T) {
		runs := &mockRunService{err: errors.New("disk I/O error")}
		server := newTestServer(t, &mockPipelineService{}, runs)

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("daisytext://runs/run-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting run")
	})
}

func TestServer_handleSegmentsResource(t *testing.T) {
	ctx := context.Background()

	runs := &mockRunService{result: testRunResult()}
	server := newTestServer(t, &mockPipelineService{}, runs)

	result, err := server.handleSegmentsResource(ctx, makeReadResourceRequest("daisytext://runs/run-1/segments"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	assert.Equal(t, "Câu thứ nhất\nCâu thứ hai\n", result.Contents[0].Text)
}
