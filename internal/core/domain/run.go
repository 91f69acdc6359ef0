package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// PageSeparator joins per-page recognition output into RawText.
const PageSeparator = "\n\n"

// PageImage is a rasterised page produced by the page rasteriser.
type PageImage struct {
	// Number is the 1-based page number in document order.
	Number int

	// Path is the image file location.
	Path string
}

// PageText is the recognition output for a single page.
// Text is empty when recognition failed for the page.
type PageText struct {
	// Number is the 1-based page number in document order.
	Number int

	// Text is the best-effort recognised text.
	Text string
}

// JoinPages concatenates page texts in slice order.
// Empty pages keep their position; blank-line collapsing removes the gap.
func JoinPages(pages []PageText) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, PageSeparator)
}

// Run represents one archived execution of the pipeline.
type Run struct {
	// ID is the unique identifier for the run.
	ID string

	// Source describes where the raw text came from (a PDF or text file path).
	Source string

	// Strategy is the segmentation strategy actually used.
	Strategy Strategy

	// UnicodeForm is the canonical form applied during cleaning.
	UnicodeForm UnicodeForm

	// RawChars is the raw text length in code points.
	RawChars int

	// CleanChars is the clean text length in code points.
	CleanChars int

	// SegmentCount is the number of segments produced.
	SegmentCount int

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunResult carries every artefact of a pipeline run.
type RunResult struct {
	Run       Run
	RawText   string
	CleanText string
	Segments  []string

	// Warnings are non-fatal conditions met during the run
	// (empty pages, strategy fallback, missing intermediate files).
	Warnings []string
}

// CharCount returns the length of s in Unicode code points.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
