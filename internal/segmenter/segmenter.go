package segmenter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter splits clean text into segments.
// It is immutable after construction and safe for concurrent use.
type Segmenter struct {
	config *Config
	split  splitter
}

// New creates a Segmenter for cfg.
func New(cfg *Config) *Segmenter {
	return &Segmenter{
		config: cfg,
		split:  splitterFor(cfg.strategy),
	}
}

// Segment returns the trimmed units of text that are non-empty and at
// least MinLength code points long, in source order. It never fails.
func (s *Segmenter) Segment(text string) []string {
	segments := []string{}
	if text == "" {
		return segments
	}

	for _, unit := range s.split(text) {
		unit = strings.TrimFunc(unit, isSpace)
		if unit == "" {
			continue
		}
		if utf8.RuneCountInString(unit) < s.config.minLength {
			continue
		}
		segments = append(segments, unit)
	}
	return segments
}

// Config returns the segmentation configuration.
func (s *Segmenter) Config() *Config {
	return s.config
}

// Segment is a convenience wrapper that segments text with cfg.
func Segment(text string, cfg *Config) []string {
	return New(cfg).Segment(text)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
