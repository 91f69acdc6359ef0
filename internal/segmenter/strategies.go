package segmenter

import (
	"regexp"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// space matches one whitespace character in the broad Unicode sense.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	sentenceBoundary  = regexp.MustCompile(`[.!?;]` + space + `+`)
	paragraphBoundary = regexp.MustCompile(`\n` + space + `*\n+`)
)

// splitter breaks text into raw, untrimmed units.
type splitter func(text string) []string

func splitSentences(text string) []string {
	return sentenceBoundary.Split(text, -1)
}

func splitParagraphs(text string) []string {
	return paragraphBoundary.Split(text, -1)
}

// splitterFor returns the splitter of a resolved strategy.
func splitterFor(strategy domain.Strategy) splitter {
	if strategy == domain.StrategyParagraph {
		return splitParagraphs
	}
	return splitSentences
}
