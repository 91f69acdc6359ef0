package normaliser

import (
	"regexp"
	"strings"
	"unicode"
)

// Stage names, in contract order.
const (
	StageLineFilter = "line_filter"
	StageArtifacts  = "artifacts"
	StageUnicode    = "unicode"
	StageWhitespace = "whitespace"
)

// nonSpace matches one character that is not whitespace in the broad Unicode
// sense: ASCII space characters, vertical tab, the information separators
// U+001C-U+001F, NEL and every Z category code point.
const nonSpace = `[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	urlToken        = regexp.MustCompile(`(?:http|www\.)` + nonSpace + `+`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLineRuns   = regexp.MustCompile(`(?:\n\s*\n)+`)

	artifactChars = strings.NewReplacer("\ufeff", "", "\f", "")
)

// LineFilter drops every line matched by one of the configured noise
// patterns. Lines are split and rejoined on "\n" only.
func LineFilter(cfg *Config) Stage {
	return NewStage(StageLineFilter, func(text string) string {
		if len(cfg.patterns) == 0 {
			return text
		}
		lines := strings.Split(text, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if !cfg.matchesNoise(line) {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n")
	})
}

// ArtifactStripper removes byte-order marks, form feeds and URL tokens.
func ArtifactStripper() Stage {
	return NewStage(StageArtifacts, func(text string) string {
		text = artifactChars.Replace(text)
		return urlToken.ReplaceAllLiteralString(text, "")
	})
}

// UnicodeCanonicaliser converts text to the configured normal form.
func UnicodeCanonicaliser(cfg *Config) Stage {
	form := normForm(cfg.form)
	return NewStage(StageUnicode, func(text string) string {
		return form.String(text)
	})
}

// WhitespaceRegulariser collapses spaces and tabs, trims every line and
// replaces each run of blank lines with exactly the configured number of
// newlines.
func WhitespaceRegulariser(cfg *Config) Stage {
	separator := strings.Repeat("\n", cfg.maxNewlines)
	return NewStage(StageWhitespace, func(text string) string {
		text = horizontalSpace.ReplaceAllLiteralString(text, " ")

		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimFunc(line, isSpace)
		}
		text = strings.Join(lines, "\n")

		return blankLineRuns.ReplaceAllLiteralString(text, separator)
	})
}

// isSpace reports whether r is trimmed from line ends.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
