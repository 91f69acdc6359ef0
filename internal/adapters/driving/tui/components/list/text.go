package list

import (
	"strings"
	"unicode/utf8"
)

// Truncate shortens text to at most width runes, ending with "...".
func Truncate(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	if width <= 3 {
		return string([]rune(text)[:width])
	}
	return string([]rune(text)[:width-3]) + "..."
}

func containsFold(text, query string) bool {
	_, _, ok := matchRange(text, query)
	return ok
}

// matchRange finds the first case-insensitive occurrence of query in text
// and returns its byte range in text.
func matchRange(text, query string) (int, int, bool) {
	if query == "" {
		return 0, 0, true
	}
	qlen := utf8.RuneCountInString(query)
	for start := range text {
		end := start
		n := 0
		for end < len(text) && n < qlen {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
			n++
		}
		if n < qlen {
			return 0, 0, false
		}
		if strings.EqualFold(text[start:end], query) {
			return start, end, true
		}
	}
	return 0, 0, false
}
