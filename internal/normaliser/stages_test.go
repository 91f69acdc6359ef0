package normaliser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

func testConfig(maxNewlines int, patterns ...string) *Config {
	return MustConfig(domain.CleaningSettings{
		RemovePatterns:         patterns,
		UnicodeForm:            domain.UnicodeFormNFC,
		MaxConsecutiveNewlines: maxNewlines,
	})
}

func TestLineFilter(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		input    string
		want     string
	}{
		{
			name:     "no patterns",
			patterns: nil,
			input:    "a\nb",
			want:     "a\nb",
		},
		{
			name:     "drops matching line",
			patterns: []string{`Page \d+ of \d+`},
			input:    "Page 1 of 10\nHello",
			want:     "Hello",
		},
		{
			name:     "any pattern matches",
			patterns: []string{`^\s*\d+\s*$`, `^Trang \d+$`},
			input:    "one\n  42 \ntwo\ntrang 7\nthree",
			want:     "one\ntwo\nthree",
		},
		{
			name:     "search not anchored",
			patterns: []string{`confidential`},
			input:    "keep\nThis is CONFIDENTIAL material\nkeep too",
			want:     "keep\nkeep too",
		},
		{
			name:     "all lines dropped",
			patterns: []string{`.*`},
			input:    "a\nb",
			want:     "",
		},
		{
			name:     "carriage return stays on line",
			patterns: []string{`^x$`},
			input:    "x\r\ny",
			want:     "x\r\ny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := LineFilter(testConfig(2, tt.patterns...))
			assert.Equal(t, StageLineFilter, stage.Name())
			assert.Equal(t, tt.want, stage.Apply(tt.input))
		})
	}
}

func TestArtifactStripper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bom", "\ufeffHello", "Hello"},
		{"form feed", "page one\fpage two", "page onepage two"},
		{"http url", "see http://example.com/a?b=c now", "see  now"},
		{"https url", "https://x.org", ""},
		{"www url", "visit www.example.vn.", "visit "},
		{"url ends at newline", "http://a.b\nnext", "\nnext"},
		{"url ends at no-break space", "http://a.b\u00a0next", "\u00a0next"},
		{"bare http prefix kept", "http", "http"},
		{"www without dot kept", "wwwords", "wwwords"},
		{"url inside word", "xhttp://y z", "x z"},
		{"plain text", "Xin chào", "Xin chào"},
	}

	stage := ArtifactStripper()
	assert.Equal(t, StageArtifacts, stage.Name())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stage.Apply(tt.input))
		})
	}
}

func TestUnicodeCanonicaliser(t *testing.T) {
	decomposed := "Tie\u0302\u0301ng"
	composed := "Tiếng"

	tests := []struct {
		form  domain.UnicodeForm
		input string
		want  string
	}{
		{domain.UnicodeFormNFC, decomposed, composed},
		{domain.UnicodeFormNFD, composed, decomposed},
		{domain.UnicodeFormNFKC, "\ufb01le", "file"},
		{domain.UnicodeFormNFKD, "\u00bd", "1\u20442"},
		{domain.UnicodeFormNFC, "\ufb01le", "\ufb01le"},
	}

	for _, tt := range tests {
		t.Run(tt.form.String(), func(t *testing.T) {
			cfg := MustConfig(domain.CleaningSettings{UnicodeForm: tt.form})
			stage := UnicodeCanonicaliser(cfg)
			assert.Equal(t, StageUnicode, stage.Name())
			assert.Equal(t, tt.want, stage.Apply(tt.input))
		})
	}
}

func TestWhitespaceRegulariser(t *testing.T) {
	tests := []struct {
		name  string
		max   int
		input string
		want  string
	}{
		{"collapse spaces and tabs", 2, "a  \t b", "a b"},
		{"trim lines", 2, "  a  \n\tb\t", "a\nb"},
		{"single newline kept", 1, "a\nb", "a\nb"},
		{"blank run to one", 1, "a\n\n\n\nb", "a\nb"},
		{"blank run to two", 2, "a\n\n\n\nb", "a\n\nb"},
		{"whitespace-only lines collapse", 2, "a\n   \n \t \nb", "a\n\nb"},
		{"zero removes breaks", 0, "a\n\nb", "ab"},
		{"paragraph already bounded", 2, "a\n\nb", "a\n\nb"},
		{"expands to max", 3, "a\n\nb", "a\n\n\nb"},
		{"no-break space trimmed", 2, "\u00a0a\u00a0", "a"},
		{"empty", 2, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := WhitespaceRegulariser(testConfig(tt.max))
			assert.Equal(t, StageWhitespace, stage.Name())
			assert.Equal(t, tt.want, stage.Apply(tt.input))
		})
	}
}
