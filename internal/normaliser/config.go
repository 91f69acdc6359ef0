package normaliser

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/logger"
)

// patternTimeout bounds a single noise-pattern match against one line.
// A timed-out match counts as no match, so the line is kept. The first
// timeout per Config is logged as a warning.
const patternTimeout = 250 * time.Millisecond

// Config is a compiled, immutable cleaning configuration.
// It is safe for concurrent use.
type Config struct {
	patterns    []*regexp2.Regexp
	sources     []string
	form        domain.UnicodeForm
	maxNewlines int

	timeoutOnce sync.Once
}

// NewConfig validates settings and compiles the noise patterns.
// Patterns use Perl/Python-style syntax (lookaround and backreferences are
// allowed) and always match case-insensitively.
func NewConfig(settings domain.CleaningSettings) (*Config, error) {
	if !settings.UnicodeForm.IsValid() {
		return nil, domain.NewConfigError("cleaning.unicode_form",
			fmt.Sprintf("%q is not one of NFC, NFD, NFKC, NFKD", settings.UnicodeForm))
	}
	if settings.MaxConsecutiveNewlines < 0 {
		return nil, domain.NewConfigError("cleaning.max_consecutive_newlines",
			fmt.Sprintf("must be >= 0, got %d", settings.MaxConsecutiveNewlines))
	}

	cfg := &Config{
		patterns:    make([]*regexp2.Regexp, 0, len(settings.RemovePatterns)),
		sources:     make([]string, 0, len(settings.RemovePatterns)),
		form:        settings.UnicodeForm,
		maxNewlines: settings.MaxConsecutiveNewlines,
	}

	for i, pattern := range settings.RemovePatterns {
		re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, domain.NewConfigError(
				fmt.Sprintf("cleaning.remove_patterns[%d]", i),
				fmt.Sprintf("invalid pattern %q: %v", pattern, err))
		}
		re.MatchTimeout = patternTimeout
		cfg.patterns = append(cfg.patterns, re)
		cfg.sources = append(cfg.sources, pattern)
	}

	return cfg, nil
}

// MustConfig is like NewConfig but panics on error.
// It is intended for tests and package-level defaults.
func MustConfig(settings domain.CleaningSettings) *Config {
	cfg, err := NewConfig(settings)
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultConfig returns the compiled default cleaning configuration.
func DefaultConfig() *Config {
	return MustConfig(domain.DefaultAppSettings().Cleaning)
}

// Patterns returns the source text of the compiled noise patterns.
func (c *Config) Patterns() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// UnicodeForm returns the configured canonical form.
func (c *Config) UnicodeForm() domain.UnicodeForm {
	return c.form
}

// MaxConsecutiveNewlines returns the blank-line ceiling.
func (c *Config) MaxConsecutiveNewlines() int {
	return c.maxNewlines
}

// matchesNoise reports whether line matches any noise pattern.
func (c *Config) matchesNoise(line string) bool {
	for i, re := range c.patterns {
		ok, err := re.MatchString(line)
		if err != nil {
			c.timeoutOnce.Do(func() {
				logger.Warn("cleaning.remove_patterns[%d] %q: %v; keeping line", i, c.sources[i], err)
			})
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// normForm maps a validated domain form to its x/text implementation.
func normForm(form domain.UnicodeForm) norm.Form {
	switch form {
	case domain.UnicodeFormNFD:
		return norm.NFD
	case domain.UnicodeFormNFKC:
		return norm.NFKC
	case domain.UnicodeFormNFKD:
		return norm.NFKD
	default:
		return norm.NFC
	}
}
