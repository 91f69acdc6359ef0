package segmenter

import (
	"fmt"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// Config is a validated segmentation configuration.
type Config struct {
	requested domain.Strategy
	strategy  domain.Strategy
	fallback  bool
	minLength int
}

// NewConfig validates settings.
// An unrecognised strategy is not an error: it resolves to sentence
// segmentation and Fallback reports true so the caller can warn.
func NewConfig(settings domain.SegmentationSettings) (*Config, error) {
	if settings.MinLength < 0 {
		return nil, domain.NewConfigError("segmentation.min_length",
			fmt.Sprintf("must be >= 0, got %d", settings.MinLength))
	}

	strategy, fallback := settings.Strategy.Resolve()

	return &Config{
		requested: settings.Strategy,
		strategy:  strategy,
		fallback:  fallback,
		minLength: settings.MinLength,
	}, nil
}

// MustConfig is like NewConfig but panics on error.
func MustConfig(settings domain.SegmentationSettings) *Config {
	cfg, err := NewConfig(settings)
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultConfig returns the default segmentation configuration.
func DefaultConfig() *Config {
	return MustConfig(domain.DefaultAppSettings().Segmentation)
}

// Strategy returns the strategy in effect.
func (c *Config) Strategy() domain.Strategy {
	return c.strategy
}

// Requested returns the strategy as configured, before fallback.
func (c *Config) Requested() domain.Strategy {
	return c.requested
}

// Fallback reports whether the configured strategy was unrecognised.
func (c *Config) Fallback() bool {
	return c.fallback
}

// MinLength returns the minimum segment length in code points.
func (c *Config) MinLength() int {
	return c.minLength
}
