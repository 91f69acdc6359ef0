package driving

import "github.com/custodia-labs/daisytext/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults and
	// environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Validate checks the current settings and returns the first violation
	// as a *domain.ConfigError.
	Validate() error

	// Warnings returns non-fatal configuration problems.
	Warnings() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys returns every recognised setting key.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
