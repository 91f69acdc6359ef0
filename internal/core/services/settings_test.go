package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// envMap returns an environment lookup backed by a map.
func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func newTestSettings(store *memory.ConfigStore, env map[string]string) *SettingsService {
	return NewSettingsService(store, WithEnvLookup(envMap(env)))
}

func requireConfigError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected *domain.ConfigError, got %T", err)
	assert.Equal(t, field, cfgErr.Field)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("paths.input_pdf", "scans/book.pdf")
	_ = store.Set("ocr.language", "vie+eng")
	_ = store.Set("ocr.workers", int64(4))
	_ = store.Set("ocr.pages_per_second", 1.5)
	_ = store.Set("cleaning.unicode_form", "NFKC")
	_ = store.Set("cleaning.max_consecutive_newlines", int64(0))
	_ = store.Set("cleaning.remove_patterns", []any{`^\s*-\s*\d+\s*-\s*$`})
	_ = store.Set("segmentation.strategy", " paragraph ")
	_ = store.Set("segmentation.min_length", int64(0))
	_ = store.Set("execution.skip_ocr", true)
	_ = store.Set("archive.enabled", false)

	settings, err := newTestSettings(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, "scans/book.pdf", settings.Paths.InputPDF)
	assert.Equal(t, "vie+eng", settings.OCR.Language)
	assert.Equal(t, 4, settings.OCR.Workers)
	assert.Equal(t, 1.5, settings.OCR.PagesPerSecond)
	assert.Equal(t, domain.UnicodeFormNFKC, settings.Cleaning.UnicodeForm)
	assert.Equal(t, 0, settings.Cleaning.MaxConsecutiveNewlines)
	assert.Equal(t, []string{`^\s*-\s*\d+\s*-\s*$`}, settings.Cleaning.RemovePatterns)
	assert.Equal(t, domain.StrategyParagraph, settings.Segmentation.Strategy)
	assert.Equal(t, 0, settings.Segmentation.MinLength)
	assert.True(t, settings.Execution.SkipOCR)
	assert.False(t, settings.Archive.Enabled)
}

func TestSettingsService_Get_EmptyPatternListIsKept(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("cleaning.remove_patterns", []any{})

	settings, err := newTestSettings(store, nil).Get()

	require.NoError(t, err)
	assert.Empty(t, settings.Cleaning.RemovePatterns)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("ocr.dpi", int64(200))
	_ = store.Set("segmentation.strategy", "paragraph")

	service := newTestSettings(store, map[string]string{
		"DAISYTEXT_OCR_DPI":                  "600",
		"DAISYTEXT_OCR_PAGES_PER_SECOND":     "0.5",
		"DAISYTEXT_SEGMENTATION_STRATEGY":    "sentence",
		"DAISYTEXT_EXECUTION_SKIP_RASTERISE": "true",
		"DAISYTEXT_CLEANING_REMOVE_PATTERNS": "^a$\n^b$\n",
	})

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 600, settings.OCR.DPI)
	assert.Equal(t, 0.5, settings.OCR.PagesPerSecond)
	assert.Equal(t, domain.StrategySentence, settings.Segmentation.Strategy)
	assert.True(t, settings.Execution.SkipRasterise)
	assert.Equal(t, []string{"^a$", "^b$"}, settings.Cleaning.RemovePatterns)
}

func TestSettingsService_Get_BadEnvironmentValue(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), map[string]string{
		"DAISYTEXT_OCR_WORKERS": "many",
	})

	_, err := service.Get()

	requireConfigError(t, err, "DAISYTEXT_OCR_WORKERS")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "DAISYTEXT_CLEANING_UNICODE_FORM", EnvKey("cleaning.unicode_form"))
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	settings := domain.DefaultAppSettings()
	settings.OCR.DPI = 450
	settings.Cleaning.UnicodeForm = domain.UnicodeFormNFD
	settings.Segmentation.Strategy = domain.StrategyParagraph
	settings.Execution.SkipCleaning = true

	require.NoError(t, service.Save(&settings))

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *retrieved)
	assert.Equal(t, service.Keys(), store.Keys())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{"ocr.dpi", "400", func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 400, s.OCR.DPI) }},
		{"ocr.pages_per_second", "2.5", func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 2.5, s.OCR.PagesPerSecond) }},
		{"execution.skip_ocr", "true", func(t *testing.T, s *domain.AppSettings) { assert.True(t, s.Execution.SkipOCR) }},
		{"cleaning.unicode_form", "NFKD", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.UnicodeFormNFKD, s.Cleaning.UnicodeForm)
		}},
		{"cleaning.remove_patterns", "^x$\n^y$", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, []string{"^x$", "^y$"}, s.Cleaning.RemovePatterns)
		}},
		{"paths.segments", "out/seg.txt", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "out/seg.txt", s.Paths.Segments)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := newTestSettings(memory.NewConfigStore(), nil)

			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	requireConfigError(t, service.Set("cleaning.colour", "x"), "cleaning.colour")
	requireConfigError(t, service.Set("ocr.dpi", "high"), "ocr.dpi")
	requireConfigError(t, service.Set("ocr.pages_per_second", "fast"), "ocr.pages_per_second")
	requireConfigError(t, service.Set("archive.enabled", "sometimes"), "archive.enabled")
}

func TestSettingsService_Validate_Defaults(t *testing.T) {
	assert.NoError(t, newTestSettings(memory.NewConfigStore(), nil).Validate())
}

func TestSettingsService_Validate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"bad unicode form", "cleaning.unicode_form", "NFX", "cleaning.unicode_form"},
		{"lower case unicode form", "cleaning.unicode_form", "nfkc", "cleaning.unicode_form"},
		{"negative newlines", "cleaning.max_consecutive_newlines", -1, "cleaning.max_consecutive_newlines"},
		{"negative min length", "segmentation.min_length", -3, "segmentation.min_length"},
		{"dpi too low", "ocr.dpi", 10, "ocr.dpi"},
		{"no workers", "ocr.workers", 0, "ocr.workers"},
		{"page seg mode", "ocr.page_seg_mode", 14, "ocr.page_seg_mode"},
		{"negative rate", "ocr.pages_per_second", -1.0, "ocr.pages_per_second"},
		{"malformed pattern", "cleaning.remove_patterns", []string{`ok`, `[unclosed`}, "cleaning.remove_patterns[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			_ = store.Set(tt.key, tt.value)

			err := newTestSettings(store, nil).Validate()

			requireConfigError(t, err, tt.field)
		})
	}
}

func TestSettingsService_Warnings(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)
	assert.Empty(t, service.Warnings())

	_ = store.Set("segmentation.strategy", "chapter")

	warnings := service.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"chapter"`)
	assert.Contains(t, warnings[0], "sentence")
	assert.NoError(t, service.Validate(), "unknown strategy is not a configuration error")
}

func TestSettingsService_StrategyCaseIsSignificant(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("segmentation.strategy", "PARAGRAPH")
	service := newTestSettings(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.Strategy("PARAGRAPH"), settings.Segmentation.Strategy)

	resolved, fellBack := settings.Segmentation.Strategy.Resolve()
	assert.Equal(t, domain.StrategySentence, resolved)
	assert.True(t, fellBack)

	warnings := service.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"PARAGRAPH"`)
	assert.NoError(t, service.Validate())
}

func TestSettingsService_Validate_LowerCaseUnicodeFormFromEnv(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), map[string]string{
		"DAISYTEXT_CLEANING_UNICODE_FORM": "nfkc",
	})

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.UnicodeForm("nfkc"), settings.Cleaning.UnicodeForm)

	requireConfigError(t, service.Validate(), "cleaning.unicode_form")
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	keys := service.Keys()
	assert.Len(t, keys, 21)
	assert.Contains(t, keys, "cleaning.remove_patterns")
	assert.IsIncreasing(t, keys)
	assert.Equal(t, ":memory:", service.Path())
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
