package services

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
	"github.com/custodia-labs/daisytext/internal/normaliser"
	"github.com/custodia-labs/daisytext/internal/segmenter"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyInputPDF          = "paths.input_pdf"
	keyImagesDir         = "paths.images_dir"
	keyRawText           = "paths.raw_text"
	keyCleanText         = "paths.clean_text"
	keySegments          = "paths.segments"
	keyOCRLanguage       = "ocr.language"
	keyOCRPageSegMode    = "ocr.page_seg_mode"
	keyOCRDPI            = "ocr.dpi"
	keyOCRWorkers        = "ocr.workers"
	keyOCRPagesPerSecond = "ocr.pages_per_second"
	keyRemovePatterns    = "cleaning.remove_patterns"
	keyUnicodeForm       = "cleaning.unicode_form"
	keyMaxNewlines       = "cleaning.max_consecutive_newlines"
	keyStrategy          = "segmentation.strategy"
	keyMinLength         = "segmentation.min_length"
	keySkipRasterise     = "execution.skip_rasterise"
	keySkipOCR           = "execution.skip_ocr"
	keySkipCleaning      = "execution.skip_cleaning"
	keySkipSegmentation  = "execution.skip_segmentation"
	keyArchiveEnabled    = "archive.enabled"
	keyArchiveDir        = "archive.dir"
)

// EnvPrefix prefixes environment overrides: "ocr.dpi" is read from
// DAISYTEXT_OCR_DPI.
const EnvPrefix = "DAISYTEXT_"

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var keyKinds = map[string]valueKind{
	keyInputPDF:          kindString,
	keyImagesDir:         kindString,
	keyRawText:           kindString,
	keyCleanText:         kindString,
	keySegments:          kindString,
	keyOCRLanguage:       kindString,
	keyOCRPageSegMode:    kindInt,
	keyOCRDPI:            kindInt,
	keyOCRWorkers:        kindInt,
	keyOCRPagesPerSecond: kindFloat,
	keyRemovePatterns:    kindList,
	keyUnicodeForm:       kindString,
	keyMaxNewlines:       kindInt,
	keyStrategy:          kindString,
	keyMinLength:         kindInt,
	keySkipRasterise:     kindBool,
	keySkipOCR:           kindBool,
	keySkipCleaning:      kindBool,
	keySkipSegmentation:  kindBool,
	keyArchiveEnabled:    kindBool,
	keyArchiveDir:        kindString,
}

// EnvKey returns the environment variable that overrides key.
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.LookupEnv as the source of overrides.
// Pass nil to disable environment overrides.
func WithEnvLookup(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) {
		s.lookupEnv = lookup
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
	validate    *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
		validate:    newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("unicodeform", func(fl validator.FieldLevel) bool {
		return domain.UnicodeForm(fl.Field().String()).IsValid()
	})
	return v
}

// Get retrieves current application settings.
// Stored values override defaults and environment variables override both.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	r := &reader{store: s.configStore, lookupEnv: s.lookupEnv}

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			InputPDF:  r.str(keyInputPDF, defaults.Paths.InputPDF),
			ImagesDir: r.str(keyImagesDir, defaults.Paths.ImagesDir),
			RawText:   r.str(keyRawText, defaults.Paths.RawText),
			CleanText: r.str(keyCleanText, defaults.Paths.CleanText),
			Segments:  r.str(keySegments, defaults.Paths.Segments),
		},
		OCR: domain.OCRSettings{
			Language:       r.str(keyOCRLanguage, defaults.OCR.Language),
			PageSegMode:    r.integer(keyOCRPageSegMode, defaults.OCR.PageSegMode),
			DPI:            r.integer(keyOCRDPI, defaults.OCR.DPI),
			Workers:        r.integer(keyOCRWorkers, defaults.OCR.Workers),
			PagesPerSecond: r.float(keyOCRPagesPerSecond, defaults.OCR.PagesPerSecond),
		},
		Cleaning: domain.CleaningSettings{
			RemovePatterns:         r.list(keyRemovePatterns, defaults.Cleaning.RemovePatterns),
			UnicodeForm:            domain.ParseUnicodeForm(r.str(keyUnicodeForm, defaults.Cleaning.UnicodeForm.String())),
			MaxConsecutiveNewlines: r.integer(keyMaxNewlines, defaults.Cleaning.MaxConsecutiveNewlines),
		},
		Segmentation: domain.SegmentationSettings{
			Strategy:  domain.ParseStrategy(r.str(keyStrategy, defaults.Segmentation.Strategy.String())),
			MinLength: r.integer(keyMinLength, defaults.Segmentation.MinLength),
		},
		Execution: domain.ExecutionSettings{
			SkipRasterise:    r.boolean(keySkipRasterise, defaults.Execution.SkipRasterise),
			SkipOCR:          r.boolean(keySkipOCR, defaults.Execution.SkipOCR),
			SkipCleaning:     r.boolean(keySkipCleaning, defaults.Execution.SkipCleaning),
			SkipSegmentation: r.boolean(keySkipSegmentation, defaults.Execution.SkipSegmentation),
		},
		Archive: domain.ArchiveSettings{
			Enabled: r.boolean(keyArchiveEnabled, defaults.Archive.Enabled),
			Dir:     r.str(keyArchiveDir, defaults.Archive.Dir),
		},
	}

	if r.err != nil {
		return nil, r.err
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyInputPDF:          settings.Paths.InputPDF,
		keyImagesDir:         settings.Paths.ImagesDir,
		keyRawText:           settings.Paths.RawText,
		keyCleanText:         settings.Paths.CleanText,
		keySegments:          settings.Paths.Segments,
		keyOCRLanguage:       settings.OCR.Language,
		keyOCRPageSegMode:    settings.OCR.PageSegMode,
		keyOCRDPI:            settings.OCR.DPI,
		keyOCRWorkers:        settings.OCR.Workers,
		keyOCRPagesPerSecond: settings.OCR.PagesPerSecond,
		keyRemovePatterns:    settings.Cleaning.RemovePatterns,
		keyUnicodeForm:       settings.Cleaning.UnicodeForm.String(),
		keyMaxNewlines:       settings.Cleaning.MaxConsecutiveNewlines,
		keyStrategy:          settings.Segmentation.Strategy.String(),
		keyMinLength:         settings.Segmentation.MinLength,
		keySkipRasterise:     settings.Execution.SkipRasterise,
		keySkipOCR:           settings.Execution.SkipOCR,
		keySkipCleaning:      settings.Execution.SkipCleaning,
		keySkipSegmentation:  settings.Execution.SkipSegmentation,
		keyArchiveEnabled:    settings.Archive.Enabled,
		keyArchiveDir:        settings.Archive.Dir,
	}

	for _, key := range s.Keys() {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return s.configStore.Save()
}

// Set parses value according to the type of key and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return domain.NewConfigError(key, "unknown setting")
	}

	parsed, err := parseValue(key, kind, value)
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Validate checks the current settings and returns the first violation.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.ValidateSettings(settings)
}

// ValidateSettings checks settings without reading the store.
func (s *SettingsService) ValidateSettings(settings *domain.AppSettings) error {
	if err := s.validate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return translateFieldError(fieldErrs[0])
		}
		return fmt.Errorf("validate settings: %w", err)
	}

	// Patterns are compiled here so bad ones fail before any work starts.
	if _, err := normaliser.NewConfig(settings.Cleaning); err != nil {
		return err
	}
	if _, err := segmenter.NewConfig(settings.Segmentation); err != nil {
		return err
	}
	return nil
}

// Warnings returns non-fatal configuration problems.
func (s *SettingsService) Warnings() []string {
	settings, err := s.Get()
	if err != nil {
		return nil
	}

	var warnings []string
	if _, fallback := settings.Segmentation.Strategy.Resolve(); fallback {
		warnings = append(warnings, fmt.Sprintf(
			"%s %q is not recognised; falling back to %s",
			keyStrategy, settings.Segmentation.Strategy, domain.StrategySentence))
	}
	return warnings
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys returns every recognised setting key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for key := range keyKinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func translateFieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gte":
		reason = fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		reason = fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "unicodeform":
		reason = fmt.Sprintf("%q is not one of NFC, NFD, NFKC, NFKD", fe.Value())
	default:
		reason = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return domain.NewConfigError(field, reason)
}

func parseValue(key string, kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, domain.NewConfigError(key, fmt.Sprintf("%q is not an integer", value))
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, domain.NewConfigError(key, fmt.Sprintf("%q is not a number", value))
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, domain.NewConfigError(key, fmt.Sprintf("%q is not a boolean", value))
		}
		return b, nil
	case kindList:
		return splitList(value), nil
	default:
		return value, nil
	}
}

// splitList splits a newline separated list, skipping empty entries.
// Newlines are used because patterns routinely contain commas and pipes.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, "\n") {
		if item = strings.TrimRight(item, "\r"); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// reader resolves a key from the environment, then the store, then the
// default. The first parse failure is kept in err.
type reader struct {
	store     driven.ConfigStore
	lookupEnv func(string) (string, bool)
	err       error
}

func (r *reader) env(key string) (string, bool) {
	if r.lookupEnv == nil {
		return "", false
	}
	return r.lookupEnv(EnvKey(key))
}

func (r *reader) fromEnv(key string, kind valueKind) (any, bool) {
	raw, ok := r.env(key)
	if !ok {
		return nil, false
	}
	v, err := parseValue(EnvKey(key), kind, raw)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return nil, false
	}
	return v, true
}

func (r *reader) str(key, defaultVal string) string {
	if v, ok := r.fromEnv(key, kindString); ok {
		return v.(string)
	}
	if val := r.store.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (r *reader) integer(key string, defaultVal int) int {
	if v, ok := r.fromEnv(key, kindInt); ok {
		return v.(int)
	}
	if _, exists := r.store.Get(key); !exists {
		return defaultVal
	}
	return r.store.GetInt(key)
}

func (r *reader) float(key string, defaultVal float64) float64 {
	if v, ok := r.fromEnv(key, kindFloat); ok {
		return v.(float64)
	}
	if _, exists := r.store.Get(key); !exists {
		return defaultVal
	}
	return r.store.GetFloat(key)
}

func (r *reader) boolean(key string, defaultVal bool) bool {
	if v, ok := r.fromEnv(key, kindBool); ok {
		return v.(bool)
	}
	if _, exists := r.store.Get(key); !exists {
		return defaultVal
	}
	return r.store.GetBool(key)
}

func (r *reader) list(key string, defaultVal []string) []string {
	if v, ok := r.fromEnv(key, kindList); ok {
		return v.([]string)
	}
	if _, exists := r.store.Get(key); !exists {
		return defaultVal
	}
	return r.store.GetStringSlice(key)
}
