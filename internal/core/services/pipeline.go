package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
	"github.com/custodia-labs/daisytext/internal/logger"
	"github.com/custodia-labs/daisytext/internal/normaliser"
	"github.com/custodia-labs/daisytext/internal/segmenter"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService orchestrates rasterisation, recognition, cleaning and
// segmentation.
type PipelineService struct {
	settings      driving.SettingsService
	textStore     driven.TextStore
	rasteriser    driven.Rasteriser
	engineFactory driven.RecognitionEngineFactory
	runStore      driven.RunStore
	now           func() time.Time
	newID         func() string
}

// PipelineOption configures a PipelineService.
type PipelineOption func(*PipelineService)

// WithRasteriser sets the page rasteriser.
func WithRasteriser(r driven.Rasteriser) PipelineOption {
	return func(s *PipelineService) {
		s.rasteriser = r
	}
}

// WithRecognitionEngine sets the factory used to create the OCR engine.
func WithRecognitionEngine(f driven.RecognitionEngineFactory) PipelineOption {
	return func(s *PipelineService) {
		s.engineFactory = f
	}
}

// WithRunStore enables archiving of completed runs.
func WithRunStore(store driven.RunStore) PipelineOption {
	return func(s *PipelineService) {
		s.runStore = store
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) PipelineOption {
	return func(s *PipelineService) {
		s.now = now
	}
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(newID func() string) PipelineOption {
	return func(s *PipelineService) {
		s.newID = newID
	}
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(
	settings driving.SettingsService,
	textStore driven.TextStore,
	opts ...PipelineOption,
) *PipelineService {
	s := &PipelineService{
		settings:  settings,
		textStore: textStore,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the full pipeline and archives the result.
func (s *PipelineService) Run(ctx context.Context) (*domain.RunResult, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	cleanCfg, segCfg, err := compile(settings)
	if err != nil {
		return nil, err
	}

	result := &domain.RunResult{
		Run: domain.Run{
			ID:          s.newID(),
			Source:      settings.Paths.InputPDF,
			Strategy:    segCfg.Strategy(),
			UnicodeForm: cleanCfg.UnicodeForm(),
			StartedAt:   s.now(),
		},
	}

	raw, err := s.rawText(ctx, settings, result)
	if err != nil {
		return nil, err
	}
	result.RawText = raw

	logger.Section("Cleaning")
	clean, err := s.cleanText(settings, cleanCfg, raw, result)
	if err != nil {
		return nil, err
	}
	result.CleanText = clean

	logger.Section("Segmentation")
	segments, err := s.segments(settings, segCfg, clean, result)
	if err != nil {
		return nil, err
	}
	result.Segments = segments

	s.finish(result)
	s.archive(ctx, settings, result)

	logger.Info("run %s: %d raw chars, %d clean chars, %d segments",
		result.Run.ID, result.Run.RawChars, result.Run.CleanChars, result.Run.SegmentCount)
	return result, nil
}

// Recognise rasterises and recognises the configured document and saves
// the raw text.
func (s *PipelineService) Recognise(ctx context.Context) (string, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return "", err
	}

	raw, _, err := s.recognise(ctx, settings)
	if err != nil {
		return "", err
	}
	if err := s.textStore.WriteText(settings.Paths.RawText, raw); err != nil {
		return "", fmt.Errorf("save raw text: %w", err)
	}
	return raw, nil
}

// Clean normalises text with the current cleaning settings.
func (s *PipelineService) Clean(text string) (string, error) {
	cfg, err := s.cleaningConfig()
	if err != nil {
		return "", err
	}
	return normaliser.New(cfg).Clean(text), nil
}

// CleanStage applies a single named cleaning stage.
func (s *PipelineService) CleanStage(text, stage string) (string, error) {
	cfg, err := s.cleaningConfig()
	if err != nil {
		return "", err
	}
	p, err := normaliser.DefaultRegistry().BuildPipeline(cfg, stage)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return p.Run(text), nil
}

// Stages returns the cleaning stage names in execution order.
func (s *PipelineService) Stages() []string {
	return normaliser.DefaultStageOrder()
}

// Segment splits clean text with the current segmentation settings.
func (s *PipelineService) Segment(text string) ([]string, error) {
	cfg, err := s.segmentationConfig()
	if err != nil {
		return nil, err
	}
	return segmenter.New(cfg).Segment(text), nil
}

// Process cleans and segments text without touching any files.
func (s *PipelineService) Process(text string) (*domain.RunResult, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	cleanCfg, segCfg, err := compile(settings)
	if err != nil {
		return nil, err
	}

	result := &domain.RunResult{
		Run: domain.Run{
			ID:          s.newID(),
			Strategy:    segCfg.Strategy(),
			UnicodeForm: cleanCfg.UnicodeForm(),
			StartedAt:   s.now(),
		},
		RawText: text,
	}
	if segCfg.Fallback() {
		result.Warnings = append(result.Warnings, fallbackWarning(segCfg))
	}

	result.CleanText = normaliser.New(cleanCfg).Clean(text)
	result.Segments = segmenter.New(segCfg).Segment(result.CleanText)
	s.finish(result)
	return result, nil
}

func (s *PipelineService) loadSettings() (*domain.AppSettings, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *PipelineService) cleaningConfig() (*normaliser.Config, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	return normaliser.NewConfig(settings.Cleaning)
}

func (s *PipelineService) segmentationConfig() (*segmenter.Config, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	cfg, err := segmenter.NewConfig(settings.Segmentation)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback() {
		logger.Warn("%s", fallbackWarning(cfg))
	}
	return cfg, nil
}

func compile(settings *domain.AppSettings) (*normaliser.Config, *segmenter.Config, error) {
	cleanCfg, err := normaliser.NewConfig(settings.Cleaning)
	if err != nil {
		return nil, nil, err
	}
	segCfg, err := segmenter.NewConfig(settings.Segmentation)
	if err != nil {
		return nil, nil, err
	}
	return cleanCfg, segCfg, nil
}

func fallbackWarning(cfg *segmenter.Config) string {
	return fmt.Sprintf("segmentation strategy %q is not recognised; using %s",
		cfg.Requested(), cfg.Strategy())
}

// rawText produces the raw text, either by recognition or by loading the
// output of an earlier run when OCR is skipped.
func (s *PipelineService) rawText(ctx context.Context, settings *domain.AppSettings, result *domain.RunResult) (string, error) {
	if settings.Execution.SkipOCR {
		logger.Section("Recognition (skipped)")
		raw, err := s.textStore.ReadText(settings.Paths.RawText)
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("ocr skipped but raw text %s does not exist: %w", settings.Paths.RawText, err)
		}
		if err != nil {
			return "", fmt.Errorf("load raw text: %w", err)
		}
		result.Run.Source = settings.Paths.RawText
		logger.Info("loaded raw text from %s", settings.Paths.RawText)
		return raw, nil
	}

	raw, warnings, err := s.recognise(ctx, settings)
	if err != nil {
		return "", err
	}
	result.Warnings = append(result.Warnings, warnings...)

	if err := s.textStore.WriteText(settings.Paths.RawText, raw); err != nil {
		return "", fmt.Errorf("save raw text: %w", err)
	}
	logger.Info("saved raw text to %s", settings.Paths.RawText)
	return raw, nil
}

func (s *PipelineService) recognise(ctx context.Context, settings *domain.AppSettings) (string, []string, error) {
	pages, err := s.pageImages(ctx, settings)
	if err != nil {
		return "", nil, err
	}

	logger.Section("Recognition")
	if s.engineFactory == nil {
		return "", nil, domain.ErrOCRNotEnabled
	}
	engine, err := s.engineFactory(settings.OCR)
	if err != nil {
		return "", nil, fmt.Errorf("create recognition engine: %w", err)
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn("close recognition engine: %v", cerr)
		}
	}()

	var warnings []string
	if err := engine.Check(ctx); err != nil {
		logger.Warn("recognition engine check: %v", err)
		warnings = append(warnings, fmt.Sprintf("recognition engine check: %v", err))
	}
	logger.Debug("recognition engine %s, language %s, %d workers",
		engine.Version(), settings.OCR.Language, settings.OCR.Workers)

	pool := NewRecognitionPool(engine, settings.OCR)
	texts, pageWarnings, err := pool.Recognise(ctx, pages)
	if err != nil {
		return "", nil, err
	}
	warnings = append(warnings, pageWarnings...)

	return domain.JoinPages(texts), warnings, nil
}

func (s *PipelineService) pageImages(ctx context.Context, settings *domain.AppSettings) ([]domain.PageImage, error) {
	if settings.Execution.SkipRasterise {
		logger.Section("Rasterisation (skipped)")
		pages, err := s.textStore.PageImages(settings.Paths.ImagesDir)
		if err != nil {
			return nil, fmt.Errorf("rasterisation skipped but no page images in %s: %w",
				settings.Paths.ImagesDir, err)
		}
		logger.Info("reusing %d page images from %s", len(pages), settings.Paths.ImagesDir)
		return pages, nil
	}

	logger.Section("Rasterisation")
	if s.rasteriser == nil {
		return nil, domain.ErrRasteriserUnavailable
	}
	if !s.textStore.Exists(settings.Paths.InputPDF) {
		return nil, fmt.Errorf("input document %s: %w", settings.Paths.InputPDF, domain.ErrNotFound)
	}

	pages, err := s.rasteriser.Rasterise(ctx, settings.Paths.InputPDF, settings.Paths.ImagesDir, settings.OCR.DPI)
	if err != nil {
		return nil, fmt.Errorf("rasterise %s: %w", settings.Paths.InputPDF, err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("rasterise %s: %w", settings.Paths.InputPDF, domain.ErrNoPages)
	}
	logger.Info("rasterised %d pages at %d DPI", len(pages), settings.OCR.DPI)
	return pages, nil
}

// cleanText cleans raw text, or reuses the clean text of an earlier run
// when cleaning is skipped and that file exists.
func (s *PipelineService) cleanText(
	settings *domain.AppSettings,
	cfg *normaliser.Config,
	raw string,
	result *domain.RunResult,
) (string, error) {
	if settings.Execution.SkipCleaning {
		clean, err := s.textStore.ReadText(settings.Paths.CleanText)
		switch {
		case err == nil:
			logger.Info("loaded clean text from %s", settings.Paths.CleanText)
			return clean, nil
		case errors.Is(err, domain.ErrNotFound):
			msg := fmt.Sprintf("cleaning skipped but %s does not exist; cleaning anyway", settings.Paths.CleanText)
			logger.Warn("%s", msg)
			result.Warnings = append(result.Warnings, msg)
		default:
			return "", fmt.Errorf("load clean text: %w", err)
		}
	}

	clean := normaliser.New(cfg).Clean(raw)
	if err := s.textStore.WriteText(settings.Paths.CleanText, clean); err != nil {
		return "", fmt.Errorf("save clean text: %w", err)
	}
	logger.Info("saved clean text to %s", settings.Paths.CleanText)
	return clean, nil
}

// segments splits clean text, or reuses the segments of an earlier run
// when segmentation is skipped and that file exists.
func (s *PipelineService) segments(
	settings *domain.AppSettings,
	cfg *segmenter.Config,
	clean string,
	result *domain.RunResult,
) ([]string, error) {
	if cfg.Fallback() {
		msg := fallbackWarning(cfg)
		logger.Warn("%s", msg)
		result.Warnings = append(result.Warnings, msg)
	}

	if settings.Execution.SkipSegmentation {
		segments, err := s.textStore.ReadSegments(settings.Paths.Segments)
		switch {
		case err == nil:
			logger.Info("loaded %d segments from %s", len(segments), settings.Paths.Segments)
			return segments, nil
		case errors.Is(err, domain.ErrNotFound):
			msg := fmt.Sprintf("segmentation skipped but %s does not exist; segmenting anyway", settings.Paths.Segments)
			logger.Warn("%s", msg)
			result.Warnings = append(result.Warnings, msg)
		default:
			return nil, fmt.Errorf("load segments: %w", err)
		}
	}

	segments := segmenter.New(cfg).Segment(clean)
	if err := s.textStore.WriteSegments(settings.Paths.Segments, segments); err != nil {
		return nil, fmt.Errorf("save segments: %w", err)
	}
	logger.Info("saved %d segments to %s", len(segments), settings.Paths.Segments)
	return segments, nil
}

func (s *PipelineService) finish(result *domain.RunResult) {
	result.Run.RawChars = domain.CharCount(result.RawText)
	result.Run.CleanChars = domain.CharCount(result.CleanText)
	result.Run.SegmentCount = len(result.Segments)
	result.Run.FinishedAt = s.now()
}

// archive stores the run. Archive failures are logged, never fatal.
func (s *PipelineService) archive(ctx context.Context, settings *domain.AppSettings, result *domain.RunResult) {
	if s.runStore == nil || !settings.Archive.Enabled {
		return
	}
	if err := s.runStore.SaveRun(ctx, result); err != nil {
		msg := fmt.Sprintf("archive run %s: %v", result.Run.ID, err)
		logger.Warn("%s", msg)
		result.Warnings = append(result.Warnings, msg)
		return
	}
	logger.Debug("archived run %s", result.Run.ID)
}
