package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/logger"
)

// RecognitionPool recognises pages concurrently with a bounded number of
// workers and reassembles the results in page order.
type RecognitionPool struct {
	engine  driven.RecognitionEngine
	workers int
	limiter *rate.Limiter
}

// NewRecognitionPool creates a pool for engine using the worker count and
// throttle from settings.
func NewRecognitionPool(engine driven.RecognitionEngine, settings domain.OCRSettings) *RecognitionPool {
	workers := settings.Workers
	if workers < 1 {
		workers = 1
	}

	var limiter *rate.Limiter
	if settings.PagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.PagesPerSecond), 1)
	}

	return &RecognitionPool{
		engine:  engine,
		workers: workers,
		limiter: limiter,
	}
}

// Recognise returns one PageText per input page, in input order.
// A page whose recognition fails contributes empty text and a warning;
// only cancellation of ctx aborts the whole batch.
func (p *RecognitionPool) Recognise(ctx context.Context, pages []domain.PageImage) ([]domain.PageText, []string, error) {
	results := make([]domain.PageText, len(pages))
	pageWarnings := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, page := range pages {
		g.Go(func() error {
			if p.limiter != nil {
				if err := p.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			logger.Debug("recognising page %d: %s", page.Number, page.Path)
			text, err := p.engine.Recognise(gctx, page)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("page %d: recognition failed: %v", page.Number, err)
				pageWarnings[i] = fmt.Sprintf("page %d: recognition failed: %v", page.Number, err)
				text = ""
			} else if strings.TrimSpace(text) == "" {
				logger.Warn("page %d: no text recognised", page.Number)
				pageWarnings[i] = fmt.Sprintf("page %d: no text recognised", page.Number)
			}

			results[i] = domain.PageText{Number: page.Number, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("recognise pages: %w", err)
	}

	var warnings []string
	for _, w := range pageWarnings {
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return results, warnings, nil
}
