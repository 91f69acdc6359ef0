package driven

import (
	"context"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// Rasteriser renders the pages of a document to images.
type Rasteriser interface {
	// Rasterise renders every page of the document at dpi into outDir.
	// Pages are returned in document order.
	Rasterise(ctx context.Context, documentPath, outDir string, dpi int) ([]domain.PageImage, error)

	// Available returns domain.ErrRasteriserUnavailable if the
	// rasteriser cannot run on this system.
	Available(ctx context.Context) error
}
