// Command daisytext turns scanned documents into clean, segmented text.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/daisytext/cgo/tesseract"
	"github.com/custodia-labs/daisytext/internal/adapters/driven/config/file"
	"github.com/custodia-labs/daisytext/internal/adapters/driven/raster/pdftoppm"
	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/daisytext/internal/adapters/driven/storage/textfile"
	"github.com/custodia-labs/daisytext/internal/adapters/driving/cli"
	"github.com/custodia-labs/daisytext/internal/core/services"
	"github.com/custodia-labs/daisytext/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the adapters into the core services.
func buildServices(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening configuration: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	// Bad values are reported by the commands that use them, so that
	// "config set" can still repair them.
	archive := settingsService.GetDefaults().Archive
	if settings, err := settingsService.Get(); err == nil {
		archive = settings.Archive
	}

	files := textfile.NewOsStore()
	opts := []services.PipelineOption{
		services.WithRasteriser(pdftoppm.New()),
		services.WithRecognitionEngine(tesseract.New),
	}
	if !tesseract.Enabled {
		logger.Debug("built without the ocr tag; recognition is unavailable")
	}

	s := &cli.Services{
		Settings: settingsService,
		Files:    files,
	}

	// The archive is opened even when archiving is disabled so earlier
	// runs stay browsable.
	dataDir := archive.Dir
	if dataDir == "" {
		dataDir = filepath.Join(filepath.Dir(configStore.Path()), "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("run archive unavailable: %v", err)
	} else {
		opts = append(opts, services.WithRunStore(store.RunStore()))
		s.Runs = services.NewRunService(store.RunStore())
		s.Close = store.Close
	}

	s.Pipeline = services.NewPipelineService(settingsService, files, opts...)
	return s, nil
}
