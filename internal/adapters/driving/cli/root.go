// Package cli implements the daisytext command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
	"github.com/custodia-labs/daisytext/internal/core/ports/driving"
	"github.com/custodia-labs/daisytext/internal/core/services"
	"github.com/custodia-labs/daisytext/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	envFile   string
	overrides []string
)

// Services injected by main or by the service factory.
var (
	pipelineService driving.PipelineService
	settingsService driving.SettingsService
	runService      driving.RunService
	textStore       driven.TextStore
	closeServices   func() error
)

// Services bundles the dependencies used by the commands.
type Services struct {
	Pipeline driving.PipelineService
	Settings driving.SettingsService
	Runs     driving.RunService
	Files    driven.TextStore

	// Close releases resources such as the archive database.
	Close func() error
}

// ServiceFactory builds the services once flags are parsed, so that
// --config-dir and --set take effect.
type ServiceFactory func(configDir string) (*Services, error)

var serviceFactory ServiceFactory

var rootCmd = &cobra.Command{
	Use:   "daisytext",
	Short: "Turn scanned documents into clean, segmented text",
	Long: `daisytext prepares OCR output for DAISY talking-book production.

It rasterises a scanned PDF, recognises each page with Tesseract, then
normalises the text and splits it into sentences or paragraphs.

Configuration is read from ~/.daisytext/config.toml. Any key can be
overridden with a DAISYTEXT_<SECTION>_<KEY> environment variable, a .env
file, or --set key=value.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.daisytext)")
	flags.StringVar(&envFile, "env-file", "", "load environment overrides from this file (default .env if present)")
	flags.StringArrayVar(&overrides, "set", nil, "override a setting for this invocation (key=value, repeatable)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		pipelineService, settingsService, runService, textStore, closeServices = nil, nil, nil, nil, nil
		return
	}
	pipelineService = s.Pipeline
	settingsService = s.Settings
	runService = s.Runs
	textStore = s.Files
	closeServices = s.Close
}

// SetServiceFactory registers a factory that builds the services before
// each command runs.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	if err := applyOverrides(overrides); err != nil {
		return err
	}

	if serviceFactory == nil {
		return nil
	}
	s, err := serviceFactory(configDir)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(s)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	return closer()
}

// loadEnvFile loads path, or ./.env when path is empty and the file exists.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	logger.Debug("loaded environment from %s", path)
	return nil
}

// applyOverrides exports key=value pairs as DAISYTEXT_ variables so the
// settings service picks them up.
func applyOverrides(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		if err := os.Setenv(services.EnvKey(key), value); err != nil {
			return fmt.Errorf("applying --set %s: %w", key, err)
		}
		logger.Debug("override %s=%s", key, value)
	}
	return nil
}
