package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

// stdinArg reads input from standard input instead of a file.
const stdinArg = "-"

func requirePipeline() error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	return nil
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func requireFiles() error {
	if textStore == nil {
		return errors.New("file store not configured")
	}
	return nil
}

func requireRuns() error {
	if runService == nil {
		return errors.New("run archive not configured")
	}
	return nil
}

// currentSettings returns the effective settings.
func currentSettings() (*domain.AppSettings, error) {
	if err := requireSettings(); err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// inputPath picks the positional argument or, without one, the configured
// path selected by fallback.
func inputPath(args []string, fallback func(domain.PathSettings) string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	settings, err := currentSettings()
	if err != nil {
		return "", err
	}
	return fallback(settings.Paths), nil
}

// readText loads path, or standard input when path is "-".
func readText(cmd *cobra.Command, path string) (string, error) {
	if path == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}
	if err := requireFiles(); err != nil {
		return "", err
	}
	text, err := textStore.ReadText(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return text, nil
}
