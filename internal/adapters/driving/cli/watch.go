package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/watch"
	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [raw-file]",
	Short: "Re-clean and re-segment when the raw text changes",
	Long: `Watch the raw text file (paths.raw_text by default) and, whenever it
changes, clean and segment it again into paths.clean_text and
paths.segments. Useful while correcting OCR output by hand.

Stops on Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "wait this long after the last change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	if err := requireFiles(); err != nil {
		return err
	}
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	path := settings.Paths.RawText
	if len(args) > 0 {
		path = args[0]
	}

	process := func(_ context.Context) error {
		return reprocess(cmd, path, settings.Paths)
	}

	// Process once so the outputs match the file before the first edit.
	if textStore.Exists(path) {
		if err := process(cmd.Context()); err != nil {
			return err
		}
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", path)
	w := watch.New(path, watchDebounce, process)
	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return nil
}

// reprocess cleans and segments path into the configured outputs.
func reprocess(cmd *cobra.Command, path string, paths domain.PathSettings) error {
	raw, err := textStore.ReadText(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := pipelineService.Process(raw)
	if err != nil {
		return fmt.Errorf("processing %s: %w", path, err)
	}

	if err := textStore.WriteText(paths.CleanText, result.CleanText); err != nil {
		return fmt.Errorf("writing %s: %w", paths.CleanText, err)
	}
	if err := textStore.WriteSegments(paths.Segments, result.Segments); err != nil {
		return fmt.Errorf("writing %s: %w", paths.Segments, err)
	}

	cmd.Printf("[%s] %d characters, %d segments\n",
		time.Now().Format("15:04:05"), result.Run.CleanChars, len(result.Segments))
	return nil
}
