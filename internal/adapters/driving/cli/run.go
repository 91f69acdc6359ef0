package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Run the whole pipeline on the configured document:

  1. rasterise the PDF into page images (paths.images_dir)
  2. recognise every page with Tesseract (paths.raw_text)
  3. clean the raw text (paths.clean_text)
  4. split the clean text into segments (paths.segments)

Steps can be skipped with the execution.skip_* settings to reuse the
output of an earlier run, for example:

  daisytext run --set execution.skip_ocr=true`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	result, err := pipelineService.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printSummary(cmd, result, settings.Paths)
	return nil
}

func printSummary(cmd *cobra.Command, result *domain.RunResult, paths domain.PathSettings) {
	run := result.Run

	cmd.Println("Pipeline complete")
	cmd.Println("=================")
	cmd.Printf("  Run:         %s\n", run.ID)
	cmd.Printf("  Source:      %s\n", run.Source)
	cmd.Printf("  Raw text:    %d characters (%s)\n", run.RawChars, paths.RawText)
	cmd.Printf("  Clean text:  %d characters (%s)\n", run.CleanChars, paths.CleanText)
	cmd.Printf("  Segments:    %d %s (%s)\n", run.SegmentCount, run.Strategy, paths.Segments)
	cmd.Printf("  Duration:    %s\n", run.Duration().Round(time.Millisecond))

	if len(result.Warnings) > 0 {
		cmd.Println()
		cmd.Printf("Warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}
}
