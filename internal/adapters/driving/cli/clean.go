package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var (
	cleanStage      string
	cleanOut        string
	cleanListStages bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file|-]",
	Short: "Normalise OCR text",
	Long: `Clean raw OCR text: drop header and footer lines, strip artifacts and
URLs, apply Unicode normalisation and regularise whitespace.

Reads paths.raw_text when no file is given, or standard input for "-".
Prints the result unless --out is set.

Use --stage to apply a single cleaning stage when tuning patterns.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanStage, "stage", "s", "", "apply only this cleaning stage")
	cleanCmd.Flags().StringVarP(&cleanOut, "out", "o", "", "write the clean text to this file")
	cleanCmd.Flags().BoolVar(&cleanListStages, "list-stages", false, "list the cleaning stages in order")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	if cleanListStages {
		for i, stage := range pipelineService.Stages() {
			cmd.Printf("%d. %s\n", i+1, stage)
		}
		return nil
	}

	path, err := inputPath(args, func(p domain.PathSettings) string { return p.RawText })
	if err != nil {
		return err
	}
	raw, err := readText(cmd, path)
	if err != nil {
		return err
	}

	var clean string
	if cleanStage != "" {
		clean, err = pipelineService.CleanStage(raw, cleanStage)
	} else {
		clean, err = pipelineService.Clean(raw)
	}
	if err != nil {
		return fmt.Errorf("cleaning failed: %w", err)
	}

	if cleanOut == "" {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, clean)
		if clean != "" && !strings.HasSuffix(clean, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	}

	if err := requireFiles(); err != nil {
		return err
	}
	if err := textStore.WriteText(cleanOut, clean); err != nil {
		return fmt.Errorf("writing %s: %w", cleanOut, err)
	}
	cmd.Printf("Cleaned %d -> %d characters, saved to %s\n",
		domain.CharCount(raw), domain.CharCount(clean), cleanOut)
	return nil
}
