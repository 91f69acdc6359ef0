package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Rasterise and recognise the configured document",
	Long: `Rasterise paths.input_pdf and recognise every page, writing the
joined page texts to paths.raw_text. Pages are separated by a blank line.

Requires a build with the "ocr" tag and Tesseract installed.`,
	Args: cobra.NoArgs,
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	raw, err := pipelineService.Recognise(cmd.Context())
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	cmd.Printf("Recognised %d characters from %s\n", domain.CharCount(raw), settings.Paths.InputPDF)
	cmd.Printf("Raw text saved to %s\n", settings.Paths.RawText)
	return nil
}
