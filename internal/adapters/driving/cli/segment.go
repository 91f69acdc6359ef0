package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var (
	segmentOut  string
	segmentJSON bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file|-]",
	Short: "Split clean text into segments",
	Long: `Split clean text into sentences or paragraphs according to
segmentation.strategy, dropping segments shorter than
segmentation.min_length characters.

Reads paths.clean_text when no file is given, or standard input for "-".
Prints one segment per line unless --out is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentOut, "out", "o", "", "write the segments to this file, one per line")
	segmentCmd.Flags().BoolVar(&segmentJSON, "json", false, "output segments as a JSON array")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	path, err := inputPath(args, func(p domain.PathSettings) string { return p.CleanText })
	if err != nil {
		return err
	}
	text, err := readText(cmd, path)
	if err != nil {
		return err
	}

	segments, err := pipelineService.Segment(text)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}

	if segmentOut != "" {
		if err := requireFiles(); err != nil {
			return err
		}
		if err := textStore.WriteSegments(segmentOut, segments); err != nil {
			return fmt.Errorf("writing %s: %w", segmentOut, err)
		}
		cmd.Printf("Saved %d segments to %s\n", len(segments), segmentOut)
		return nil
	}

	if segmentJSON {
		return outputSegmentsJSON(cmd, segments)
	}
	out := cmd.OutOrStdout()
	for _, s := range segments {
		fmt.Fprintln(out, s)
	}
	return nil
}

func outputSegmentsJSON(cmd *cobra.Command, segments []string) error {
	if segments == nil {
		segments = []string{}
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal segments: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
