package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

var (
	runsJSON         bool
	runsShowSegments bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived pipeline runs",
	Long: `Every completed "daisytext run" is archived with its clean text and
segments when archive.enabled is true.`,
	RunE: runRunsList,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")
	runsShowCmd.Flags().BoolVar(&runsShowSegments, "segments", false, "print every segment of the run")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

// runSummary is the JSON form of an archived run.
type runSummary struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Strategy     string    `json:"strategy"`
	UnicodeForm  string    `json:"unicode_form"`
	RawChars     int       `json:"raw_chars"`
	CleanChars   int       `json:"clean_chars"`
	SegmentCount int       `json:"segment_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	if err := requireRuns(); err != nil {
		return err
	}

	runs, err := runService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if runsJSON {
		summaries := make([]runSummary, 0, len(runs))
		for i := range runs {
			summaries = append(summaries, summarise(runs[i]))
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No archived runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTRATEGY\tSEGMENTS\tSOURCE")
	for i := range runs {
		r := runs[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Strategy, r.SegmentCount, r.Source)
	}
	return w.Flush()
}

func summarise(r domain.Run) runSummary {
	return runSummary{
		ID:           r.ID,
		Source:       r.Source,
		Strategy:     r.Strategy.String(),
		UnicodeForm:  r.UnicodeForm.String(),
		RawChars:     r.RawChars,
		CleanChars:   r.CleanChars,
		SegmentCount: r.SegmentCount,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if err := requireRuns(); err != nil {
		return err
	}

	result, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run %s: %w", args[0], err)
	}

	r := result.Run
	cmd.Printf("Run %s\n", r.ID)
	cmd.Printf("  Source:       %s\n", r.Source)
	cmd.Printf("  Started:      %s\n", r.StartedAt.Local().Format(time.RFC3339))
	cmd.Printf("  Duration:     %s\n", r.Duration().Round(time.Millisecond))
	cmd.Printf("  Unicode form: %s\n", r.UnicodeForm)
	cmd.Printf("  Strategy:     %s\n", r.Strategy)
	cmd.Printf("  Characters:   %d raw, %d clean\n", r.RawChars, r.CleanChars)
	cmd.Printf("  Segments:     %d\n", r.SegmentCount)

	if len(result.Warnings) > 0 {
		cmd.Println()
		cmd.Println("Warnings:")
		for _, w := range result.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}

	if runsShowSegments {
		cmd.Println()
		for i, s := range result.Segments {
			cmd.Printf("%5d  %s\n", i+1, s)
		}
	}
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if err := requireRuns(); err != nil {
		return err
	}

	if err := runService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", args[0], err)
	}
	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}
