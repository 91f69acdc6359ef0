package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/daisytext/internal/adapters/driving/tui"
)

var browseRunID string

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var browseCmd = &cobra.Command{
	Use:   "browse [segments-file]",
	Short: "Browse segments in the terminal",
	Long: `Open an interactive browser over a segments file or an archived run.

Without arguments the archived runs are listed. When stdout is not a
terminal the segments are printed as a numbered list instead.

Controls:
  ↑/k, ↓/j - Navigate
  /        - Filter segments
  Enter    - Open run
  Esc      - Clear filter / back to runs
  ?        - Help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseRunID, "run", "r", "", "browse the segments of this archived run")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	title, segments, warnings, loaded, err := browseSource(cmd, args)
	if err != nil {
		return err
	}

	if !isTerminal() {
		if !loaded {
			return runRunsList(cmd, nil)
		}
		for i, s := range segments {
			cmd.Printf("%5d  %s\n", i+1, s)
		}
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	var opts []tui.Option
	if loaded {
		opts = append(opts, tui.WithSegments(title, segments, warnings))
	}
	app, err := tui.NewApp(tui.NewPorts(runService), opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// browseSource loads the segments named by --run or the file argument.
// loaded is false when neither was given and the run list should open.
func browseSource(cmd *cobra.Command, args []string) (title string, segments, warnings []string, loaded bool, err error) {
	switch {
	case browseRunID != "":
		if err := requireRuns(); err != nil {
			return "", nil, nil, false, err
		}
		result, err := runService.Get(cmd.Context(), browseRunID)
		if err != nil {
			return "", nil, nil, false, fmt.Errorf("failed to get run %s: %w", browseRunID, err)
		}
		title = fmt.Sprintf("Run %s  %s", result.Run.ID, result.Run.Source)
		return title, result.Segments, result.Warnings, true, nil

	case len(args) > 0:
		if err := requireFiles(); err != nil {
			return "", nil, nil, false, err
		}
		segments, err := textStore.ReadSegments(args[0])
		if err != nil {
			return "", nil, nil, false, fmt.Errorf("reading %s: %w", args[0], err)
		}
		return args[0], segments, nil, true, nil
	}

	if err := requireRuns(); err != nil {
		return "", nil, nil, false, err
	}
	return "", nil, nil, false, nil
}
