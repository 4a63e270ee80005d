package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cycletest/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// RunOutput is the JSON payload for a single recorded run.
type RunOutput struct {
	ID      string           `json:"id"`
	Fixture string           `json:"fixture"`
	Pass    bool             `json:"pass"`
	Seq     int64            `json:"seq"`
	Errors  []string         `json:"errors,omitempty"`
	Streams map[string][]any `json:"streams"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs or show one run",
		Long: `List runs recorded with "play --record", newest first, or show the
messages of a single run.

Exit codes:
  0 - Success
  2 - Command error (database not found, unknown run)

Examples:
  cycletest history --db runs.db
  cycletest history --db runs.db --limit 5
  cycletest history --db runs.db 01929b1e-6c4f-7a3e-9a8e-2b7c1f0d4e55`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions, args []string) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.DB))
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if len(args) == 1 {
		return showRun(cmd, out, st, args[0])
	}

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if out.JSON() {
		return out.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %-6s %s (%d messages)\n", r.Seq, r.ID, passLabel(r.Pass), r.Fixture, r.Messages)
	}
	return nil
}

func showRun(cmd *cobra.Command, out *OutputFormatter, st *store.Store, id string) error {
	run, err := st.ReadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		if out.JSON() {
			if err := out.Error(CodeRunNotFound, fmt.Sprintf("run not found: %s", id), nil); err != nil {
				return err
			}
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if out.JSON() {
		return out.Success(RunOutput{
			ID:      run.ID,
			Fixture: run.Fixture,
			Pass:    run.Pass,
			Seq:     run.Seq,
			Errors:  run.Errors,
			Streams: messageDocs(run.Streams),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s #%d %s %s\n", run.Fixture, run.Seq, run.ID, passLabel(run.Pass))
	writeStreams(w, run.Streams)
	for _, e := range run.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}

func passLabel(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
