package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cycletest/internal/fixture"
	"github.com/roach88/cycletest/internal/snapshot"
	"github.com/roach88/cycletest/internal/store"
	"github.com/roach88/cycletest/internal/stream"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Record string // database path; empty disables recording
}

// PlayOutput is the JSON payload of the play command.
type PlayOutput struct {
	Name    string           `json:"name"`
	Pass    bool             `json:"pass"`
	RunID   string           `json:"run_id,omitempty"`
	Streams map[string][]any `json:"streams"`
	HTML    string           `json:"html,omitempty"`
	Errors  []string         `json:"errors,omitempty"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <fixture>",
		Short: "Play a fixture and print the recorded messages",
		Long: `Play every stream of a fixture on virtual time and print what an
observer received, followed by the rendered view and assertion results.

With --record the run is stored in a SQLite database and can be listed
later with the history command.

Exit codes:
  0 - All assertions passed
  1 - One or more assertions failed
  2 - Command error (unreadable fixture, database error)

Examples:
  cycletest play fixtures/counter.yaml
  cycletest play fixtures/counter.cue --record runs.db
  cycletest play fixtures/counter.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Record, "record", "", "record the run in this SQLite database")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *PlayOptions, path string) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	f, err := loadFixture(path)
	if err != nil {
		return err
	}
	out.VerboseLog("Loaded fixture %s from %s", f.Name, path)

	result, err := fixture.Play(f, out.Logger())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to play fixture", err)
	}

	output := PlayOutput{
		Name:    result.Name,
		Pass:    result.Pass,
		Streams: messageDocs(result.Streams),
		HTML:    result.HTML,
		Errors:  result.Errors,
	}

	if opts.Record != "" {
		id, err := recordRun(cmd, opts.Record, result)
		if err != nil {
			return err
		}
		output.RunID = id
		out.VerboseLog("Recorded run %s in %s", id, opts.Record)
	}

	if out.JSON() {
		if result.Pass {
			return out.Success(output)
		}
		if err := out.Failure(CodeTestFailed, fmt.Sprintf("%d assertion(s) failed", len(result.Errors)), output); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(result.Errors)))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.Name)
	writeStreams(w, result.Streams)
	if result.HTML != "" {
		fmt.Fprintf(w, "  html: %s\n", result.HTML)
	}
	if output.RunID != "" {
		fmt.Fprintf(w, "  run: %s\n", output.RunID)
	}
	if !result.Pass {
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		fmt.Fprintf(w, "✗ %d assertion(s) failed\n", len(result.Errors))
		return NewExitError(ExitFailure, fmt.Sprintf("%d assertion(s) failed", len(result.Errors)))
	}
	fmt.Fprintln(w, "✓ all assertions passed")
	return nil
}

// loadFixture loads a fixture file, mapping every failure to a command
// error.
func loadFixture(path string) (*fixture.Fixture, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("fixture not found: %s", path))
	}
	f, err := fixture.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load fixture", err)
	}
	return f, nil
}

func recordRun(cmd *cobra.Command, dbPath string, result *fixture.Result) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run := store.Run{
		ID:      store.NewRunID(),
		Fixture: result.Name,
		Pass:    result.Pass,
		Errors:  result.Errors,
		Streams: result.Streams,
	}
	if err := st.WriteRun(cmd.Context(), run); err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return run.ID, nil
}

func messageDocs(streams map[string][]stream.Notification) map[string][]any {
	docs := make(map[string][]any, len(streams))
	for name, msgs := range streams {
		docs[name] = snapshot.Messages(msgs)
	}
	return docs
}

func writeStreams(w io.Writer, streams map[string][]stream.Notification) {
	for _, name := range snapshot.StreamNames(streams) {
		fmt.Fprintf(w, "  %s:\n", name)
		msgs := streams[name]
		if len(msgs) == 0 {
			fmt.Fprintln(w, "    (no messages)")
		}
		for _, m := range msgs {
			fmt.Fprintf(w, "    %s\n", m)
		}
	}
}
