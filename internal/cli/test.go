package cli

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cycletest/internal/fixture"
	"github.com/roach88/cycletest/internal/snapshot"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // fixture filter (glob pattern)
}

// FixtureResult holds the result of a single fixture.
type FixtureResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Fixtures []FixtureResult `json:"fixtures"`
	Passed   int             `json:"passed"`
	Failed   int             `json:"failed"`
	Total    int             `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <fixtures-dir>",
		Short: "Play all fixtures and compare with golden files",
		Long: `Play every fixture under a directory, evaluate its assertions and
compare the recorded message history with golden/<name>.golden next to
the fixture. Fixtures without a golden file are checked by assertions only.

Exit codes:
  0 - All fixtures passed
  1 - One or more fixtures failed
  2 - Command error (invalid paths, etc.)

Examples:
  cycletest test ./fixtures
  cycletest test ./fixtures --filter "counter-*"
  cycletest test ./fixtures --update
  cycletest test ./fixtures --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter fixtures by glob pattern")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, dir string) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("fixtures directory not found: %s", dir))
	}

	files, err := findFixtureFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find fixtures", err)
	}

	result := TestResult{
		Fixtures: make([]FixtureResult, 0, len(files)),
		Total:    len(files),
	}
	if len(files) == 0 && !out.JSON() {
		fmt.Fprintln(cmd.OutOrStdout(), "No fixtures found.")
		return nil
	}

	for _, file := range files {
		out.VerboseLog("Playing %s", file)
		fr := runFixture(file, opts, out)
		result.Fixtures = append(result.Fixtures, fr)
		if fr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !out.JSON() {
			writeFixtureResult(cmd, fr, opts.Update)
		}
	}

	if out.JSON() {
		if result.Failed > 0 {
			msg := fmt.Sprintf("%d fixture(s) failed", result.Failed)
			if err := out.Failure(CodeTestFailed, msg, result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		}
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d fixture(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All fixtures passed")
	return nil
}

// findFixtureFiles finds all fixture files under dir, in lexical order.
// The filter is matched against the file name without its extension.
func findFixtureFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fixture.IsFixtureFile(path) {
			return nil
		}

		if filter != "" {
			matched, err := filepath.Match(filter, fixtureBaseName(path))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

func runFixture(file string, opts *TestOptions, out *OutputFormatter) FixtureResult {
	name := fixtureBaseName(file)

	f, err := fixture.Load(file)
	if err != nil {
		return FixtureResult{Name: name, Errors: []string{fmt.Sprintf("failed to load fixture: %v", err)}}
	}
	name = f.Name

	result, err := fixture.Play(f, out.Logger())
	if err != nil {
		return FixtureResult{Name: name, Errors: []string{fmt.Sprintf("play failed: %v", err)}}
	}

	history, err := snapshot.History(f.Name, result.Streams)
	if err != nil {
		return FixtureResult{Name: name, Errors: []string{err.Error()}}
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGolden(goldenPath, history); err != nil {
			return FixtureResult{Name: name, Errors: []string{fmt.Sprintf("failed to update golden file: %v", err)}}
		}
		out.VerboseLog("Updated %s", goldenPath)
		return FixtureResult{Name: name, Pass: result.Pass, Errors: result.Errors}
	}

	errs := result.Errors
	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// Assertions only.
	case err != nil:
		errs = append(errs, fmt.Sprintf("failed to read golden file: %v", err))
	case !bytes.Equal(golden, history):
		errs = append(errs, "message history does not match golden file (run with --update to regenerate)")
	}

	return FixtureResult{Name: name, Pass: len(errs) == 0, Errors: errs}
}

func writeFixtureResult(cmd *cobra.Command, fr FixtureResult, updated bool) {
	w := cmd.OutOrStdout()
	if !fr.Pass {
		fmt.Fprintf(w, "✗ %s\n", fr.Name)
		for _, e := range fr.Errors {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(e, "\n"))
		}
		return
	}
	if updated {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", fr.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", fr.Name)
}

// goldenFilePath returns the golden file for a fixture: golden/<name>.golden
// in the fixture's directory.
func goldenFilePath(fixtureFile string) string {
	return filepath.Join(filepath.Dir(fixtureFile), "golden", fixtureBaseName(fixtureFile)+".golden")
}

func fixtureBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
