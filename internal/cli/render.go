package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cycletest/internal/vdom"
)

// RenderOutput is the JSON payload of the render command.
type RenderOutput struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <fixture>",
		Short: "Print the rendered view of a fixture",
		Long: `Render the view tree declared by a fixture to HTML.

Exit codes:
  0 - View rendered
  2 - Command error (unreadable fixture, no view, invalid view)

Examples:
  cycletest render fixtures/counter.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runRender(cmd *cobra.Command, opts *RootOptions, path string) error {
	out := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	f, err := loadFixture(path)
	if err != nil {
		return err
	}
	if f.View == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("fixture %s has no view", f.Name))
	}

	html, err := vdom.RenderString(*f.View)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render view", err)
	}

	if out.JSON() {
		return out.Success(RenderOutput{Name: f.Name, HTML: html})
	}
	return out.Success(html)
}

