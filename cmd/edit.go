package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/ui"
	"github.com/oakwood-commons/exprsense/pkg/logger"
)

type editOptions struct {
	text string
}

// runEditor is swapped out by tests.
var runEditor = ui.Run

func newEditCmd(o *rootOptions) *cobra.Command {
	eo := &editOptions{}
	c := &cobra.Command{
		Use:   "edit",
		Short: "Edit an expression with completion in the terminal",
		Long: `Open a one-line expression editor. Type "." after a namespace, type or
local to list its members, or press Ctrl+Space to complete the word at the
caret. Enter accepts and prints the text; Esc or Ctrl+C cancels.

Text piped on stdin becomes the initial expression.`,
		Example: `  exprsense edit --sample --local img=Emgu.CV.Image
  echo 'System.Collections' | exprsense edit --sample`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, o, eo)
		},
	}
	c.Flags().StringVar(&eo.text, "text", "", "initial expression")
	return c
}

func runEdit(cmd *cobra.Command, o *rootOptions, eo *editOptions) error {
	initial := eo.text
	if initial == "" && stdinIsPiped() {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, 1<<16))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		initial = strings.TrimRight(string(data), "\r\n")
	}

	scfg, err := o.sessionConfig()
	if err != nil {
		return err
	}
	svc, _, err := o.service(cmd.Context())
	if err != nil {
		return err
	}

	progOpts, cleanup := getProgramOptions()
	defer cleanup()

	res, err := runEditor(cmd.Context(), svc, scfg, ui.Options{
		PopupHeight: o.cfg.UI.PopupHeight,
		PopupWidth:  o.cfg.UI.PopupWidth,
		NoColor:     o.run.NoColor,
		Theme:       ui.ThemeFromConfig(o.cfg.UI.Theme),
		Initial:     initial,
	}, progOpts...)
	if err != nil {
		return err
	}
	logger.FromContext(cmd.Context()).V(1).Info("editor closed", "accepted", res.Accepted)
	if !res.Accepted {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
