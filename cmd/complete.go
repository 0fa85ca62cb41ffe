package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/formatter"
	"github.com/oakwood-commons/exprsense/pkg/intellisense"
)

var completeFormats = []formatter.Format{formatter.FormatTable, formatter.FormatList, formatter.FormatYAML, formatter.FormatJSON}

func newCompleteCmd(o *rootOptions) *cobra.Command {
	var (
		trigger string
		list    listingFlags
	)
	c := &cobra.Command{
		Use:   "complete TEXT",
		Short: "Print the completion popup for TEXT",
		Long: `Open a completion session on TEXT, press the trigger key once and print the
popup rows.

With --trigger dot, TEXT is what precedes the "." being typed. With
--trigger ctrl-space, TEXT is completed as it stands.`,
		Example: `  exprsense complete --sample --local img=Emgu.CV.Image img
  exprsense complete --sample --trigger ctrl-space System.Collections.Generic.Li`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := list.validate(); err != nil {
				return err
			}
			f, err := formatter.ParseFormat(list.output, completeFormats...)
			if err != nil {
				return err
			}
			trig, err := intellisense.ParseTrigger(trigger)
			if err != nil {
				return err
			}
			scfg, err := o.sessionConfig()
			if err != nil {
				return err
			}
			svc, _, err := o.service(cmd.Context())
			if err != nil {
				return err
			}
			res, err := intellisense.Complete(cmd.Context(), svc, args[0], scfg, trig)
			if err != nil {
				return err
			}
			if len(res.Items) == 0 {
				o.info(cmd, "no completions for %q", args[0])
				return nil
			}

			items := window(cmd, o, list.limit, res.Items)
			tbl := formatter.Table{Columns: []string{"name", "kind", "path", "description"}}
			for _, it := range items {
				tbl.AddRow(it.Display, it.Kind.String(), it.Path, it.Detail)
			}
			return o.writeTable(cmd, f, tbl)
		},
	}
	c.Flags().StringVar(&trigger, "trigger", "dot", "key that opens completion: dot|ctrl-space")
	list.register(c, "table", completeFormats...)
	return c
}
