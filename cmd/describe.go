package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/cel"
	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/formatter"
	"github.com/oakwood-commons/exprsense/internal/resolve"
)

// describeResult is the symbol an exact-path lookup reached.
type describeResult struct {
	cel.Record `yaml:",inline"`
	Query      string `json:"query" yaml:"query"`
	// Partial is set when only a prefix of the query resolved.
	Partial bool `json:"partial" yaml:"partial"`
}

func newDescribeCmd(o *rootOptions) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "describe PATH",
		Short: "Look up a dotted path and print the symbol's description",
		Long: `Resolve PATH segment by segment, ignoring case. When a segment does not
match, the deepest symbol reached is printed and marked partial.`,
		Example: `  exprsense describe --sample System.String.Substring
  exprsense describe --sample --local img=Emgu.CV.Image img.Save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter.ParseFormat(output, formatter.FormatList, formatter.FormatYAML, formatter.FormatJSON)
			if err != nil {
				return err
			}
			scfg, err := o.sessionConfig()
			if err != nil {
				return err
			}
			_, fut, err := o.service(cmd.Context())
			if err != nil {
				return err
			}
			base, err := o.tree(cmd, fut)
			if err != nil {
				return err
			}
			t := completion.Overlay(base, scfg.Locals)

			id := resolve.ExactPath(t, t.Root(), args[0])
			if id == t.Root() {
				return fmt.Errorf("no symbol matches %q", args[0])
			}
			res := describeResult{
				Record:  cel.RecordOf(t, id, 0),
				Query:   args[0],
				Partial: !resolve.Found(t, id, args[0]),
			}
			if f != formatter.FormatList {
				return writeValue(cmd, f, res)
			}

			tbl := formatter.Table{Columns: []string{"path", "kind", "description", "namespace", "members"}}
			tbl.AddRow(res.Path, res.Kind, res.Description, res.Namespace, fmt.Sprint(res.Children))
			if res.Partial {
				tbl.Columns = append(tbl.Columns, "partial")
				tbl.Rows[0] = append(tbl.Rows[0], fmt.Sprintf("true (query %q)", res.Query))
			}
			return o.writeTable(cmd, f, tbl)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "list", "output format: list|yaml|json")
	return c
}
