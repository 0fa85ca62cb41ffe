package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/cel"
	"github.com/oakwood-commons/exprsense/internal/docgen"
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

func newDocsCmd(o *rootOptions) *cobra.Command {
	var (
		format string
		title  string
		where  string
		file   string
	)
	c := &cobra.Command{
		Use:   "docs",
		Short: "Export an API reference of the index as Markdown or HTML",
		Example: `  exprsense docs --catalog testdata/imaging.yaml > api.md
  exprsense docs --sample --format html --where 'namespace.startsWith("System")' --out api.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var df docgen.Format
			switch format {
			case "md", "markdown":
				df = docgen.FormatMarkdown
			case "html":
				df = docgen.FormatHTML
			default:
				return fmt.Errorf("invalid --format %q: want md or html", format)
			}

			_, fut, err := o.service(cmd.Context())
			if err != nil {
				return err
			}
			t, err := o.tree(cmd, fut)
			if err != nil {
				return err
			}
			opts := docgen.Options{Title: title}
			if where != "" {
				keep, err := matchSet(cmd, t, where)
				if err != nil {
					return err
				}
				opts.Keep = func(id symbol.ID) bool { return keep[id] }
			}

			var w io.Writer = cmd.OutOrStdout()
			if file != "" {
				fh, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create %s: %w", file, err)
				}
				defer fh.Close()
				w = fh
			}
			if err := docgen.Write(w, t, df, opts); err != nil {
				return err
			}
			if file != "" {
				o.info(cmd, "wrote %s", file)
			}
			return nil
		},
	}
	c.Flags().StringVar(&format, "format", "md", "export format: md|html")
	c.Flags().StringVar(&title, "title", "", "document title (default \"API reference\")")
	c.Flags().StringVar(&where, "where", "", "CEL predicate selecting the types to include")
	c.Flags().StringVar(&file, "out", "", "write to this file instead of stdout")
	return c
}

// matchSet compiles expr and returns the symbols it accepts.
func matchSet(cmd *cobra.Command, t *symbol.Tree, expr string) (map[symbol.ID]bool, error) {
	ev, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	pred, err := ev.Compile(expr)
	if err != nil {
		return nil, err
	}
	ids, err := cel.Filter(cmd.Context(), t, t.Root(), pred)
	if err != nil {
		return nil, err
	}
	keep := make(map[symbol.ID]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	return keep, nil
}
