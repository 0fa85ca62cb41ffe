package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/cel"
	"github.com/oakwood-commons/exprsense/internal/formatter"
	"github.com/oakwood-commons/exprsense/internal/resolve"
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

var symbolsFormats = []formatter.Format{
	formatter.FormatTree, formatter.FormatTable, formatter.FormatList,
	formatter.FormatYAML, formatter.FormatJSON, formatter.FormatMermaid,
}

type symbolsOptions struct {
	list         listingFlags
	where        string
	from         string
	depth        int
	descriptions bool
	typesOnly    bool
	direction    string
	functions    bool
}

func newSymbolsCmd(o *rootOptions) *cobra.Command {
	so := &symbolsOptions{}
	c := &cobra.Command{
		Use:   "symbols",
		Short: "List the symbol index",
		Long: `List the index below --from (default: the root) as a tree, a table or a
Mermaid graph.

--where filters with a CEL predicate over the variables kind, name,
simpleName, path, namespace, description (strings), depth, children (ints)
and isType, isMember (bools). The same values are available as fields of _.`,
		Example: `  exprsense symbols --sample --depth 2
  exprsense symbols --sample --where 'kind == "Method" && name.startsWith("Add")' -o table
  exprsense symbols --sample --from System.Collections -o mermaid
  exprsense symbols --functions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSymbols(cmd, o, so)
		},
	}
	so.list.register(c, "tree", symbolsFormats...)
	c.Flags().StringVar(&so.where, "where", "", "CEL predicate selecting symbols")
	c.Flags().StringVar(&so.from, "from", "", "dotted path of the node to list below")
	c.Flags().IntVar(&so.depth, "depth", 0, "limit tree and mermaid depth (0 = unlimited)")
	c.Flags().BoolVar(&so.descriptions, "descriptions", false, "show descriptions in tree output")
	c.Flags().BoolVar(&so.typesOnly, "types-only", false, "leave members out of mermaid output")
	c.Flags().StringVar(&so.direction, "mermaid-direction", "TD", "Mermaid diagram direction: TD, LR, BT, RL")
	c.Flags().BoolVar(&so.functions, "functions", false, "list the functions usable in --where and exit")
	return c
}

func runSymbols(cmd *cobra.Command, o *rootOptions, so *symbolsOptions) error {
	ev, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	if so.functions {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ev.Functions(), "\n"))
		return err
	}
	if err := so.list.validate(); err != nil {
		return err
	}
	f, err := formatter.ParseFormat(so.list.output, symbolsFormats...)
	if err != nil {
		return err
	}
	var pred *cel.Predicate
	if so.where != "" {
		if f == formatter.FormatMermaid {
			return fmt.Errorf("--where is not supported with -o mermaid")
		}
		if pred, err = ev.Compile(so.where); err != nil {
			return err
		}
	}

	_, fut, err := o.service(cmd.Context())
	if err != nil {
		return err
	}
	t, err := o.tree(cmd, fut)
	if err != nil {
		return err
	}
	from := t.Root()
	if so.from != "" {
		from = resolve.ExactPath(t, t.Root(), so.from)
		if !resolve.Found(t, from, so.from) {
			return fmt.Errorf("--from %q does not resolve (reached %q)", so.from, t.FullPath(from))
		}
	}

	out := cmd.OutOrStdout()
	switch f {
	case formatter.FormatMermaid:
		_, err := fmt.Fprint(out, formatter.FormatSymbolMermaid(t, from, formatter.MermaidOptions{
			Direction: so.direction,
			MaxDepth:  so.depth,
			TypesOnly: so.typesOnly,
		}))
		return err
	case formatter.FormatTree:
		opts := formatter.TreeOptions{MaxDepth: so.depth, Descriptions: so.descriptions}
		if pred != nil {
			ids, err := cel.Filter(cmd.Context(), t, from, pred)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				o.info(cmd, "no symbols match %s", pred)
				return nil
			}
			keep := make(map[symbol.ID]bool, len(ids))
			for _, id := range ids {
				keep[id] = true
			}
			opts.Keep = func(id symbol.ID) bool { return keep[id] }
		}
		_, err := fmt.Fprint(out, formatter.FormatSymbolTree(t, from, opts))
		return err
	}

	ids, err := cel.Filter(cmd.Context(), t, from, pred)
	if err != nil {
		return err
	}
	ids = window(cmd, o, so.list.limit, ids)
	if f == formatter.FormatYAML || f == formatter.FormatJSON {
		records := make([]cel.Record, len(ids))
		for i, id := range ids {
			records[i] = cel.RecordOf(t, id, depthBelow(t, from, id))
		}
		return writeValue(cmd, f, records)
	}
	tbl := formatter.Table{Columns: []string{"path", "kind", "description"}}
	for _, id := range ids {
		tbl.AddRow(t.FullPath(id), t.Get(id).Kind.String(), t.Get(id).Description)
	}
	return o.writeTable(cmd, f, tbl)
}

func depthBelow(t *symbol.Tree, from, id symbol.ID) int {
	d := 0
	for cur := id; cur != from && cur != symbol.None; cur = t.Get(cur).Parent {
		d++
	}
	return d
}
