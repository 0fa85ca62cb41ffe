package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/exprsense/internal/formatter"
	"github.com/oakwood-commons/exprsense/internal/limiter"
)

// listingFlags are the output and record-windowing flags shared by the
// commands that print lists.
type listingFlags struct {
	output string
	limit  limiter.Config
}

func (l *listingFlags) register(c *cobra.Command, defaultOutput string, formats ...formatter.Format) {
	names := ""
	for i, f := range formats {
		if i > 0 {
			names += "|"
		}
		names += string(f)
	}
	c.Flags().StringVarP(&l.output, "output", "o", defaultOutput, "output format: "+names)
	c.Flags().IntVar(&l.limit.Limit, "limit", 0, "limit the number of records displayed")
	c.Flags().IntVar(&l.limit.Offset, "offset", 0, "skip the first N records")
	c.Flags().IntVar(&l.limit.Tail, "tail", 0, "show the last N records (mutually exclusive with --limit; ignores --offset)")
}

func (l *listingFlags) validate() error {
	if err := l.limit.Validate(); err != nil {
		return fmt.Errorf("record limiting: %w", err)
	}
	return nil
}

// writeTable prints tbl in a tabular format, or its records as YAML/JSON.
func (o *rootOptions) writeTable(cmd *cobra.Command, f formatter.Format, tbl formatter.Table) error {
	out := cmd.OutOrStdout()
	switch f {
	case formatter.FormatTable:
		_, err := fmt.Fprint(out, formatter.RenderTable(tbl, formatter.TableOptions{
			NoColor:  o.run.NoColor || stdoutIsPiped(),
			MaxWidth: outputWidth(),
		}))
		return err
	case formatter.FormatList:
		_, err := fmt.Fprint(out, formatter.RenderList(tbl, formatter.ListOptions{NoColor: o.run.NoColor || stdoutIsPiped()}))
		return err
	}
	return writeValue(cmd, f, tbl.Records())
}

// window applies the limiter to n records and reports what was cut.
func window[T any](cmd *cobra.Command, o *rootOptions, l limiter.Config, rows []T) []T {
	if s := l.Summary(len(rows)); s != "" {
		o.info(cmd, "%s", s)
	}
	return limiter.Apply(l, rows)
}
