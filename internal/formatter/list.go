package formatter

import (
	"strconv"
	"strings"
)

// ListOptions controls list output formatting.
type ListOptions struct {
	NoColor bool
}

// RenderList renders each row as a numbered block of "column: value" lines.
// Empty cells are omitted.
func RenderList(tbl Table, opts ListOptions) string {
	var b strings.Builder
	for i, row := range tbl.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		for j, col := range tbl.Columns {
			if j >= len(row) || row[j] == "" {
				continue
			}
			key, val := col, row[j]
			if !opts.NoColor {
				key = keyStyle.Render(key)
				val = valueStyle.Render(val)
			}
			b.WriteString("  ")
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(val)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
