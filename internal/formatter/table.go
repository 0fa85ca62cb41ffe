package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap      = "  "
	minColumnWidth = 8
	ellipsis       = "…"
)

// TableOptions configures RenderTable.
type TableOptions struct {
	NoColor bool
	// MaxWidth bounds the rendered line width; 0 means unbounded. The widest
	// columns shrink first, never below a small minimum.
	MaxWidth   int
	RowNumbers bool
}

// RenderTable renders tbl as aligned columns with a header line.
func RenderTable(tbl Table, opts TableOptions) string {
	if len(tbl.Columns) == 0 {
		return ""
	}
	cols := tbl.Columns
	rows := tbl.Rows
	if opts.RowNumbers {
		cols = append([]string{"#"}, cols...)
		numbered := make([][]string, len(rows))
		for i, r := range rows {
			numbered[i] = append([]string{strconv.Itoa(i + 1)}, r...)
		}
		rows = numbered
	}

	widths := naturalWidths(cols, rows)
	if opts.MaxWidth > 0 {
		shrinkWidths(widths, opts.MaxWidth)
	}

	var b strings.Builder
	writeLine(&b, cols, widths, func(s string) string {
		if opts.NoColor {
			return s
		}
		return headerStyle.Render(s)
	})
	total := 0
	for i, w := range widths {
		total += w
		if i > 0 {
			total += len(columnGap)
		}
	}
	sep := strings.Repeat("─", total)
	if !opts.NoColor {
		sep = separatorStyle.Render(sep)
	}
	b.WriteString(sep)
	b.WriteByte('\n')
	for _, r := range rows {
		writeLine(&b, r, widths, func(s string) string { return s })
	}
	return b.String()
}

func naturalWidths(cols []string, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, r := range rows {
		for i := range widths {
			if i < len(r) {
				if w := runewidth.StringWidth(r[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func shrinkWidths(widths []int, maxWidth int) {
	total := func() int {
		sum := len(columnGap) * (len(widths) - 1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	for total() > maxWidth {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			return
		}
		widths[widest]--
	}
}

func writeLine(b *strings.Builder, cells []string, widths []int, style func(string) string) {
	last := len(widths) - 1
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if runewidth.StringWidth(cell) > w {
			cell = runewidth.Truncate(cell, w, ellipsis)
		}
		if i < last {
			cell = runewidth.FillRight(cell, w)
		}
		b.WriteString(style(cell))
		if i < last {
			b.WriteString(columnGap)
		}
	}
	b.WriteByte('\n')
}
