// Package formatter renders completions and symbol listings for the CLI.
package formatter

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Format names an output rendering.
type Format string

//revive:disable:exported
const (
	FormatTable   Format = "table"
	FormatList    Format = "list"
	FormatTree    Format = "tree"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMermaid Format = "mermaid"
)

//revive:enable:exported

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps s (case-insensitive) to one of allowed. An empty s
// selects the first allowed format.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	if len(allowed) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return allowed[0], nil
	}
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if string(f) == s {
			return f, nil
		}
		names[i] = string(f)
	}
	return "", fmt.Errorf("%w %q: valid values are %s", ErrUnknownFormat, s, strings.Join(names, ", "))
}

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the colours of tables and lists. Nil fields fall
// back to the defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, def color.Color) color.Color {
		if c == nil {
			return def
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
		Background(pick(tc.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
}

// SetTableTheme overrides the package styles.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // default theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Table is a header plus string rows. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// AddRow appends cells, padding or cutting them to the column count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Records converts the table to ordered maps for YAML and JSON output.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			m[col] = row[j]
		}
		out[i] = m
	}
	return out
}
