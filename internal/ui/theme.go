package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/exprsense/internal/config"
)

// Theme holds the editor colours. Nil fields render unstyled.
type Theme struct {
	Keyword      color.Color
	Selected     color.Color
	SelectedText color.Color
	Description  color.Color
	Border       color.Color
	Glyph        color.Color
}

// ThemeFromConfig converts configured colour strings.
func ThemeFromConfig(t config.Theme) Theme {
	c := func(s string) color.Color {
		if s == "" {
			return nil
		}
		return lipgloss.Color(s)
	}
	return Theme{
		Keyword:      c(t.Keyword),
		Selected:     c(t.Selected),
		SelectedText: c(t.SelectedText),
		Description:  c(t.Description),
		Border:       c(t.Border),
		Glyph:        c(t.Glyph),
	}
}

type styles struct {
	keyword  lipgloss.Style
	selected lipgloss.Style
	detail   lipgloss.Style
	glyph    lipgloss.Style
	box      lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if noColor {
		return styles{box: box}
	}
	st := styles{
		keyword:  lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true),
		detail:   lipgloss.NewStyle().Italic(true),
		glyph:    lipgloss.NewStyle(),
		hint:     lipgloss.NewStyle().Faint(true),
		box:      box,
	}
	if th.Keyword != nil {
		st.keyword = st.keyword.Foreground(th.Keyword)
	}
	if th.Selected != nil {
		st.selected = st.selected.Background(th.Selected)
	}
	if th.SelectedText != nil {
		st.selected = st.selected.Foreground(th.SelectedText)
	}
	if th.Description != nil {
		st.detail = st.detail.Foreground(th.Description)
	}
	if th.Glyph != nil {
		st.glyph = st.glyph.Foreground(th.Glyph)
	}
	if th.Border != nil {
		st.box = st.box.BorderForeground(th.Border)
	}
	return st
}
