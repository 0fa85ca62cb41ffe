// Package ui is a terminal host for completion sessions: a one-line
// expression editor with a popup list below it.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/exprsense/internal/completion"
)

const (
	defaultPopupHeight = 8
	defaultPopupWidth  = 60
	doubleClickWindow  = 400 * time.Millisecond
	// popupTop is the screen row of the first popup item: the input line
	// and the box's top border sit above it.
	popupTop = 2
)

// Options configures an Editor.
type Options struct {
	PopupHeight int
	PopupWidth  int
	NoColor     bool
	Theme       Theme
	// Initial is the text the editor starts with.
	Initial string
	Prompt  string
}

// Result is what the editor returns when it exits.
type Result struct {
	Text     string
	Accepted bool
}

type popupState struct {
	open     bool
	items    []completion.Completion
	selected int
	anchor   int
	offset   int
}

type click struct {
	row int
	at  time.Time
}

// Editor is a tea.Model that hosts one completion session.
type Editor struct {
	opts    Options
	styles  styles
	input   textinput.Model
	session *completion.Session
	runner  *cmdRunner
	popup   popupState

	width     int
	lastClick click
	now       func() time.Time

	done     bool
	accepted bool
}

var (
	_ tea.Model       = (*Editor)(nil)
	_ completion.Host = (*Editor)(nil)
)

// NewEditor starts a session from svc and returns the model driving it.
func NewEditor(ctx context.Context, svc *completion.Service, scfg completion.SessionConfig, opts Options) (*Editor, error) {
	if opts.PopupHeight <= 0 {
		opts.PopupHeight = defaultPopupHeight
	}
	if opts.PopupWidth <= 0 {
		opts.PopupWidth = defaultPopupWidth
	}
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "expression"
	ti.CharLimit = 500
	ti.SetWidth(80)
	ti.SetValue(opts.Initial)
	ti.CursorEnd()
	ti.Focus()

	e := &Editor{
		opts:   opts,
		styles: newStyles(opts.Theme, opts.NoColor),
		input:  ti,
		runner: &cmdRunner{},
		width:  80,
		now:    time.Now,
	}
	scfg.Runner = e.runner
	sess, err := svc.NewSession(ctx, e, scfg)
	if err != nil {
		return nil, err
	}
	e.session = sess
	sess.GainedFocus()
	return e, nil
}

// Session returns the completion session the editor drives.
func (e *Editor) Session() *completion.Session { return e.session }

// Result reports the final text once the editor has quit.
func (e *Editor) Result() Result {
	return Result{Text: e.session.CommittedText(), Accepted: e.accepted}
}

// Done reports whether the editor has finished.
func (e *Editor) Done() bool { return e.done }

// Text implements completion.TextSurface.
func (e *Editor) Text() string { return e.input.Value() }

// SetText implements completion.TextSurface.
func (e *Editor) SetText(s string) {
	e.input.SetValue(s)
	e.input.CursorEnd()
}

// Caret implements completion.TextSurface. The textinput counts runes; the
// host contract is a byte offset.
func (e *Editor) Caret() int { return byteOffset(e.input.Value(), e.input.Position()) }

// byteOffset converts a rune index into s to a byte offset, clamped to len(s).
func byteOffset(s string, runes int) int {
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}

// clampPrefix returns s[:n], shortened to the nearest rune boundary.
func clampPrefix(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:max(n, 0)]
}

// Open implements completion.Popup.
func (e *Editor) Open(items []completion.Completion, anchor int) {
	e.popup = popupState{open: true, items: items, anchor: anchor}
}

// Close implements completion.Popup.
func (e *Editor) Close() {
	e.popup = popupState{}
}

// SetItems implements completion.Popup.
func (e *Editor) SetItems(items []completion.Completion) {
	if !e.popup.open {
		return
	}
	e.popup.items = items
	e.popup.selected = 0
	e.popup.offset = 0
}

// SetSelected implements completion.Popup.
func (e *Editor) SetSelected(index int) {
	if !e.popup.open {
		return
	}
	e.popup.selected = index
	e.scrollTo(index)
}

func (e *Editor) scrollTo(index int) {
	h := e.opts.PopupHeight
	switch {
	case index < e.popup.offset:
		e.popup.offset = index
	case index >= e.popup.offset+h:
		e.popup.offset = index - h + 1
	}
}

// Init implements tea.Model.
func (e *Editor) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if e.done {
		return e, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.input.SetWidth(max(msg.Width-runewidth.StringWidth(e.opts.Prompt)-1, 10))
		return e, nil
	case queryResultMsg:
		msg.apply()
		return e, e.runner.drain()
	case tea.FocusMsg:
		e.session.GainedFocus()
		return e, nil
	case tea.BlurMsg:
		e.session.LostFocusTo(completion.FocusElsewhere)
		return e, nil
	case tea.MouseClickMsg:
		return e, e.handleClick(msg)
	case tea.KeyPressMsg:
		return e, e.handleKey(msg)
	}
	e.edit(msg)
	return e, e.runner.drain()
}

func (e *Editor) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return e.finish(false)
	}
	if e.session.HandleKey(keyEvent(msg)) {
		return e.runner.drain()
	}
	if !e.popup.open {
		switch msg.Key().Code {
		case tea.KeyEnter, tea.KeyKpEnter:
			return e.finish(true)
		case tea.KeyEscape:
			return e.finish(false)
		}
	}

	e.edit(msg)
	post := keyEvent(msg)
	post.Phase = completion.PhasePost
	e.session.HandleKey(post)
	return e.runner.drain()
}

// edit lets the text input handle msg. Its commands only drive the cursor
// blink, which the editor replaces with its own caret.
func (e *Editor) edit(msg tea.Msg) {
	before := e.input.Value()
	e.input, _ = e.input.Update(msg)
	if e.input.Value() != before {
		e.session.TextChanged()
	}
}

func (e *Editor) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	m := msg.Mouse()
	if m.Button != tea.MouseLeft || !e.popup.open {
		return nil
	}
	row := m.Y - popupTop
	if row < 0 || row >= min(e.opts.PopupHeight, len(e.popup.items)) {
		return nil
	}
	index := e.popup.offset + row
	now := e.now()
	if e.lastClick.row == index && now.Sub(e.lastClick.at) <= doubleClickWindow {
		e.lastClick = click{row: -1}
		e.session.Activate(index, completion.ActivatePointer)
		return e.runner.drain()
	}
	e.lastClick = click{row: index, at: now}
	e.session.Select(index)
	return nil
}

func (e *Editor) finish(accepted bool) tea.Cmd {
	e.accepted = accepted
	e.done = true
	e.session.Close()
	return tea.Quit
}

// View implements tea.Model.
func (e *Editor) View() tea.View {
	var b strings.Builder
	b.WriteString(e.opts.Prompt)
	b.WriteString(e.renderInput())
	if e.popup.open && len(e.popup.items) > 0 {
		b.WriteString("\n")
		b.WriteString(e.renderPopup())
		if d := e.popup.items[e.popup.selected].Detail; d != "" {
			b.WriteString("\n")
			b.WriteString(e.styles.detail.Render(truncate(d, max(e.width, 20))))
		}
	}
	b.WriteString("\n")
	b.WriteString(e.styles.hint.Render(e.helpLine()))

	v := tea.NewView(b.String())
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	return v
}

func (e *Editor) helpLine() string {
	if e.popup.open {
		return "↑/↓ select · enter/tab commit · double-click name · esc close"
	}
	return ". or ctrl+space complete · enter accept · esc cancel"
}

// renderInput draws the text with keywords highlighted and the caret shown
// as a reversed cell.
func (e *Editor) renderInput() string {
	text := e.input.Value()
	caret := e.Caret()
	var b strings.Builder
	pos := 0
	for _, sp := range completion.Keywords.Spans(text) {
		style := lipgloss.NewStyle()
		if sp.Keyword {
			style = e.styles.keyword
		}
		end := pos + len(sp.Text)
		if caret >= pos && caret < end {
			i := caret - pos
			r, n := firstRune(sp.Text[i:])
			b.WriteString(style.Render(sp.Text[:i]))
			b.WriteString(caretStyle.Render(r))
			b.WriteString(style.Render(sp.Text[i+n:]))
		} else {
			b.WriteString(style.Render(sp.Text))
		}
		pos = end
	}
	if caret >= len(text) {
		b.WriteString(caretStyle.Render(" "))
	}
	return b.String()
}

var caretStyle = lipgloss.NewStyle().Reverse(true)

func firstRune(s string) (string, int) {
	for i := range s {
		if i > 0 {
			return s[:i], i
		}
	}
	return s, len(s)
}

func (e *Editor) renderPopup() string {
	inner := e.opts.PopupWidth - 2
	indent := runewidth.StringWidth(e.opts.Prompt) + runewidth.StringWidth(clampPrefix(e.input.Value(), e.popup.anchor))
	if e.width > 0 && indent+e.opts.PopupWidth > e.width {
		indent = max(e.width-e.opts.PopupWidth, 0)
	}

	end := min(e.popup.offset+e.opts.PopupHeight, len(e.popup.items))
	rows := make([]string, 0, end-e.popup.offset)
	for i := e.popup.offset; i < end; i++ {
		it := e.popup.items[i]
		glyph := runewidth.FillRight(completion.Glyph(it.Kind), 2)
		label := runewidth.FillRight(truncate(it.Display, inner-3), inner-3)
		if i == e.popup.selected {
			rows = append(rows, e.styles.selected.Render(glyph+" "+label))
			continue
		}
		rows = append(rows, e.styles.glyph.Render(glyph)+" "+label)
	}
	if len(e.popup.items) > e.opts.PopupHeight {
		rows = append(rows, runewidth.FillRight(fmt.Sprintf("%d/%d", e.popup.selected+1, len(e.popup.items)), inner))
	}
	box := e.styles.box.Render(strings.Join(rows, "\n"))
	return lipgloss.NewStyle().MarginLeft(indent).Render(box)
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}
