package completion

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/exprsense/internal/resolve"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/logger"
)

// DefaultPageStep is how far PageUp and PageDown move the selection.
const DefaultPageStep = 5

// Session is the completion state machine for one editor.
//
// A session is Idle until a "." or Ctrl+Space arrives, then Open while a
// query is in flight or the popup is shown. All methods must be called from
// the goroutine that owns the host; queries run through the Runner and
// their results come back on that goroutine. A result is applied only if no
// newer query was issued and the editor text is unchanged since it started.
type Session struct {
	id       string
	ctx      context.Context
	tree     *symbol.Tree
	imports  []string
	host     Host
	runner   Runner
	log      logr.Logger
	pageStep int

	startText string
	active    bool
	shown     bool
	items     []Completion
	selected  int

	gen    uint64
	cancel context.CancelFunc

	focused     bool
	closed      bool
	committed   string
	onClose     []func()
	onLostFocus []func(text string)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRunner sets how queries execute. The default is InlineRunner.
func WithRunner(r Runner) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithPageStep sets the PageUp/PageDown distance.
func WithPageStep(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.pageStep = n
		}
	}
}

// WithID names the session for logs and for Service lookups.
func WithID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// NewSession starts a session over root, which is normally an Overlay
// carrying the session's locals. ctx bounds every query the session runs.
func NewSession(ctx context.Context, root *symbol.Tree, imports []string, host Host, opts ...SessionOption) *Session {
	s := &Session{
		ctx:      ctx,
		tree:     root,
		imports:  append([]string(nil), imports...),
		host:     host,
		runner:   InlineRunner{},
		pageStep: DefaultPageStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.FromContext(ctx).WithValues(logger.SessionKey, s.id)
	s.committed = host.Text()
	return s
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Tree returns the tree the session queries.
func (s *Session) Tree() *symbol.Tree { return s.tree }

// IsOpen reports whether the popup is shown.
func (s *Session) IsOpen() bool { return s.shown }

// Items returns the rows in the popup.
func (s *Session) Items() []Completion { return s.items }

// Selected returns the highlighted row, or -1 with the popup closed.
func (s *Session) Selected() int {
	if !s.shown {
		return -1
	}
	return s.selected
}

// StartText returns the prefix kept in front of the fragment being completed.
func (s *Session) StartText() string { return s.startText }

// CommittedText is the editor text as of the last focus loss or Close.
func (s *Session) CommittedText() string { return s.committed }

// OnClose registers fn to run when the session closes.
func (s *Session) OnClose(fn func()) { s.onClose = append(s.onClose, fn) }

// OnLostFocus registers fn to run with the editor text whenever focus moves
// somewhere other than the popup.
func (s *Session) OnLostFocus(fn func(text string)) {
	s.onLostFocus = append(s.onLostFocus, fn)
}

// HandleKey processes a key event and reports whether it was consumed.
// Only preview-phase events are acted on.
func (s *Session) HandleKey(ev KeyEvent) bool {
	if s.closed || ev.Phase != PhasePreview {
		return false
	}
	ctrl := ev.Mods&ModCtrl != 0

	switch {
	case ev.Code == KeyPeriod:
		if !s.shown {
			s.trigger(true)
		}
		return false
	case ev.Code == KeySpace && ctrl:
		if !s.shown {
			s.trigger(false)
		}
		return true
	}

	if !s.shown {
		return false
	}
	switch ev.Code {
	case KeyUp:
		s.moveTo(s.selected - 1)
	case KeyDown:
		s.moveTo(s.selected + 1)
	case KeyPageUp:
		s.moveTo(s.selected - s.pageStep)
	case KeyPageDown:
		s.moveTo(s.selected + s.pageStep)
	case KeyHome:
		s.moveTo(0)
	case KeyEnd:
		s.moveTo(len(s.items) - 1)
	case KeyEnter, KeyTab, KeySpace:
		s.commitPath(s.selected)
	case KeyEscape:
		s.dismiss()
		s.startText = ""
	default:
		return false
	}
	return true
}

// TextChanged re-runs the query for the new editor text while the session
// is Open. It never consumes anything.
func (s *Session) TextChanged() {
	if s.closed || !s.active {
		return
	}
	raw := s.host.Text()
	s.startText = StartText(raw)
	s.run(raw, QueryInput(raw, false))
}

// Activate commits the popup row at index. Keyboard activation inserts the
// row's full path in place of the token being completed; pointer activation
// appends the row's simple name to the start text.
func (s *Session) Activate(index int, how Activation) {
	if s.closed || !s.shown || index < 0 || index >= len(s.items) {
		return
	}
	if how == ActivatePointer {
		s.commitName(index)
		return
	}
	s.commitPath(index)
}

// Select highlights the row at index, as when the user clicks it.
func (s *Session) Select(index int) {
	if s.closed || !s.shown {
		return
	}
	s.moveTo(index)
}

// GainedFocus marks the editor focused.
func (s *Session) GainedFocus() { s.focused = true }

// LostFocusTo closes the popup unless focus moved into it, and reports the
// current text to OnLostFocus callbacks.
func (s *Session) LostFocusTo(target FocusTarget) {
	if s.closed || target == FocusPopup {
		return
	}
	s.focused = false
	s.dismiss()
	s.committed = s.host.Text()
	for _, fn := range s.onLostFocus {
		fn(s.committed)
	}
}

// Focused reports whether the editor currently has focus.
func (s *Session) Focused() bool { return s.focused }

// Close tears the session down: the popup is closed, any query in flight is
// abandoned and OnClose callbacks run once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.dismiss()
	s.committed = s.host.Text()
	s.closed = true
	for _, fn := range s.onClose {
		fn()
	}
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) trigger(dot bool) {
	raw := s.host.Text()
	s.startText = StartText(raw)
	s.active = true
	s.run(raw, QueryInput(raw, dot))
}

func (s *Session) run(raw, q string) {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen

	s.log.V(1).Info("completion query", logger.QueryKey, q, "imports", len(s.imports))
	tree, imports := s.tree, s.imports
	s.runner.Run(ctx,
		func(ctx context.Context) ([]symbol.ID, error) {
			return resolve.Scoped(ctx, tree, q, imports)
		},
		func(ids []symbol.ID, err error) {
			s.apply(gen, raw, ids, err)
		})
}

func (s *Session) apply(gen uint64, raw string, ids []symbol.ID, err error) {
	if s.closed || gen != s.gen || !s.active || s.host.Text() != raw {
		s.log.V(2).Info("discarding stale completion result", "generation", gen)
		return
	}
	if err != nil {
		s.log.V(1).Info("completion query failed", "error", err.Error())
		return
	}
	if len(ids) == 0 {
		s.dismiss()
		return
	}
	s.items = FromSymbols(s.tree, ids)
	s.selected = 0
	if s.shown {
		s.host.SetItems(s.items)
	} else {
		s.host.Open(s.items, s.host.Caret())
		s.shown = true
	}
	s.host.SetSelected(0)
}

func (s *Session) moveTo(i int) {
	if len(s.items) == 0 {
		return
	}
	s.selected = min(max(i, 0), len(s.items)-1)
	s.host.SetSelected(s.selected)
}

func (s *Session) commitPath(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	text := CommitHead(s.host.Text()) + s.items[index].Path
	s.dismiss()
	s.startText = ""
	s.host.SetText(text)
}

func (s *Session) commitName(index int) {
	text := s.startText + s.items[index].Text
	s.dismiss()
	s.startText = ""
	s.host.SetText(text)
}

// dismiss leaves the Open state and releases the popup.
func (s *Session) dismiss() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.active = false
	if s.shown {
		s.host.Close()
		s.shown = false
	}
	s.items = nil
	s.selected = 0
}
