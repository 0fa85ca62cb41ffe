package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// queryResultMsg carries a finished completion query back into Update,
// which is the session's goroutine.
type queryResultMsg struct {
	ctx     context.Context
	ids     []symbol.ID
	err     error
	deliver func([]symbol.ID, error)
}

// cmdRunner turns completion queries into tea.Cmds. Bubble Tea runs each
// command on its own goroutine and feeds the result message to Update.
type cmdRunner struct {
	pending []tea.Cmd
}

var _ completion.Runner = (*cmdRunner)(nil)

func (r *cmdRunner) Run(ctx context.Context, q completion.Query, deliver func([]symbol.ID, error)) {
	r.pending = append(r.pending, func() tea.Msg {
		ids, err := q(ctx)
		return queryResultMsg{ctx: ctx, ids: ids, err: err, deliver: deliver}
	})
}

// drain returns the queued commands as one.
func (r *cmdRunner) drain() tea.Cmd {
	cmds := r.pending
	r.pending = nil
	return tea.Batch(cmds...)
}

func (m queryResultMsg) apply() {
	if m.ctx.Err() != nil {
		return
	}
	m.deliver(m.ids, m.err)
}
