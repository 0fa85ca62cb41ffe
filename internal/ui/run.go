package ui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/exprsense/internal/completion"
)

// Run opens an editor on the terminal and blocks until the user accepts or
// cancels. The session is closed on return.
func Run(ctx context.Context, svc *completion.Service, scfg completion.SessionConfig, opts Options, progOpts ...tea.ProgramOption) (Result, error) {
	e, err := NewEditor(ctx, svc, scfg, opts)
	if err != nil {
		return Result{}, err
	}
	defer e.session.Close()

	all := append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	if _, err := tea.NewProgram(e, all...).Run(); err != nil {
		return Result{}, fmt.Errorf("editor: %w", err)
	}
	return e.Result(), nil
}
