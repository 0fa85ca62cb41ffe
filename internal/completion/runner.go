package completion

import (
	"context"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// Query computes completion candidates. It must honour ctx.
type Query func(ctx context.Context) ([]symbol.ID, error)

// Runner executes queries off the event loop and hands results back to it.
// deliver must be called on the goroutine that drives the session, or not at
// all if ctx ended first.
type Runner interface {
	Run(ctx context.Context, q Query, deliver func([]symbol.ID, error))
}

// InlineRunner runs queries synchronously on the caller's goroutine.
type InlineRunner struct{}

// Run implements Runner.
func (InlineRunner) Run(ctx context.Context, q Query, deliver func([]symbol.ID, error)) {
	ids, err := q(ctx)
	if ctx.Err() != nil {
		return
	}
	deliver(ids, err)
}
