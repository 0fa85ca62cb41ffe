package index

import (
	"context"
	"time"

	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
	"github.com/oakwood-commons/exprsense/pkg/logger"
)

// Build ingests descs synchronously and returns the frozen tree.
func Build(ctx context.Context, descs []catalog.TypeDescriptor, opts Options) (*symbol.Tree, *Report, error) {
	start := time.Now()
	b := NewBuilder(opts)
	if err := b.Add(ctx, descs...); err != nil {
		return nil, nil, err
	}
	tree, report := b.Finish()
	logger.FromContext(ctx).V(1).Info("index built",
		"types", report.Types,
		"filtered", report.Filtered,
		"skipped", len(report.Skipped),
		"symbols", tree.Len(),
		"duration", time.Since(start).String())
	return tree, report, nil
}

// Future is the pending result of BuildAsync.
type Future struct {
	done   chan struct{}
	tree   *symbol.Tree
	report *Report
	err    error
}

// BuildAsync starts Build on its own goroutine. Cancelling ctx abandons the
// build and completes the future with ErrBuildCanceled.
func BuildAsync(ctx context.Context, descs []catalog.TypeDescriptor, opts Options) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.tree, f.report, f.err = Build(ctx, descs, opts)
	}()
	return f
}

// Ready wraps an already built tree in a completed future.
func Ready(tree *symbol.Tree) *Future {
	f := &Future{done: make(chan struct{}), tree: tree, report: &Report{}}
	close(f.done)
	return f
}

// Done is closed once the build has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the build finishes or ctx ends.
func (f *Future) Wait(ctx context.Context) (*symbol.Tree, error) {
	select {
	case <-f.done:
		return f.tree, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Report returns the build report, or nil while the build is running or
// after it failed.
func (f *Future) Report() *Report {
	select {
	case <-f.done:
		return f.report
	default:
		return nil
	}
}
