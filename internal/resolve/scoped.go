package resolve

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// Candidates expands a query into the paths searched for it: the query
// itself followed by the query qualified with every imported namespace.
func Candidates(q string, imports []string) []string {
	out := make([]string, 0, len(imports)+1)
	out = append(out, q)
	for _, ns := range imports {
		ns = strings.Trim(strings.TrimSpace(ns), ".")
		if ns == "" {
			continue
		}
		out = append(out, ns+"."+q)
	}
	return out
}

// Scoped resolves every candidate path of q concurrently, runs PartialMatch
// on each reached node with q as the prefix, and concatenates the results in
// candidate order, dropping repeats. A cancelled ctx discards the results.
func Scoped(ctx context.Context, t *symbol.Tree, q string, imports []string) ([]symbol.ID, error) {
	paths := Candidates(q, imports)
	parts := make([][]symbol.ID, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			node := ExactPath(t, t.Root(), p)
			parts[i] = PartialMatch(t, node, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[symbol.ID]struct{})
	var out []symbol.ID
	for _, part := range parts {
		for _, id := range part {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}
