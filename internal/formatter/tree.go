package formatter

import (
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// MaxDepth limits depth below the start node; 0 means unlimited.
	MaxDepth int
	// Descriptions appends each symbol's description to its label.
	Descriptions bool
	// Keep, when set, restricts the output to kept symbols and their
	// ancestors.
	Keep func(symbol.ID) bool
}

// FormatSymbolTree renders the subtree below from as an ASCII tree.
func FormatSymbolTree(t *symbol.Tree, from symbol.ID, opts TreeOptions) string {
	var visible map[symbol.ID]bool
	if opts.Keep != nil {
		visible = make(map[symbol.ID]bool)
		markVisible(t, from, opts.Keep, visible)
	}

	var root treeprint.Tree
	if name := t.Get(from).Name; name == "" {
		root = treeprint.New()
	} else {
		root = treeprint.NewWithRoot(treeLabel(t, from, opts))
	}
	addChildren(root, t, from, opts, visible, 0)
	return root.String()
}

func markVisible(t *symbol.Tree, id symbol.ID, keep func(symbol.ID) bool, visible map[symbol.ID]bool) bool {
	kept := keep(id)
	for _, c := range t.Children(id) {
		if markVisible(t, c, keep, visible) {
			kept = true
		}
	}
	if kept {
		visible[id] = true
	}
	return kept
}

func addChildren(branch treeprint.Tree, t *symbol.Tree, id symbol.ID, opts TreeOptions, visible map[symbol.ID]bool, depth int) {
	children := t.Children(id)
	if len(children) == 0 {
		return
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode("...")
		return
	}
	for _, c := range children {
		if visible != nil && !visible[c] {
			continue
		}
		label := treeLabel(t, c, opts)
		if len(t.Children(c)) == 0 {
			branch.AddNode(label)
			continue
		}
		addChildren(branch.AddBranch(label), t, c, opts, visible, depth+1)
	}
}

func treeLabel(t *symbol.Tree, id symbol.ID, opts TreeOptions) string {
	s := t.Get(id)
	label := s.Name + " [" + s.Kind.String() + "]"
	if opts.Descriptions && s.Description != "" && s.Kind != symbol.Namespace {
		label += ": " + s.Description
	}
	return label
}
