package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// MermaidOptions controls Mermaid diagram output.
type MermaidOptions struct {
	// Direction is TD, LR, BT or RL. Default TD.
	Direction string
	// MaxDepth limits depth below the start node; 0 means unlimited.
	MaxDepth int
	// TypesOnly drops member symbols, which keeps large catalogs readable.
	TypesOnly bool
}

type mermaidBuilder struct {
	lines  []string
	nodeID int
	opts   MermaidOptions
}

// FormatSymbolMermaid renders the subtree below from as a flowchart.
func FormatSymbolMermaid(t *symbol.Tree, from symbol.ID, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines: []string{"graph " + opts.Direction},
		opts:  opts,
	}
	rootLabel := t.Get(from).Name
	if rootLabel == "" {
		rootLabel = "(global)"
	}
	rootID := b.nextID()
	b.addNode(rootID, rootLabel)
	b.build(t, from, rootID, 0)
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

func (b *mermaidBuilder) addNode(id, label string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s[\"%s\"]", id, escapeMermaid(label)))
}

func (b *mermaidBuilder) build(t *symbol.Tree, id symbol.ID, nodeID string, depth int) {
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		return
	}
	for _, c := range t.Children(id) {
		s := t.Get(c)
		if b.opts.TypesOnly && s.Kind.IsMember() {
			continue
		}
		cid := b.nextID()
		b.addNode(cid, s.Name)
		b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", nodeID, cid))
		b.build(t, c, cid, depth+1)
	}
}

// escapeMermaid replaces characters that break quoted Mermaid labels.
func escapeMermaid(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;", "\n", " ")
	return r.Replace(s)
}
