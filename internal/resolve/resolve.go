// Package resolve answers path and prefix queries against a symbol tree.
//
// Everything here is read-only over the tree and safe to call from any
// goroutine once the tree is frozen.
package resolve

import (
	"strings"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// ExactPath descends from `from` following the dot-separated path,
// matching each segment case-insensitively against child names. Empty
// segments are skipped. When a segment has no match the deepest node
// reached is returned, so callers compare FullPath to tell a hit from a
// partial descent.
func ExactPath(t *symbol.Tree, from symbol.ID, path string) symbol.ID {
	cur := from
	for _, seg := range strings.Split(path, ".") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		next, ok := t.Child(cur, seg)
		if !ok {
			return cur
		}
		cur = next
	}
	return cur
}

// Found reports whether ExactPath fully resolved path to id.
func Found(t *symbol.Tree, id symbol.ID, path string) bool {
	return strings.EqualFold(t.FullPath(id), strings.Trim(path, "."))
}

// TypeNode finds the tree node for a type handle. Generic types are named
// "List(T)" in the tree but "List`1" in their full name, so a segment with no
// child of that name is matched against the children's own type handles.
func TypeNode(t *symbol.Tree, h symbol.TypeHandle) (symbol.ID, bool) {
	if h == nil {
		return symbol.None, false
	}
	cur := t.Root()
	consumed := ""
	for _, seg := range strings.Split(h.FullName(), ".") {
		if seg == "" {
			continue
		}
		if consumed == "" {
			consumed = seg
		} else {
			consumed += "." + seg
		}
		if next, ok := t.Child(cur, seg); ok {
			cur = next
			continue
		}
		next, ok := childByHandle(t, cur, consumed)
		if !ok {
			return symbol.None, false
		}
		cur = next
	}
	if cur == t.Root() || !t.Get(cur).Kind.IsType() {
		return symbol.None, false
	}
	return cur, true
}

func childByHandle(t *symbol.Tree, parent symbol.ID, fullName string) (symbol.ID, bool) {
	for _, c := range t.Children(parent) {
		s := t.Get(c)
		if s.Kind.IsType() && s.Type != nil && strings.EqualFold(s.Type.FullName(), fullName) {
			return c, true
		}
	}
	return symbol.None, false
}

// PartialMatch lists the candidates under node for the text typed so far.
//
// A non-namespace node yields its children only when prefix ends with a dot.
// For a namespace, the last dotted segment of prefix is matched against
// child names: by substring, or by exact name when prefix ends with ")."
// (the anchor is the identifier before the final parenthesis). A segment
// that names a typed variable among the children also pulls in the members
// of the variable's type.
func PartialMatch(t *symbol.Tree, node symbol.ID, prefix string) []symbol.ID {
	n := t.Get(node)
	if n.Kind != symbol.Namespace {
		if strings.HasSuffix(prefix, ".") {
			return clone(n.Children())
		}
		return nil
	}

	target := strings.ToLower(prefix)
	exact := false
	if strings.HasSuffix(target, ").") {
		if pos := strings.LastIndex(target, "("); pos >= 0 {
			target = target[:pos]
		}
		exact = true
	}

	var seg string
	if before, ok := strings.CutSuffix(target, "."); ok {
		seg = lastSegment(before)
		if seg == "" || before == strings.ToLower(t.FullPath(node)) || seg == strings.ToLower(n.Name) {
			return clone(n.Children())
		}
	} else {
		seg = lastSegment(target)
		if seg == "" {
			return clone(n.Children())
		}
	}

	var out []symbol.ID
	for _, c := range n.Children() {
		name := strings.ToLower(t.Get(c).Name)
		if (exact && name == seg) || (!exact && strings.Contains(name, seg)) {
			out = append(out, c)
		}
	}

	if v, ok := variable(t, node, seg); ok {
		if typ, found := TypeNode(t, t.Get(v).Type); found && len(t.Children(typ)) > 0 {
			if exact {
				out = clone(t.Children(v))
			} else {
				out = append(out, t.Children(typ)...)
			}
		}
	}
	return out
}

// variable returns the child of node that is a typed local named name.
func variable(t *symbol.Tree, node symbol.ID, name string) (symbol.ID, bool) {
	for _, c := range t.Children(node) {
		s := t.Get(c)
		if s.Kind == symbol.Primitive && s.Type != nil && strings.EqualFold(s.Name, name) {
			return c, true
		}
	}
	return symbol.None, false
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func clone(ids []symbol.ID) []symbol.ID {
	if len(ids) == 0 {
		return nil
	}
	return append([]symbol.ID(nil), ids...)
}
