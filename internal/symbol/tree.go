// Package symbol holds the symbol tree behind expression completion.
//
// The tree is an arena: every Symbol lives in a slice and is addressed by an
// ID, so parent back-references never form pointer cycles. A published tree
// is frozen and may be read from any goroutine. Per-session additions go into
// an Overlay, which layers new nodes on top of a frozen base without touching it.
package symbol

import (
	"sort"
	"strings"
)

// ID addresses a Symbol inside a Tree.
type ID int32

// None is the parent of the root.
const None ID = -1

// TypeHandle is an opaque reference to the descriptor a type or local symbol
// came from. Only its full name is needed to dereference "X." into X's members.
type TypeHandle interface {
	FullName() string
}

// Symbol is one node of the completion tree.
type Symbol struct {
	Kind Kind
	// Name is the displayed identifier, e.g. "Dictionary(TKey, TValue)".
	Name string
	// SimpleName is Name without generic decoration; it is the commit token.
	SimpleName  string
	Description string
	Type        TypeHandle
	Parent      ID

	children []ID
	dirty    bool
}

// Children returns the child IDs. The slice must not be modified.
func (s *Symbol) Children() []ID { return s.children }

// Tree is an arena of symbols rooted at an unnamed Namespace.
type Tree struct {
	base   *Tree
	offset int
	nodes  []Symbol
	root   ID
	frozen bool
}

// New returns a tree holding only the root: kind Namespace, empty name, no parent.
func New() *Tree {
	return &Tree{
		nodes: []Symbol{{Kind: Namespace, Parent: None}},
		root:  0,
	}
}

// Root returns the root ID.
func (t *Tree) Root() ID { return t.root }

// Len returns the number of symbols addressable through t, base included.
func (t *Tree) Len() int { return t.offset + len(t.nodes) }

// Valid reports whether id addresses a symbol of t.
func (t *Tree) Valid(id ID) bool { return id >= 0 && int(id) < t.Len() }

// Get returns the symbol for id. The returned pointer is read-only for frozen
// and base nodes; mutate through Tree methods only.
func (t *Tree) Get(id ID) *Symbol {
	if int(id) < t.offset {
		return t.base.Get(id)
	}
	return &t.nodes[int(id)-t.offset]
}

// Children is shorthand for t.Get(id).Children().
func (t *Tree) Children(id ID) []ID { return t.Get(id).children }

// Freeze marks the tree read-only. Further structural mutation panics.
func (t *Tree) Freeze() { t.frozen = true }

// Frozen reports whether the tree has been published.
func (t *Tree) Frozen() bool { return t.frozen }

func (t *Tree) mutable(id ID) *Symbol {
	if t.frozen {
		panic("symbol: mutation of a frozen tree")
	}
	if int(id) < t.offset {
		panic("symbol: mutation of a shared base node")
	}
	return &t.nodes[int(id)-t.offset]
}

// Add appends s as the last child of parent and marks parent's child list for
// a resort. It returns the new symbol's ID.
func (t *Tree) Add(parent ID, s Symbol) ID {
	p := t.mutable(parent)
	id := ID(t.Len())
	s.Parent = parent
	s.children = nil
	s.dirty = false
	p.children = append(p.children, id)
	p.dirty = true
	t.nodes = append(t.nodes, s)
	return id
}

// Insert places s at position at in parent's child list without marking it
// for a resort. Locals are prepended this way so they surface first.
func (t *Tree) Insert(parent ID, at int, s Symbol) ID {
	t.mutable(parent)
	id := ID(t.Len())
	s.Parent = parent
	s.children = nil
	s.dirty = false
	t.nodes = append(t.nodes, s)

	p := t.mutable(parent)
	if at < 0 {
		at = 0
	}
	if at > len(p.children) {
		at = len(p.children)
	}
	p.children = append(p.children, 0)
	copy(p.children[at+1:], p.children[at:])
	p.children[at] = id
	return id
}

// Child returns the first child of parent whose name matches name
// case-insensitively.
func (t *Tree) Child(parent ID, name string) (ID, bool) {
	for _, c := range t.Get(parent).children {
		if strings.EqualFold(t.Get(c).Name, name) {
			return c, true
		}
	}
	return None, false
}

// FullPath joins the names from the root down to id with ".", skipping the
// empty root name.
func (t *Tree) FullPath(id ID) string {
	var parts []string
	for cur := id; cur != None; cur = t.Get(cur).Parent {
		if name := t.Get(cur).Name; name != "" {
			parts = append(parts, name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Namespace returns the full path of the nearest Namespace at or above id.
func (t *Tree) Namespace(id ID) string {
	for cur := id; cur != None; cur = t.Get(cur).Parent {
		if t.Get(cur).Kind == Namespace {
			return t.FullPath(cur)
		}
	}
	return ""
}

// SortChildren orders id's children by ordinal name comparison.
func (t *Tree) SortChildren(id ID) {
	s := t.mutable(id)
	sort.SliceStable(s.children, func(i, j int) bool {
		return t.Get(s.children[i]).Name < t.Get(s.children[j]).Name
	})
	s.dirty = false
}

// Sort resorts every child list of t's own nodes that was marked by Add.
func (t *Tree) Sort() {
	for i := range t.nodes {
		id := ID(t.offset + i)
		if t.nodes[i].dirty {
			t.SortChildren(id)
		}
	}
}

// Walk visits id and its descendants depth-first in child order. Returning
// false from fn skips the node's subtree.
func (t *Tree) Walk(id ID, fn func(id ID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id ID, depth int, fn func(ID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.Get(id).children {
		t.walk(c, depth+1, fn)
	}
}

// Overlay returns a mutable tree layered on the frozen t. Its root is a fresh
// copy of t's root with its own child list, so additions under the overlay
// root never reach t.
func (t *Tree) Overlay() *Tree {
	if !t.frozen {
		panic("symbol: overlay on an unpublished tree")
	}
	src := t.Get(t.root)
	root := Symbol{
		Kind:        src.Kind,
		Name:        src.Name,
		SimpleName:  src.SimpleName,
		Description: src.Description,
		Type:        src.Type,
		Parent:      None,
		children:    append([]ID(nil), src.children...),
	}
	o := &Tree{
		base:   t,
		offset: t.Len(),
		nodes:  []Symbol{root},
	}
	o.root = ID(o.offset)
	return o
}

// Base returns the tree an overlay was created from, or nil.
func (t *Tree) Base() *Tree { return t.base }

// Graft copies the subtree below src (which may live in the base) under
// parent, preserving child order. The copies are owned by t.
func (t *Tree) Graft(parent, src ID) {
	for _, c := range t.Get(src).children {
		s := t.Get(c)
		id := t.Add(parent, Symbol{
			Kind:        s.Kind,
			Name:        s.Name,
			SimpleName:  s.SimpleName,
			Description: s.Description,
			Type:        s.Type,
		})
		t.Graft(id, c)
	}
}
