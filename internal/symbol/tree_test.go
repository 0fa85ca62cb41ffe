package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) (*Tree, ID, ID) {
	t.Helper()
	tr := New()
	system := tr.Add(tr.Root(), Symbol{Kind: Namespace, Name: "System", SimpleName: "System"})
	collections := tr.Add(system, Symbol{Kind: Namespace, Name: "Collections", SimpleName: "Collections"})
	generic := tr.Add(collections, Symbol{Kind: Namespace, Name: "Generic", SimpleName: "Generic"})
	list := tr.Add(generic, Symbol{Kind: Class, Name: "List(T)", SimpleName: "List"})
	tr.Add(list, Symbol{Kind: Method, Name: "Sort", SimpleName: "Sort"})
	tr.Add(list, Symbol{Kind: Method, Name: "Add", SimpleName: "Add"})
	tr.Add(generic, Symbol{Kind: Class, Name: "Dictionary(TKey, TValue)", SimpleName: "Dictionary"})
	return tr, generic, list
}

func TestNewRoot(t *testing.T) {
	tr := New()
	root := tr.Get(tr.Root())
	assert.Equal(t, Namespace, root.Kind)
	assert.Empty(t, root.Name)
	assert.Equal(t, None, root.Parent)
	assert.Equal(t, 1, tr.Len())
}

func TestFullPathAndNamespace(t *testing.T) {
	tr, generic, list := sampleTree(t)
	assert.Equal(t, "System.Collections.Generic", tr.FullPath(generic))
	assert.Equal(t, "System.Collections.Generic.List(T)", tr.FullPath(list))
	assert.Equal(t, "System.Collections.Generic", tr.Namespace(list))
	assert.Empty(t, tr.FullPath(tr.Root()))
	assert.Equal(t, generic, tr.Get(list).Parent)
}

func TestSortOrdinal(t *testing.T) {
	tr, generic, list := sampleTree(t)
	tr.Add(tr.Root(), Symbol{Kind: Namespace, Name: "abc"})
	tr.Add(tr.Root(), Symbol{Kind: Namespace, Name: "Zed"})
	tr.Sort()

	names := func(id ID) []string {
		var out []string
		for _, c := range tr.Children(id) {
			out = append(out, tr.Get(c).Name)
		}
		return out
	}
	assert.Equal(t, []string{"Add", "Sort"}, names(list))
	assert.Equal(t, []string{"Dictionary(TKey, TValue)", "List(T)"}, names(generic))
	// ordinal: upper case sorts before lower case
	assert.Equal(t, []string{"System", "Zed", "abc"}, names(tr.Root()))
}

func TestChildCaseInsensitive(t *testing.T) {
	tr, _, _ := sampleTree(t)
	id, ok := tr.Child(tr.Root(), "system")
	require.True(t, ok)
	assert.Equal(t, "System", tr.Get(id).Name)

	_, ok = tr.Child(tr.Root(), "Missing")
	assert.False(t, ok)
}

func TestWalk(t *testing.T) {
	tr, _, _ := sampleTree(t)
	tr.Sort()

	var visited []string
	tr.Walk(tr.Root(), func(id ID, depth int) bool {
		s := tr.Get(id)
		visited = append(visited, s.Name)
		return s.Kind == Namespace
	})
	assert.Equal(t, []string{"", "System", "Collections", "Generic", "Dictionary(TKey, TValue)", "List(T)"}, visited)
}

func TestFrozenTreePanics(t *testing.T) {
	tr, _, _ := sampleTree(t)
	tr.Freeze()
	assert.True(t, tr.Frozen())
	assert.Panics(t, func() { tr.Add(tr.Root(), Symbol{Name: "x"}) })
	assert.Panics(t, func() { tr.Insert(tr.Root(), 0, Symbol{Name: "x"}) })
	assert.Panics(t, func() { tr.SortChildren(tr.Root()) })
}

func TestOverlayIsolation(t *testing.T) {
	tr, _, list := sampleTree(t)
	tr.Sort()
	tr.Freeze()
	baseLen := tr.Len()
	baseRootChildren := append([]ID(nil), tr.Children(tr.Root())...)

	o := tr.Overlay()
	assert.Same(t, tr, o.Base())
	assert.Equal(t, ID(baseLen), o.Root())

	local := o.Insert(o.Root(), 0, Symbol{Kind: Primitive, Name: "img", SimpleName: "img"})
	o.Add(local, Symbol{Kind: Method, Name: "Save", SimpleName: "Save"})
	o.Sort()

	assert.Equal(t, local, o.Children(o.Root())[0])
	assert.Equal(t, "img.Save", o.FullPath(o.Children(local)[0]))
	// base nodes are visible through the overlay
	assert.Equal(t, "System.Collections.Generic.List(T)", o.FullPath(list))

	// the base is untouched
	assert.Equal(t, baseLen, tr.Len())
	assert.Equal(t, baseRootChildren, tr.Children(tr.Root()))
	assert.Panics(t, func() { o.Add(list, Symbol{Name: "Hack"}) })
}

func TestOverlayRequiresFrozenBase(t *testing.T) {
	tr := New()
	assert.Panics(t, func() { tr.Overlay() })
}

func TestKind(t *testing.T) {
	for k := Namespace; k <= Event; k++ {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("record")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Kind(99).String())

	assert.True(t, Class.IsType())
	assert.False(t, Namespace.IsType())
	assert.True(t, Event.IsMember())
	assert.True(t, ValueType.HasOwnNamespace())
	assert.False(t, Primitive.HasOwnNamespace())
}

func TestGraftIntoOverlay(t *testing.T) {
	tr, _, list := sampleTree(t)
	tr.Sort()
	tr.Freeze()

	o := tr.Overlay()
	local := o.Insert(o.Root(), 0, Symbol{Kind: Primitive, Name: "items", SimpleName: "items"})
	o.Graft(local, list)
	o.Sort()

	var names []string
	for _, c := range o.Children(local) {
		names = append(names, o.Get(c).Name)
		assert.Equal(t, local, o.Get(c).Parent)
	}
	assert.Equal(t, []string{"Add", "Sort"}, names)
	assert.Len(t, tr.Children(list), 2)
}
