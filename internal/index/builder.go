// Package index builds the symbol tree from catalog type descriptors.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/exprsense/internal/describe"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
	"github.com/oakwood-commons/exprsense/pkg/logger"
)

// DefaultIgnoreNamespaces are the namespace substrings filtered out when the
// caller supplies none.
var DefaultIgnoreNamespaces = []string{"XamlGeneratedNamespace", "Microsoft", "Internal"}

// ErrBuildCanceled is returned when the build context ends before every
// descriptor was ingested.
var ErrBuildCanceled = errors.New("index build canceled")

// accessorPrefixes mark compiler-synthesised methods that never show up as
// completion items.
var accessorPrefixes = []string{"get_", "set_", "add_", "remove_", "op_"}

// Options tune which descriptors reach the tree.
type Options struct {
	// IgnoreNamespaces are matched case-insensitively as substrings of a type's
	// namespace. Nil means DefaultIgnoreNamespaces; an empty non-nil slice
	// ignores nothing.
	IgnoreNamespaces []string
	// AllowAbstract keeps abstract types.
	AllowAbstract bool
}

// SkipError records a descriptor that could not be ingested.
type SkipError struct {
	Type string
	Err  error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped %s: %v", e.Type, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// Report summarises a build.
type Report struct {
	Types    int
	Filtered int
	Skipped  []*SkipError
}

// Err joins every skip into one error, or returns nil.
func (r *Report) Err() error {
	if r == nil || len(r.Skipped) == 0 {
		return nil
	}
	errs := make([]error, len(r.Skipped))
	for i, s := range r.Skipped {
		errs[i] = s
	}
	return errors.Join(errs...)
}

// Builder ingests descriptors into a fresh tree. It is not safe for
// concurrent use; Build and BuildAsync wrap it for the common cases.
type Builder struct {
	opts       Options
	ignore     []string
	tree       *symbol.Tree
	namespaces map[string]symbol.ID
	report     Report
}

// NewBuilder returns a builder with an empty tree.
func NewBuilder(opts Options) *Builder {
	ignore := opts.IgnoreNamespaces
	if ignore == nil {
		ignore = DefaultIgnoreNamespaces
	}
	lowered := make([]string, 0, len(ignore))
	for _, s := range ignore {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}
	t := symbol.New()
	return &Builder{
		opts:       opts,
		ignore:     lowered,
		tree:       t,
		namespaces: map[string]symbol.ID{"": t.Root()},
	}
}

// Add ingests descriptors in order. A malformed descriptor is logged and
// recorded in the report; it never stops the build.
func (b *Builder) Add(ctx context.Context, descs ...catalog.TypeDescriptor) error {
	lgr := logger.FromContext(ctx)
	for i := range descs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrBuildCanceled, err)
		}
		d := &descs[i]
		if !b.accept(d) {
			b.report.Filtered++
			continue
		}
		added, err := b.addType(d)
		if err != nil {
			skip := &SkipError{Type: d.FullName(), Err: err}
			b.report.Skipped = append(b.report.Skipped, skip)
			lgr.Info("skipping type descriptor", "type", skip.Type, "error", err.Error())
			continue
		}
		if added {
			b.report.Types++
		} else {
			b.report.Filtered++
		}
	}
	return nil
}

// Finish sorts and freezes the tree. The builder must not be used afterwards.
func (b *Builder) Finish() (*symbol.Tree, *Report) {
	b.tree.Sort()
	b.tree.Freeze()
	r := b.report
	return b.tree, &r
}

func (b *Builder) accept(d *catalog.TypeDescriptor) bool {
	if !d.IsPublic() || d.Namespace == "" {
		return false
	}
	ns := strings.ToLower(d.Namespace)
	for _, s := range b.ignore {
		if strings.Contains(ns, s) {
			return false
		}
	}
	return true
}

func (b *Builder) addType(d *catalog.TypeDescriptor) (added bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			added, err = false, fmt.Errorf("panic while ingesting: %v", r)
		}
	}()
	if err := d.Validate(); err != nil {
		return false, err
	}
	parent := b.namespace(d.Namespace)
	if d.Abstract && !b.opts.AllowAbstract {
		return false, nil
	}
	AddType(b.tree, parent, d, d, b.opts.AllowAbstract)
	return true, nil
}

// namespace returns the node for a dotted namespace, creating missing
// segments along the way. Segments match case-insensitively; the first
// spelling seen is the one kept.
func (b *Builder) namespace(path string) symbol.ID {
	key := strings.ToLower(path)
	if id, ok := b.namespaces[key]; ok {
		return id
	}
	parent := b.tree.Root()
	prefix := ""
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		if prefix == "" {
			prefix = strings.ToLower(seg)
		} else {
			prefix += "." + strings.ToLower(seg)
		}
		if id, ok := b.namespaces[prefix]; ok {
			parent = id
			continue
		}
		parent = b.tree.Add(parent, symbol.Symbol{
			Kind:        symbol.Namespace,
			Name:        seg,
			SimpleName:  seg,
			Description: describe.Namespace(seg),
		})
		b.namespaces[prefix] = parent
	}
	b.namespaces[key] = parent
	return parent
}

// AddType adds d as a type node under parent followed by its members and
// nested types, and returns the new node. handle becomes the node's type
// handle. Nothing is added for an abstract type unless allowAbstract is set.
func AddType(t *symbol.Tree, parent symbol.ID, d *catalog.TypeDescriptor, handle symbol.TypeHandle, allowAbstract bool) symbol.ID {
	kind := KindOf(d)
	simple := d.SimpleName()
	name := simple
	if d.IsGeneric() {
		name = describe.GenericName(simple, d.GenericParams)
	}
	id := t.Add(parent, symbol.Symbol{
		Kind:        kind,
		Name:        name,
		SimpleName:  simple,
		Description: describe.Type(kind, simple),
		Type:        handle,
	})

	for i := range d.Methods {
		m := &d.Methods[i]
		if !memberVisible(m.Visibility) || isSpecialName(m) {
			continue
		}
		t.Add(id, symbol.Symbol{Kind: symbol.Method, Name: m.Name, SimpleName: m.Name, Description: describe.Method(m)})
	}
	for i := range d.Properties {
		p := &d.Properties[i]
		t.Add(id, symbol.Symbol{Kind: symbol.Property, Name: p.Name, SimpleName: p.Name, Description: describe.Property(p)})
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if !memberVisible(f.Visibility) {
			continue
		}
		t.Add(id, symbol.Symbol{Kind: symbol.Field, Name: f.Name, SimpleName: f.Name, Description: describe.Field(f)})
	}
	for i := range d.Events {
		e := &d.Events[i]
		t.Add(id, symbol.Symbol{Kind: symbol.Event, Name: e.Name, SimpleName: e.Name, Description: describe.Event(e)})
	}
	outer := handle.FullName()
	for i := range d.Nested {
		n := &d.Nested[i]
		if !n.IsPublic() || (n.Abstract && !allowAbstract) || n.Validate() != nil {
			continue
		}
		AddType(t, id, n, NestedHandle{Outer: outer, Descriptor: n}, allowAbstract)
	}
	return id
}

// KindOf maps a descriptor's category to a symbol kind. Delegates are classes.
func KindOf(d *catalog.TypeDescriptor) symbol.Kind {
	switch d.Kind {
	case catalog.KindEnum:
		return symbol.Enum
	case catalog.KindInterface:
		return symbol.Interface
	case catalog.KindPrimitive:
		return symbol.Primitive
	case catalog.KindStruct:
		return symbol.ValueType
	}
	return symbol.Class
}

// memberVisible keeps public members only; protected and friend members
// cannot be reached from an expression.
func memberVisible(v catalog.Visibility) bool {
	return v.Normalize() == catalog.Public
}

func isSpecialName(m *catalog.Method) bool {
	if m.SpecialName {
		return true
	}
	for _, p := range accessorPrefixes {
		if strings.HasPrefix(m.Name, p) {
			return true
		}
	}
	return false
}

// NestedHandle is the type handle of a nested type: its full name is the
// outer type's full name plus its own.
type NestedHandle struct {
	Outer      string
	Descriptor *catalog.TypeDescriptor
}

// FullName returns "Outer.Inner".
func (h NestedHandle) FullName() string { return h.Outer + "." + h.Descriptor.Name }

// DescriptorOf returns the descriptor behind a type handle created by this
// package, or nil.
func DescriptorOf(h symbol.TypeHandle) *catalog.TypeDescriptor {
	switch v := h.(type) {
	case *catalog.TypeDescriptor:
		return v
	case NestedHandle:
		return v.Descriptor
	}
	return nil
}
