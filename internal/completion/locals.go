package completion

import (
	"strings"

	"github.com/oakwood-commons/exprsense/internal/resolve"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
)

// Local is a variable in scope for a session.
type Local struct {
	Name string
	// Type is the variable's declared type; nil when unknown.
	Type symbol.TypeHandle
}

// NamedLocal declares a local by type name, e.g. NamedLocal("img", "Emgu.CV.Image").
func NamedLocal(name, typeName string) Local {
	if typeName == "" {
		return Local{Name: name}
	}
	return Local{Name: name, Type: catalog.Ref(typeName)}
}

// Overlay layers locals over a frozen base tree. Each local becomes a
// Primitive node at the front of the root's children, in the given order;
// names already present at the root are skipped. A local whose type
// resolves in base gets a copy of that type's members.
func Overlay(base *symbol.Tree, locals []Local) *symbol.Tree {
	o := base.Overlay()
	at := 0
	for _, l := range locals {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		if _, exists := o.Child(o.Root(), name); exists {
			continue
		}
		id := o.Insert(o.Root(), at, symbol.Symbol{
			Kind:        symbol.Primitive,
			Name:        name,
			SimpleName:  name,
			Description: localDescription(name, l.Type),
			Type:        l.Type,
		})
		at++
		if typ, ok := resolve.TypeNode(base, l.Type); ok {
			o.Graft(id, typ)
		}
	}
	o.Sort()
	o.Freeze()
	return o
}

func localDescription(name string, h symbol.TypeHandle) string {
	if h == nil {
		return name
	}
	return name + " As " + catalog.StripArity(lastDotted(h.FullName()))
}

func lastDotted(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
