// Package describe renders the one-line signatures shown next to completion
// items. The strings are user visible and stable: tests pin them exactly.
package describe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
)

// Namespace returns "Namespace <name>" for a single namespace segment.
func Namespace(name string) string {
	return "Namespace " + name
}

// Type renders a type node: "Class X", "Enum X", "Interface X", or the bare
// simple name for primitives and value types.
func Type(kind symbol.Kind, simpleName string) string {
	switch kind {
	case symbol.Class:
		return "Class " + simpleName
	case symbol.Enum:
		return "Enum " + simpleName
	case symbol.Interface:
		return "Interface " + simpleName
	}
	return simpleName
}

// Method renders
//
//	vis [MustOverride|Overridable] [Shared] {Sub|Function} Name[(Of T)](params) [As Ret]
//
// The ") " before the return clause is always emitted, so a Sub ends with a space.
func Method(m *catalog.Method) string {
	var b strings.Builder
	b.WriteString(visibility(m.Visibility))
	b.WriteByte(' ')
	switch {
	case m.Abstract:
		b.WriteString("MustOverride ")
	case m.Virtual && !m.Final:
		b.WriteString("Overridable ")
	}
	if m.Static {
		b.WriteString("Shared ")
	}
	if m.Returns.IsVoid() {
		b.WriteString("Sub ")
	} else {
		b.WriteString("Function ")
	}
	b.WriteString(m.Name)
	b.WriteString(GenericList(m.GenericParams))
	b.WriteByte('(')
	for i := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Param(&m.Params[i]))
	}
	b.WriteString(") ")
	if !m.Returns.IsVoid() {
		b.WriteString("As ")
		b.WriteString(TypeName(*m.Returns))
	}
	return b.String()
}

// Param renders "[Optional ]{ByRef|ByVal} name As Type[ = default]".
func Param(p *catalog.Param) string {
	var b strings.Builder
	if p.Optional {
		b.WriteString("Optional ")
	}
	if p.ByRef {
		b.WriteString("ByRef ")
	} else {
		b.WriteString("ByVal ")
	}
	b.WriteString(p.Name)
	b.WriteString(" As ")
	b.WriteString(TypeName(p.Type))
	if p.HasDefault {
		b.WriteString(" = ")
		b.WriteString(Literal(p.Default))
	}
	return b.String()
}

// Property renders "[ReadOnly|WriteOnly] Property Name As Type".
func Property(p *catalog.Property) string {
	var b strings.Builder
	if r, w := p.Readable(), p.Writable(); r != w {
		if r {
			b.WriteString("ReadOnly ")
		} else {
			b.WriteString("WriteOnly ")
		}
	}
	b.WriteString("Property ")
	b.WriteString(p.Name)
	b.WriteString(" As ")
	b.WriteString(TypeName(p.Type))
	return b.String()
}

// Field renders "vis [Shared] Name() As Type".
func Field(f *catalog.Field) string {
	var b strings.Builder
	b.WriteString(visibility(f.Visibility))
	b.WriteByte(' ')
	if f.Static {
		b.WriteString("Shared ")
	}
	b.WriteString(f.Name)
	b.WriteString("() ")
	if f.Type.Name != "" {
		b.WriteString("As ")
		b.WriteString(TypeName(f.Type))
	}
	return b.String()
}

// Event renders "Name As Handler".
func Event(e *catalog.Event) string {
	if e.Handler == nil || e.Handler.Name == "" {
		return e.Name
	}
	return e.Name + " As " + TypeName(*e.Handler)
}

// TypeName renders a type reference by its simple name plus "(Of ...)" for
// generic arguments.
func TypeName(r catalog.TypeRef) string {
	if len(r.Args) == 0 {
		return r.DisplayName()
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = TypeName(a)
	}
	return r.DisplayName() + GenericList(args)
}

// GenericList renders "(Of T1, T2)", or "" for no parameters.
func GenericList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "(Of " + strings.Join(names, ", ") + ")"
}

// GenericName renders a generic type's display name, "Name(T1, T2)".
func GenericName(simpleName string, params []string) string {
	if len(params) == 0 {
		return simpleName
	}
	return simpleName + "(" + strings.Join(params, ", ") + ")"
}

// Literal renders a default parameter value the way the expression language
// would spell it.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "Nothing"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

func visibility(v catalog.Visibility) string {
	switch v.Normalize() {
	case catalog.Protected:
		return "Protected"
	case catalog.Friend:
		return "Friend"
	case catalog.Private:
		return "Private"
	}
	return "Public"
}
