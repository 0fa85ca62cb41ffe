//revive:disable:exported
package completion

import (
	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// Completion is one popup row.
type Completion struct {
	ID      symbol.ID   // Node in the session tree
	Text    string      // Simple name, inserted on pointer commit
	Display string      // Displayed name, e.g. "List(T)"
	Path    string      // Full dotted path, inserted on keyboard commit
	Kind    symbol.Kind // Symbol kind, drives the row icon
	Detail  string      // Rendered signature
}

//revive:enable:exported

// FromSymbols converts tree nodes into popup rows, preserving order.
func FromSymbols(t *symbol.Tree, ids []symbol.ID) []Completion {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Completion, len(ids))
	for i, id := range ids {
		s := t.Get(id)
		out[i] = Completion{
			ID:      id,
			Text:    s.SimpleName,
			Display: s.Name,
			Path:    t.FullPath(id),
			Kind:    s.Kind,
			Detail:  s.Description,
		}
	}
	return out
}

// Glyph is a short kind marker for text renderings of a row.
func Glyph(k symbol.Kind) string {
	switch k {
	case symbol.Namespace:
		return "{}"
	case symbol.Class:
		return "C"
	case symbol.Interface:
		return "I"
	case symbol.Enum:
		return "E"
	case symbol.ValueType:
		return "S"
	case symbol.Primitive:
		return "P"
	case symbol.Method:
		return "M"
	case symbol.Property:
		return "p"
	case symbol.Field:
		return "f"
	case symbol.Event:
		return "e"
	}
	return "?"
}
