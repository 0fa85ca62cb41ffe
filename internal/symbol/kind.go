package symbol

import "strings"

// Kind tags a Symbol as a namespace, a type or a member.
type Kind int

//revive:disable:exported
const (
	Namespace Kind = iota
	Class
	Interface
	Enum
	ValueType
	Primitive
	Method
	Property
	Field
	Event
)

//revive:enable:exported

var kindNames = [...]string{
	Namespace: "Namespace",
	Class:     "Class",
	Interface: "Interface",
	Enum:      "Enum",
	ValueType: "ValueType",
	Primitive: "Primitive",
	Method:    "Method",
	Property:  "Property",
	Field:     "Field",
	Event:     "Event",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// ParseKind maps a kind name (case-insensitive) back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), true
		}
	}
	return 0, false
}

// IsType reports whether k is one of the type kinds.
func (k Kind) IsType() bool {
	switch k {
	case Class, Interface, Enum, ValueType, Primitive:
		return true
	}
	return false
}

// IsMember reports whether k is one of the member kinds. Members never have children.
func (k Kind) IsMember() bool {
	switch k {
	case Method, Property, Field, Event:
		return true
	}
	return false
}

// HasOwnNamespace reports whether symbols of this kind open a scope that can
// be dereferenced with a dot (classes, interfaces, enums and value types).
func (k Kind) HasOwnNamespace() bool {
	switch k {
	case Class, Interface, Enum, ValueType:
		return true
	}
	return false
}
