// Package catalog describes the types an index is built from.
//
// A catalog is the declarative stand-in for reflecting over loaded code: each
// TypeDescriptor carries its namespace, name, generic parameters, visibility,
// abstract-ness and members. Catalogs are usually loaded from YAML, JSON or
// TOML files (see Parse and LoadFiles).
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Visibility of a type or member.
type Visibility string

//revive:disable:exported
const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Friend    Visibility = "friend"
	Private   Visibility = "private"
)

//revive:enable:exported

// Normalize maps aliases ("internal", "assembly", "family") and the empty
// value onto the four canonical visibilities. Empty means public.
func (v Visibility) Normalize() Visibility {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "", "public":
		return Public
	case "protected", "family":
		return Protected
	case "friend", "internal", "assembly":
		return Friend
	case "private":
		return Private
	}
	return v
}

// TypeKind is the reflective category of a type.
type TypeKind string

//revive:disable:exported
const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindStruct    TypeKind = "struct"
	KindPrimitive TypeKind = "primitive"
	KindDelegate  TypeKind = "delegate"
)

//revive:enable:exported

// TypeRef names a type used by a member signature.
type TypeRef struct {
	Name      string    `yaml:"name" json:"name" toml:"name"`
	Namespace string    `yaml:"namespace,omitempty" json:"namespace,omitempty" toml:"namespace,omitempty"`
	Args      []TypeRef `yaml:"args,omitempty" json:"args,omitempty" toml:"args,omitempty"`
}

// Ref is shorthand for a TypeRef with only a name, optionally qualified
// ("System.Int32").
func Ref(name string, args ...TypeRef) TypeRef {
	ns := ""
	if i := strings.LastIndex(name, "."); i > 0 {
		ns, name = name[:i], name[i+1:]
	}
	return TypeRef{Name: name, Namespace: ns, Args: args}
}

// DisplayName is the name without any backtick arity suffix.
func (r TypeRef) DisplayName() string { return StripArity(r.Name) }

// FullName is the namespace-qualified raw name.
func (r TypeRef) FullName() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// IsVoid reports whether r stands for "no value" (absent, empty or Void).
func (r *TypeRef) IsVoid() bool {
	return r == nil || r.Name == "" || strings.EqualFold(r.Name, "void")
}

// UnmarshalYAML accepts either a mapping or a plain "Ns.Name" scalar.
func (r *TypeRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = Ref(value.Value)
		return nil
	}
	type plain TypeRef
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = TypeRef(p)
	return nil
}

// UnmarshalJSON accepts either an object or a plain "Ns.Name" string.
func (r *TypeRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Ref(s)
		return nil
	}
	type plain TypeRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = TypeRef(p)
	return nil
}

// Param is a method parameter.
type Param struct {
	Name     string  `yaml:"name" json:"name" toml:"name"`
	Type     TypeRef `yaml:"type" json:"type" toml:"type"`
	ByRef    bool    `yaml:"byRef,omitempty" json:"byRef,omitempty" toml:"byRef,omitempty"`
	Optional bool    `yaml:"optional,omitempty" json:"optional,omitempty" toml:"optional,omitempty"`
	// HasDefault separates "no default" from a null default value.
	HasDefault bool `yaml:"hasDefault,omitempty" json:"hasDefault,omitempty" toml:"hasDefault,omitempty"`
	Default    any  `yaml:"default,omitempty" json:"default,omitempty" toml:"default,omitempty"`
}

// Method describes a callable member.
type Method struct {
	Name          string     `yaml:"name" json:"name" toml:"name"`
	Visibility    Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Static        bool       `yaml:"static,omitempty" json:"static,omitempty" toml:"static,omitempty"`
	Abstract      bool       `yaml:"abstract,omitempty" json:"abstract,omitempty" toml:"abstract,omitempty"`
	Virtual       bool       `yaml:"virtual,omitempty" json:"virtual,omitempty" toml:"virtual,omitempty"`
	Final         bool       `yaml:"final,omitempty" json:"final,omitempty" toml:"final,omitempty"`
	SpecialName   bool       `yaml:"specialName,omitempty" json:"specialName,omitempty" toml:"specialName,omitempty"`
	GenericParams []string   `yaml:"genericParams,omitempty" json:"genericParams,omitempty" toml:"genericParams,omitempty"`
	Params        []Param    `yaml:"params,omitempty" json:"params,omitempty" toml:"params,omitempty"`
	Returns       *TypeRef   `yaml:"returns,omitempty" json:"returns,omitempty" toml:"returns,omitempty"`
}

// Property describes a property member.
type Property struct {
	Name     string  `yaml:"name" json:"name" toml:"name"`
	Type     TypeRef `yaml:"type" json:"type" toml:"type"`
	CanRead  *bool   `yaml:"canRead,omitempty" json:"canRead,omitempty" toml:"canRead,omitempty"`
	CanWrite *bool   `yaml:"canWrite,omitempty" json:"canWrite,omitempty" toml:"canWrite,omitempty"`
}

// Readable defaults to true when unset.
func (p Property) Readable() bool { return p.CanRead == nil || *p.CanRead }

// Writable defaults to true when unset.
func (p Property) Writable() bool { return p.CanWrite == nil || *p.CanWrite }

// Field describes a field member.
type Field struct {
	Name       string     `yaml:"name" json:"name" toml:"name"`
	Type       TypeRef    `yaml:"type" json:"type" toml:"type"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty" toml:"visibility,omitempty"`
	Static     bool       `yaml:"static,omitempty" json:"static,omitempty" toml:"static,omitempty"`
}

// Event describes an event member.
type Event struct {
	Name    string   `yaml:"name" json:"name" toml:"name"`
	Handler *TypeRef `yaml:"handler,omitempty" json:"handler,omitempty" toml:"handler,omitempty"`
}

// TypeDescriptor is the reflective description of one type.
type TypeDescriptor struct {
	Namespace     string           `yaml:"namespace" json:"namespace" toml:"namespace"`
	Name          string           `yaml:"name" json:"name" toml:"name"`
	Kind          TypeKind         `yaml:"kind,omitempty" json:"kind,omitempty" toml:"kind,omitempty"`
	Public        *bool            `yaml:"public,omitempty" json:"public,omitempty" toml:"public,omitempty"`
	Abstract      bool             `yaml:"abstract,omitempty" json:"abstract,omitempty" toml:"abstract,omitempty"`
	GenericParams []string         `yaml:"genericParams,omitempty" json:"genericParams,omitempty" toml:"genericParams,omitempty"`
	Methods       []Method         `yaml:"methods,omitempty" json:"methods,omitempty" toml:"methods,omitempty"`
	Properties    []Property       `yaml:"properties,omitempty" json:"properties,omitempty" toml:"properties,omitempty"`
	Fields        []Field          `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields,omitempty"`
	Events        []Event          `yaml:"events,omitempty" json:"events,omitempty" toml:"events,omitempty"`
	Nested        []TypeDescriptor `yaml:"nested,omitempty" json:"nested,omitempty" toml:"nested,omitempty"`
}

// FullName is the namespace-qualified raw name, e.g. "System.Collections.Generic.List`1".
func (t *TypeDescriptor) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// IsPublic defaults to true when unset.
func (t *TypeDescriptor) IsPublic() bool { return t.Public == nil || *t.Public }

// IsGeneric reports whether the type declares generic parameters.
func (t *TypeDescriptor) IsGeneric() bool {
	return len(t.GenericParams) > 0 || strings.Contains(t.Name, "`")
}

// SimpleName is the identifier with any backtick arity suffix stripped.
func (t *TypeDescriptor) SimpleName() string { return StripArity(t.Name) }

// StripArity removes a trailing "`N" generic arity marker.
func StripArity(name string) string {
	i := strings.LastIndex(name, "`")
	if i < 0 || strings.TrimLeft(name[i+1:], "0123456789") != "" {
		return name
	}
	return name[:i]
}

// Arity returns the declared backtick arity, or -1 when the name carries none.
func Arity(name string) int {
	i := strings.LastIndex(name, "`")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return -1
	}
	return n
}

// ErrMalformed marks a descriptor that cannot be ingested.
var ErrMalformed = errors.New("malformed type descriptor")

// Validate reports the first structural problem found in t.
func (t *TypeDescriptor) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: empty type name", ErrMalformed)
	}
	if strings.ContainsAny(t.Name, ". ") {
		return fmt.Errorf("%w: type name %q contains a separator", ErrMalformed, t.Name)
	}
	if strings.Contains(t.Name, "`") {
		n := Arity(t.Name)
		if n < 0 {
			return fmt.Errorf("%w: bad arity suffix in %q", ErrMalformed, t.Name)
		}
		if len(t.GenericParams) > 0 && n != len(t.GenericParams) {
			return fmt.Errorf("%w: %q declares arity %d but lists %d generic parameters",
				ErrMalformed, t.Name, n, len(t.GenericParams))
		}
	}
	switch t.Kind {
	case "", KindClass, KindInterface, KindEnum, KindStruct, KindPrimitive, KindDelegate:
	default:
		return fmt.Errorf("%w: unknown kind %q on %q", ErrMalformed, t.Kind, t.Name)
	}
	for i := range t.Methods {
		if t.Methods[i].Name == "" {
			return fmt.Errorf("%w: method #%d of %q has no name", ErrMalformed, i, t.Name)
		}
	}
	for i := range t.Properties {
		if t.Properties[i].Name == "" {
			return fmt.Errorf("%w: property #%d of %q has no name", ErrMalformed, i, t.Name)
		}
	}
	for i := range t.Fields {
		if t.Fields[i].Name == "" {
			return fmt.Errorf("%w: field #%d of %q has no name", ErrMalformed, i, t.Name)
		}
	}
	for i := range t.Events {
		if t.Events[i].Name == "" {
			return fmt.Errorf("%w: event #%d of %q has no name", ErrMalformed, i, t.Name)
		}
	}
	return nil
}

// Catalog is a set of type descriptors.
type Catalog struct {
	Types []TypeDescriptor `yaml:"types" json:"types" toml:"types"`
}

// Lookup returns the first descriptor whose full name matches name
// case-insensitively, searching nested types too. Names with or without the
// arity suffix both match.
func (c *Catalog) Lookup(name string) (*TypeDescriptor, bool) {
	for i := range c.Types {
		if d, ok := lookup(&c.Types[i], "", name); ok {
			return d, true
		}
	}
	return nil, false
}

func lookup(t *TypeDescriptor, outer, name string) (*TypeDescriptor, bool) {
	full := t.FullName()
	if outer != "" {
		full = outer + "." + t.Name
	}
	if strings.EqualFold(full, name) || strings.EqualFold(StripArity(full), name) {
		return t, true
	}
	for i := range t.Nested {
		if d, ok := lookup(&t.Nested[i], full, name); ok {
			return d, true
		}
	}
	return nil, false
}
