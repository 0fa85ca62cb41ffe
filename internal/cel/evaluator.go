// Package cel filters symbol trees with CEL predicates.
//
// A predicate sees one symbol at a time through these variables:
//
//	kind         string  "Namespace", "Class", "Method", ...
//	name         string  displayed name, e.g. "List(T)"
//	simpleName   string  name without generic decoration
//	path         string  full dotted path
//	namespace    string  nearest enclosing namespace
//	description  string  rendered signature
//	depth        int     distance from the walk start
//	children     int     number of child symbols
//	isType       bool
//	isMember     bool
//	_            map     all of the above
//
// Example: kind == "Method" && description.contains("Shared")
package cel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/exprsense/internal/symbol"
)

// ErrNotPredicate is returned for expressions whose type is not bool.
var ErrNotPredicate = errors.New("expression is not a predicate")

// Record is the view of a symbol a predicate evaluates against.
type Record struct {
	Kind        string `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"`
	SimpleName  string `json:"simpleName" yaml:"simpleName"`
	Path        string `json:"path" yaml:"path"`
	Namespace   string `json:"namespace" yaml:"namespace"`
	Description string `json:"description" yaml:"description"`
	Depth       int    `json:"depth" yaml:"depth"`
	Children    int    `json:"children" yaml:"children"`
	IsType      bool   `json:"isType" yaml:"isType"`
	IsMember    bool   `json:"isMember" yaml:"isMember"`
}

// RecordOf builds the record for id.
func RecordOf(t *symbol.Tree, id symbol.ID, depth int) Record {
	s := t.Get(id)
	return Record{
		Kind:        s.Kind.String(),
		Name:        s.Name,
		SimpleName:  s.SimpleName,
		Path:        t.FullPath(id),
		Namespace:   t.Namespace(id),
		Description: s.Description,
		Depth:       depth,
		Children:    len(s.Children()),
		IsType:      s.Kind.IsType(),
		IsMember:    s.Kind.IsMember(),
	}
}

func (r Record) vars() map[string]any {
	m := map[string]any{
		"kind":        r.Kind,
		"name":        r.Name,
		"simpleName":  r.SimpleName,
		"path":        r.Path,
		"namespace":   r.Namespace,
		"description": r.Description,
		"depth":       int64(r.Depth),
		"children":    int64(r.Children),
		"isType":      r.IsType,
		"isMember":    r.IsMember,
	}
	all := make(map[string]any, len(m))
	for k, v := range m {
		all[k] = v
	}
	m["_"] = all
	return m
}

// Evaluator compiles symbol predicates.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the string, list and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newSymbolEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Env returns the CEL environment for introspection.
func (e *Evaluator) Env() *cel.Env {
	return e.env
}

func newSymbolEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	all := make([]cel.EnvOption, 0, 14+len(opts))
	all = append(all,
		cel.Variable("kind", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("simpleName", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("namespace", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("depth", cel.IntType),
		cel.Variable("children", cel.IntType),
		cel.Variable("isType", cel.BoolType),
		cel.Variable("isMember", cel.BoolType),
		cel.Variable("_", cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	all = append(all, opts...)
	return cel.NewEnv(all...)
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. The result type must be bool.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrNotPredicate)
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(types.BoolType) {
		return nil, fmt.Errorf("%w: %q has type %v", ErrNotPredicate, expr, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

func (p *Predicate) String() string { return p.expr }

// Match evaluates the predicate against r.
func (p *Predicate) Match(r Record) (bool, error) {
	out, _, err := p.prg.Eval(r.vars())
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: got %v", ErrNotPredicate, out.Type())
	}
	return bool(b), nil
}

// Filter walks the subtree below from (excluding from itself) and returns
// the symbols p accepts, in walk order. A nil predicate accepts everything.
func Filter(ctx context.Context, t *symbol.Tree, from symbol.ID, p *Predicate) ([]symbol.ID, error) {
	var (
		out []symbol.ID
		err error
	)
	t.Walk(from, func(id symbol.ID, depth int) bool {
		if err != nil {
			return false
		}
		if id == from {
			return true
		}
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			return false
		}
		if p == nil {
			out = append(out, id)
			return true
		}
		ok, merr := p.Match(RecordOf(t, id, depth))
		if merr != nil {
			err = fmt.Errorf("%s: %w", t.FullPath(id), merr)
			return false
		}
		if ok {
			out = append(out, id)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Functions lists the functions usable in predicates as "name() - usage".
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 100)
	for _, fn := range e.env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		for _, o := range fn.OverloadDecls() {
			entry := fn.Name() + "() - " + usageFromOverload(fn.Name(), o)
			if !seen[entry] {
				seen[entry] = true
				out = append(out, entry)
			}
		}
	}
	for _, m := range e.env.Macros() {
		if isOperator(m.Function()) {
			continue
		}
		entry := m.Function() + "() - CEL macro"
		if !seen[entry] {
			seen[entry] = true
			out = append(out, entry)
		}
	}
	sort.Strings(out)
	return out
}

func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]", "_?_:_":
		return true
	}
	return false
}

func typeLabel(t *types.Type) string {
	if t == nil {
		return "any"
	}
	if name := t.DeclaredTypeName(); name != "" {
		return name
	}
	if name := t.TypeName(); name != "" {
		return name
	}
	return "any"
}

func formatParams(params []*types.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = typeLabel(p)
	}
	return strings.Join(parts, ", ")
}

func usageFromOverload(name string, o *decls.OverloadDecl) string {
	params := o.ArgTypes()
	call := name + "(" + formatParams(params) + ")"
	if o.IsMemberFunction() && len(params) > 0 {
		call = typeLabel(params[0]) + "." + name + "(" + formatParams(params[1:]) + ")"
	}
	if o.ResultType() == nil {
		return call
	}
	return call + " -> " + typeLabel(o.ResultType())
}
