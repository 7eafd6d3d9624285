package formula

import (
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/gridcalc/internal/cellname"
)

// Formula is a parsed, immutable cell formula.
type Formula struct {
	src       string
	expr      hclsyntax.Expression
	variables []string
	functions []string
}

type parseOptions struct {
	validate func(string) bool
}

// Option configures Parse.
type Option func(*parseOptions)

// WithValidator replaces the cell-name predicate used to check the names a
// formula references. The default is cellname.IsValid.
func WithValidator(fn func(string) bool) Option {
	return func(o *parseOptions) {
		o.validate = fn
	}
}

// Parse parses src as a formula. A single leading '=' is accepted and dropped.
// Every referenced name must satisfy the validator and every called function
// must be one of Builtins.
func Parse(src string, opts ...Option) (*Formula, error) {
	o := parseOptions{validate: cellname.IsValid}
	for _, opt := range opts {
		opt(&o)
	}

	text := strings.TrimSpace(src)
	text = strings.TrimSpace(strings.TrimPrefix(text, "="))
	if text == "" {
		return nil, &ParseError{Source: src, Msg: "empty formula"}
	}

	expr, diags := hclsyntax.ParseExpression([]byte(text), "formula", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, &ParseError{Source: src, Msg: diags.Error()}
	}

	variables, functions := extractReferencesAndFunctions(expr)
	for _, name := range variables {
		if !o.validate(name) {
			return nil, &ParseError{Source: src, Msg: "invalid cell reference " + name}
		}
	}
	for _, name := range functions {
		if _, ok := builtins[name]; !ok {
			return nil, &ParseError{Source: src, Msg: "unknown function " + name}
		}
	}

	checkModuloOps(expr)

	return &Formula{
		src:       text,
		expr:      expr,
		variables: variables,
		functions: functions,
	}, nil
}

// MustParse is like Parse but panics on error. It is meant for tests and
// static tables.
func MustParse(src string, opts ...Option) *Formula {
	f, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Variables returns the sorted, de-duplicated cell names the formula reads.
func (f *Formula) Variables() []string {
	return slices.Clone(f.variables)
}

// Functions returns the sorted, de-duplicated function names the formula calls.
func (f *Formula) Functions() []string {
	return slices.Clone(f.functions)
}

// String returns the formula source without the leading '='.
func (f *Formula) String() string {
	return f.src
}

// extractReferencesAndFunctions collects the root names of every variable
// traversal and the names of every function call. Both slices are sorted.
func extractReferencesAndFunctions(expr hclsyntax.Expression) ([]string, []string) {
	roots := make(map[string]struct{})
	for _, traversal := range expr.Variables() {
		roots[traversal.RootName()] = struct{}{}
	}

	calls := make(map[string]struct{})
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			calls[call.Name] = struct{}{}
		}
		return nil
	})

	return sortedKeys(roots), sortedKeys(calls)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
