package formula

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Lookup returns the numeric value of a cell, or an error when the cell has
// no numeric value.
type Lookup func(name string) (float64, error)

// builtins are the functions a formula may call.
var builtins = map[string]function.Function{
	"abs":      stdlib.AbsoluteFunc,
	"ceil":     stdlib.CeilFunc,
	"floor":    stdlib.FloorFunc,
	"log":      stdlib.LogFunc,
	"max":      stdlib.MaxFunc,
	"min":      stdlib.MinFunc,
	"parseint": stdlib.ParseIntFunc,
	"pow":      stdlib.PowFunc,
	"signum":   stdlib.SignumFunc,
}

// Builtins returns the sorted names of the functions formulas may call.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Evaluate computes the formula's numeric value. Every referenced name is
// resolved through lookup first; a lookup failure, an evaluation diagnostic or
// a non-finite or non-numeric result is reported as *Error.
func (f *Formula) Evaluate(lookup Lookup) (float64, error) {
	vars := make(map[string]cty.Value, len(f.variables))
	for _, name := range f.variables {
		v, err := lookup(name)
		if err != nil {
			return 0, &Error{Formula: f.src, Reason: fmt.Sprintf("cannot read %s: %v", name, err), Err: err}
		}
		if math.IsNaN(v) {
			return 0, &Error{Formula: f.src, Reason: fmt.Sprintf("%s is not a number", name)}
		}
		vars[name] = cty.NumberFloatVal(v)
	}

	evalCtx := &hcl.EvalContext{
		Variables: vars,
		Functions: builtins,
	}
	val, diags := f.expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, &Error{Formula: f.src, Reason: diags.Error()}
	}
	if val.IsNull() || !val.IsKnown() {
		return 0, &Error{Formula: f.src, Reason: "expression has no value"}
	}

	if !val.Type().Equals(cty.Number) {
		return 0, &Error{Formula: f.src, Reason: fmt.Sprintf("result is %s, not a number", val.Type().FriendlyName())}
	}
	bf := val.AsBigFloat()
	if bf.IsInf() {
		return 0, &Error{Formula: f.src, Reason: "result is infinite (division by zero?)"}
	}
	out, _ := bf.Float64()
	if math.IsInf(out, 0) {
		return 0, &Error{Formula: f.src, Reason: "result is out of range"}
	}
	return out, nil
}

// checkedModulo is '%' with a zero divisor reported as an error.
var checkedModulo = &hclsyntax.Operation{
	Impl: function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "a", Type: cty.Number},
			{Name: "b", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if args[1].AsBigFloat().Sign() == 0 {
				return cty.UnknownVal(cty.Number), errors.New("modulo by zero")
			}
			return stdlib.Modulo(args[0], args[1])
		},
	}),
	Type: cty.Number,
}

// checkModuloOps swaps every '%' in expr for checkedModulo. Operands are only
// inspected when the operation is evaluated, so an untaken conditional branch
// never fails.
func checkModuloOps(expr hclsyntax.Expression) {
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if bin, ok := n.(*hclsyntax.BinaryOpExpr); ok && bin.Op == hclsyntax.OpModulo {
			bin.Op = checkedModulo
		}
		return nil
	})
}
