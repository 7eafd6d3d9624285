// Package formula implements cell formulas as HCL native-syntax expressions.
//
// A formula such as `A1 * 2 + max(B1, 3)` is parsed once with hclsyntax. The
// cell names it mentions are the root names of the expression's variable
// traversals; they are what the sheet registers as dependees. Evaluation
// binds each of those names to a number supplied by a lookup function and
// evaluates the expression with go-cty.
package formula
