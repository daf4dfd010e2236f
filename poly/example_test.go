package poly_test

import (
	"fmt"

	"github.com/fumin/dantzig/poly"
)

// This example shows building a large linear expression with SumLinear
// instead of folding Add one term at a time, and then substituting a
// concrete value for one of its variables.
func Example() {
	x := poly.MustVariable("x")
	y := poly.MustVariable("y")

	terms := make([]poly.Operand, 0, 4)
	terms = append(terms, poly.Multiply(3, x))
	terms = append(terms, poly.Multiply(-1, x))
	terms = append(terms, poly.Multiply(2, y))
	terms = append(terms, poly.Const(5))

	expr := poly.SumLinear(terms)
	fmt.Printf("expr: %v\n", expr)

	substituted := poly.Substitute(expr, map[poly.VarID]poly.Operand{"x": 10.0})
	fmt.Printf("with x=10: %v\n", substituted)

	// Output:
	// expr: 5 + 2x + 2y
	// with x=10: 25 + 2y
}
