/*
Package expr provides the modeling layer for the kiwi constraint solver:
variables, linear expressions over them, and weighted constraints.

A constraint always takes the form "expression op 0". The Eq, Le and Ge
helpers build that form from a left- and a right-hand side:

	x := expr.NewVariable("x")
	y := expr.NewVariable("y")

	// x + 2*y == 30, as strong preference
	cn := expr.Eq(
		expr.FromVariable(x).AddVariable(y, 2),
		expr.FromConstant(30),
		expr.Strong,
	)

Strengths come from a three-level lexicographic scale (Strong, Medium,
Weak) capped by the Required sentinel; see MakeStrength. Required
constraints must hold exactly, all others are violated as cheaply as
their strength allows.

Expressions are plain values and may be shared freely. Variables and
constraints are identified by pointer; the solver keys its bookkeeping
on those identities.
*/
package expr
