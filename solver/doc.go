/*
Package solver implements an incremental solver for systems of weighted
linear constraints, following the Cassowary algorithm.

Constraints are built with the expr package and handed to a Solver. All
required constraints hold exactly in the solution; the weighted violation
of the remaining constraints is minimised. Constraints can be added,
removed and re-valued in any order and the solver updates the solution
without re-solving from scratch.

Describing a system

A system is a set of constraints over shared variables:

	x := expr.NewVariable("x")
	y := expr.NewVariable("y")

	s := solver.NewSolver()
	// x + y == 100, mandatory
	err := s.AddConstraint(expr.Eq(
		expr.FromVariable(x).AddVariable(y, 1),
		expr.FromConstant(100),
		expr.Required,
	))
	// x >= y, mandatory
	err = s.AddConstraint(expr.Ge(expr.FromVariable(x), expr.FromVariable(y), expr.Required))
	// x == 60, a strong preference
	err = s.AddConstraint(expr.Eq(expr.FromVariable(x), expr.FromConstant(60), expr.Strong))

Reading the solution

The solver keeps the tableau solved after every mutation; reading is a
copy of the computed constants into the variables:

	s.UpdateVariables()
	fmt.Println(x.Value(), y.Value()) // 60 40

Editing interactively

For values driven by user interaction (a dragged splitter, a pointer
position) register the variable for editing once, then stream
suggestions:

	err = s.AddEditVariable(x, expr.Strong)
	err = s.SuggestValue(x, 55)
	s.UpdateVariables()

Each suggestion patches the previous one and triggers only the dual
pivots needed to restore feasibility, so suggestions are cheap enough to
follow a pointer.

Failure modes are reported through the sentinel errors in this package;
see errors.go. A failed call leaves the solution untouched.
*/
package solver
