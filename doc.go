// Package kiwi provides an incremental solver for systems of weighted
// linear constraints over real-valued variables, in the style of the
// Cassowary algorithm used by UI layout engines.
//
// The module is organized in two packages:
//   - expr: variables, terms, expressions, constraints and the strength
//     scale used to build a system.
//   - solver: the incremental tableau engine that keeps the system
//     solved while constraints are added, removed and edited.
//
// A minimal session:
//
//	x := expr.NewVariable("x")
//	s := solver.NewSolver()
//	_ = s.AddConstraint(expr.Eq(expr.FromVariable(x), expr.FromConstant(20), expr.Required))
//	s.UpdateVariables()
//	// x.Value() == 20
package kiwi
