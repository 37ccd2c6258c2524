package solver

import "errors"

var (
	// ErrDuplicateConstraint is returned by AddConstraint when the
	// constraint was already added.
	ErrDuplicateConstraint = errors.New("solver: duplicate constraint")
	// ErrUnknownConstraint is returned by RemoveConstraint when the
	// constraint was never added.
	ErrUnknownConstraint = errors.New("solver: unknown constraint")
	// ErrUnsatisfiableConstraint is returned by AddConstraint when the
	// constraint cannot be satisfied together with the required
	// constraints already in the system.
	ErrUnsatisfiableConstraint = errors.New("solver: unsatisfiable constraint")
	// ErrDuplicateEditVariable is returned by AddEditVariable when the
	// variable is already registered for editing.
	ErrDuplicateEditVariable = errors.New("solver: duplicate edit variable")
	// ErrUnknownEditVariable is returned by RemoveEditVariable and
	// SuggestValue when the variable is not registered for editing.
	ErrUnknownEditVariable = errors.New("solver: unknown edit variable")
	// ErrBadRequiredStrength is returned by AddEditVariable when the
	// requested strength clips to Required.
	ErrBadRequiredStrength = errors.New("solver: edit variable strength cannot be required")
	// ErrInternalSolver reports a broken solver invariant: an unbounded
	// objective, a failed dual pivot or a missing marker leaving row.
	ErrInternalSolver = errors.New("solver: internal solver error")
)
