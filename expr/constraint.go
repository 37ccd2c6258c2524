package expr

import "fmt"

// An Operator relates an expression to zero.
type Operator byte

const (
	// LE constrains the expression to be at most zero.
	LE = Operator(iota)
	// EQ constrains the expression to be exactly zero.
	EQ
	// GE constrains the expression to be at least zero.
	GE
)

func (op Operator) String() string {
	switch op {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	default:
		panic("invalid operator")
	}
}

// A Constraint states that an expression relates to zero under an
// operator, with a given strength. Constraints are immutable and
// identified by pointer: adding the "same" relation twice through two
// NewConstraint calls yields two independent constraints.
type Constraint struct {
	expression Expression
	operator   Operator
	strength   float64
}

// NewConstraint returns the constraint "e op 0" at the given strength.
// The expression is reduced so that each variable appears at most once,
// and the strength is clipped to [0, Required].
func NewConstraint(e Expression, op Operator, strength float64) *Constraint {
	return &Constraint{
		expression: e.Reduce(),
		operator:   op,
		strength:   Clip(strength),
	}
}

// Eq returns the constraint lhs == rhs at the given strength.
func Eq(lhs, rhs Expression, strength float64) *Constraint {
	return NewConstraint(lhs.Sub(rhs), EQ, strength)
}

// Le returns the constraint lhs <= rhs at the given strength.
func Le(lhs, rhs Expression, strength float64) *Constraint {
	return NewConstraint(lhs.Sub(rhs), LE, strength)
}

// Ge returns the constraint lhs >= rhs at the given strength.
func Ge(lhs, rhs Expression, strength float64) *Constraint {
	return NewConstraint(lhs.Sub(rhs), GE, strength)
}

// Expression returns the reduced expression of the constraint.
func (c *Constraint) Expression() Expression { return c.expression }

// Operator returns the relational operator of the constraint.
func (c *Constraint) Operator() Operator { return c.operator }

// Strength returns the clipped strength of the constraint.
func (c *Constraint) Strength() float64 { return c.strength }

func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s 0 | strength = %g", c.expression, c.operator, c.strength)
}
