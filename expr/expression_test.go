package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9 // acceptable numerical deviation for test results

func TestExpressionArithmetic(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")
	x.SetValue(3)
	y.SetValue(4)

	e := FromVariable(x).AddVariable(y, 2).AddConstant(5) // x + 2y + 5
	assert.InDelta(t, 16, e.Value(), delta)

	double := e.Multiply(2)
	assert.InDelta(t, 32, double.Value(), delta)
	assert.InDelta(t, 16, e.Value(), delta, "receiver must not change")

	half := double.Divide(2)
	assert.InDelta(t, 16, half.Value(), delta)

	neg := e.Negate()
	assert.InDelta(t, -16, neg.Value(), delta)

	sum := e.Add(FromVariable(y)) // x + 3y + 5
	assert.InDelta(t, 20, sum.Value(), delta)

	diff := e.Sub(FromConstant(5)) // x + 2y
	assert.InDelta(t, 11, diff.Value(), delta)
}

func TestExpressionReduce(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")

	e := NewExpression(7,
		NewTerm(x, 1),
		NewTerm(y, 2),
		NewTerm(x, 3),
		NewTerm(y, -2),
	)
	red := e.Reduce()

	require.Len(t, red.Terms, 1, "y terms cancel, x terms merge")
	assert.Same(t, x, red.Terms[0].Variable)
	assert.InDelta(t, 4, red.Terms[0].Coefficient, delta)
	assert.InDelta(t, 7, red.Constant, delta)
}

func TestExpressionCloneIsolation(t *testing.T) {
	x := NewVariable("x")
	base := FromVariable(x)

	a := base.AddConstant(1)
	b := base.AddVariable(NewVariable("y"), 1)

	require.Len(t, base.Terms, 1)
	require.Len(t, a.Terms, 1)
	require.Len(t, b.Terms, 2)
}

func TestConstraintConstruction(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")

	cn := Eq(FromVariable(x), FromConstant(20), Required)
	assert.Equal(t, EQ, cn.Operator())
	assert.Equal(t, Required, cn.Strength())
	assert.InDelta(t, -20, cn.Expression().Constant, delta)

	le := Le(FromVariable(x), FromVariable(y), Strong)
	assert.Equal(t, LE, le.Operator())
	require.Len(t, le.Expression().Terms, 2)

	ge := Ge(FromVariable(x), FromConstant(5), 2*Required)
	assert.Equal(t, GE, ge.Operator())
	assert.Equal(t, Required, ge.Strength(), "strength is clipped on construction")
}

func TestConstraintReducesExpression(t *testing.T) {
	x := NewVariable("x")

	// x - x + 1 == 0 reduces to the empty term list
	cn := NewConstraint(FromVariable(x).AddVariable(x, -1).AddConstant(1), EQ, Weak)
	assert.Empty(t, cn.Expression().Terms)
}

func TestConstraintIdentity(t *testing.T) {
	x := NewVariable("x")

	a := Eq(FromVariable(x), FromConstant(1), Required)
	b := Eq(FromVariable(x), FromConstant(1), Required)
	assert.NotSame(t, a, b, "equal relations are still distinct constraints")
}

func TestOperatorString(t *testing.T) {
	assert.Equal(t, "<=", LE.String())
	assert.Equal(t, "==", EQ.String())
	assert.Equal(t, ">=", GE.String())
}
