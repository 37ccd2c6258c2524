package expr

import (
	"fmt"
	"strings"
)

// A Variable is a real-valued unknown. Variables are identified by
// pointer: two variables with the same name are still distinct unknowns.
// The solver writes the computed value back through SetValue.
type Variable struct {
	name  string
	value float64
}

// NewVariable returns a new variable with the given name.
// The name is only used for display purposes.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the display name of the variable.
func (v *Variable) Name() string { return v.name }

// Value returns the value last computed for the variable.
func (v *Variable) Value() float64 { return v.value }

// SetValue sets the value of the variable.
// It is called by the solver during readback; user code normally has no
// reason to call it.
func (v *Variable) SetValue(value float64) { v.value = value }

func (v *Variable) String() string { return v.name }

// A Term is a variable scaled by a coefficient.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// NewTerm returns the term coefficient*variable.
func NewTerm(v *Variable, coefficient float64) Term {
	return Term{Variable: v, Coefficient: coefficient}
}

// Value returns the current value of the term.
func (t Term) Value() float64 { return t.Coefficient * t.Variable.Value() }

func (t Term) String() string {
	return fmt.Sprintf("%g*%s", t.Coefficient, t.Variable.Name())
}

// An Expression is a linear combination of terms plus a constant.
// Expressions are values: arithmetic methods return new expressions and
// never modify their receiver. The same variable may appear in several
// terms; such terms compose additively.
type Expression struct {
	Terms    []Term
	Constant float64
}

// NewExpression returns an expression made of the given constant and terms.
func NewExpression(constant float64, terms ...Term) Expression {
	e := Expression{Constant: constant}
	e.Terms = append(e.Terms, terms...)
	return e
}

// FromVariable returns the expression 1*v.
func FromVariable(v *Variable) Expression {
	return Expression{Terms: []Term{{Variable: v, Coefficient: 1}}}
}

// FromConstant returns the constant expression c.
func FromConstant(c float64) Expression {
	return Expression{Constant: c}
}

// FromTerm returns the expression holding the single term t.
func FromTerm(t Term) Expression {
	return Expression{Terms: []Term{t}}
}

// Value returns the current value of the expression.
func (e Expression) Value() float64 {
	v := e.Constant
	for _, t := range e.Terms {
		v += t.Value()
	}
	return v
}

func (e Expression) clone() Expression {
	out := Expression{Constant: e.Constant}
	if len(e.Terms) > 0 {
		out.Terms = make([]Term, len(e.Terms))
		copy(out.Terms, e.Terms)
	}
	return out
}

// Add returns e + other.
func (e Expression) Add(other Expression) Expression {
	out := e.clone()
	out.Constant += other.Constant
	out.Terms = append(out.Terms, other.Terms...)
	return out
}

// Sub returns e - other.
func (e Expression) Sub(other Expression) Expression {
	return e.Add(other.Negate())
}

// AddConstant returns e + c.
func (e Expression) AddConstant(c float64) Expression {
	out := e.clone()
	out.Constant += c
	return out
}

// AddVariable returns e + coefficient*v.
func (e Expression) AddVariable(v *Variable, coefficient float64) Expression {
	out := e.clone()
	out.Terms = append(out.Terms, Term{Variable: v, Coefficient: coefficient})
	return out
}

// Multiply returns e scaled by k.
func (e Expression) Multiply(k float64) Expression {
	out := e.clone()
	out.Constant *= k
	for i := range out.Terms {
		out.Terms[i].Coefficient *= k
	}
	return out
}

// Divide returns e scaled by 1/k.
func (e Expression) Divide(k float64) Expression {
	return e.Multiply(1 / k)
}

// Negate returns -e.
func (e Expression) Negate() Expression {
	return e.Multiply(-1)
}

// Reduce returns an equivalent expression in which each variable appears
// in at most one term. Term order follows first appearance; terms whose
// coefficients sum to zero are dropped.
func (e Expression) Reduce() Expression {
	idx := make(map[*Variable]int, len(e.Terms))
	out := Expression{Constant: e.Constant}
	for _, t := range e.Terms {
		if i, ok := idx[t.Variable]; ok {
			out.Terms[i].Coefficient += t.Coefficient
		} else {
			idx[t.Variable] = len(out.Terms)
			out.Terms = append(out.Terms, t)
		}
	}
	kept := out.Terms[:0]
	for _, t := range out.Terms {
		if t.Coefficient != 0 {
			kept = append(kept, t)
		}
	}
	out.Terms = kept
	return out
}

func (e Expression) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%g", e.Constant)
	for _, t := range e.Terms {
		fmt.Fprintf(&sb, " + %s", t)
	}
	return sb.String()
}
