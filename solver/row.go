package solver

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// epsilon is the single near-zero tolerance of the solver. It governs
// coefficient drop on insertion, the artificial-phase success check and
// the redundant-constraint test.
const epsilon = 1.0e-8

func nearZero(v float64) bool {
	return math.Abs(v) < epsilon
}

// A cell is one column entry of a row. Coefficients are always non-zero:
// insertSymbol drops any cell whose coefficient lands within epsilon of
// zero.
type cell struct {
	sym   symbol
	coeff float64
}

// A row is a constant plus a linear combination of symbols. Cells are
// kept sorted by symbol id, which fixes the iteration order every
// "first matching cell" scan in the solver relies on.
type row struct {
	constant float64
	cells    []cell
}

func newRow(constant float64) *row {
	return &row{constant: constant}
}

func (r *row) copy() *row {
	out := &row{constant: r.constant}
	if len(r.cells) > 0 {
		out.cells = make([]cell, len(r.cells))
		copy(out.cells, r.cells)
	}
	return out
}

// find returns the position of s in cells, or the position it would be
// inserted at, and whether it is present.
func (r *row) find(s symbol) (int, bool) {
	i := sort.Search(len(r.cells), func(i int) bool { return r.cells[i].sym.id >= s.id })
	return i, i < len(r.cells) && r.cells[i].sym.id == s.id
}

// coefficientFor returns the coefficient of s, or 0 if s has no cell.
func (r *row) coefficientFor(s symbol) float64 {
	if i, ok := r.find(s); ok {
		return r.cells[i].coeff
	}
	return 0
}

// add adds a scalar to the row constant and returns the new constant.
func (r *row) add(v float64) float64 {
	r.constant += v
	return r.constant
}

// insertSymbol adds coeff to the coefficient of s, dropping the cell if
// the result is near zero.
func (r *row) insertSymbol(s symbol, coeff float64) {
	i, ok := r.find(s)
	if ok {
		c := r.cells[i].coeff + coeff
		if nearZero(c) {
			r.cells = append(r.cells[:i], r.cells[i+1:]...)
		} else {
			r.cells[i].coeff = c
		}
		return
	}
	if nearZero(coeff) {
		return
	}
	r.cells = append(r.cells, cell{})
	copy(r.cells[i+1:], r.cells[i:])
	r.cells[i] = cell{sym: s, coeff: coeff}
}

// insertRow adds other*coeff to the row.
func (r *row) insertRow(other *row, coeff float64) {
	r.constant += other.constant * coeff
	for _, c := range other.cells {
		r.insertSymbol(c.sym, c.coeff*coeff)
	}
}

// removeSymbol deletes the cell for s, if any.
func (r *row) removeSymbol(s symbol) {
	if i, ok := r.find(s); ok {
		r.cells = append(r.cells[:i], r.cells[i+1:]...)
	}
}

// reverseSign negates the constant and every coefficient.
func (r *row) reverseSign() {
	r.constant = -r.constant
	for i := range r.cells {
		r.cells[i].coeff = -r.cells[i].coeff
	}
}

// solveFor rewrites the row, which must contain s with a non-zero
// coefficient, into the form s = constant + sum of the remaining cells.
func (r *row) solveFor(s symbol) {
	i, ok := r.find(s)
	if !ok {
		panic("solver: solveFor on absent symbol")
	}
	k := -1.0 / r.cells[i].coeff
	r.cells = append(r.cells[:i], r.cells[i+1:]...)
	r.constant *= k
	for j := range r.cells {
		r.cells[j].coeff *= k
	}
}

// solveForEx inserts lhs with coefficient -1 and solves the row for rhs.
// It is the pivot primitive: given the row of basic symbol lhs, it
// produces the row expressing rhs.
func (r *row) solveForEx(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

// substitute replaces every occurrence of s by other, scaled by the
// coefficient s had.
func (r *row) substitute(s symbol, other *row) {
	if i, ok := r.find(s); ok {
		coeff := r.cells[i].coeff
		r.cells = append(r.cells[:i], r.cells[i+1:]...)
		r.insertRow(other, coeff)
	}
}

// isConstant reports whether the row has no cells.
func (r *row) isConstant() bool {
	return len(r.cells) == 0
}

// allDummies reports whether every cell of the row is a dummy symbol.
func (r *row) allDummies() bool {
	for _, c := range r.cells {
		if c.sym.kind != dummySym {
			return false
		}
	}
	return true
}

func (r *row) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%g", r.constant)
	for _, c := range r.cells {
		fmt.Fprintf(&sb, " + %g*%s", c.coeff, c.sym)
	}
	return sb.String()
}
