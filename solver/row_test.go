package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9 // acceptable numerical deviation for test results

func sym(id int64, kind symbolKind) symbol {
	return symbol{id: id, kind: kind}
}

func TestRowInsertSymbol(t *testing.T) {
	r := newRow(10)
	a := sym(1, externalSym)
	b := sym(2, slackSym)

	r.insertSymbol(b, 2)
	r.insertSymbol(a, 3)

	require.Len(t, r.cells, 2)
	assert.Equal(t, a, r.cells[0].sym, "cells are ordered by symbol id")
	assert.InDelta(t, 3, r.coefficientFor(a), delta)
	assert.InDelta(t, 2, r.coefficientFor(b), delta)
	assert.InDelta(t, 0, r.coefficientFor(sym(3, errorSym)), delta)

	// Coefficients accumulate, and a near-zero result drops the cell.
	r.insertSymbol(a, -3)
	assert.Len(t, r.cells, 1)
	assert.InDelta(t, 0, r.coefficientFor(a), delta)

	// Inserting a near-zero coefficient is a no-op.
	r.insertSymbol(a, epsilon/2)
	assert.Len(t, r.cells, 1)
}

func TestRowInsertRow(t *testing.T) {
	a := sym(1, externalSym)
	b := sym(2, externalSym)

	r := newRow(1)
	r.insertSymbol(a, 2)

	other := newRow(3)
	other.insertSymbol(a, 1)
	other.insertSymbol(b, 4)

	r.insertRow(other, 2)
	assert.InDelta(t, 7, r.constant, delta)
	assert.InDelta(t, 4, r.coefficientFor(a), delta)
	assert.InDelta(t, 8, r.coefficientFor(b), delta)
}

func TestRowReverseSign(t *testing.T) {
	a := sym(1, slackSym)
	r := newRow(-4)
	r.insertSymbol(a, 2)

	r.reverseSign()
	assert.InDelta(t, 4, r.constant, delta)
	assert.InDelta(t, -2, r.coefficientFor(a), delta)
}

func TestRowSolveFor(t *testing.T) {
	// 0 = 6 + 2a - 3b, solved for a: a = -3 + 1.5b
	a := sym(1, externalSym)
	b := sym(2, externalSym)
	r := newRow(6)
	r.insertSymbol(a, 2)
	r.insertSymbol(b, -3)

	r.solveFor(a)
	assert.InDelta(t, -3, r.constant, delta)
	assert.InDelta(t, 0, r.coefficientFor(a), delta)
	assert.InDelta(t, 1.5, r.coefficientFor(b), delta)
}

func TestRowSolveForEx(t *testing.T) {
	// a = 4 + 2b; pivoting b in: b = -2 + 0.5a
	a := sym(1, slackSym)
	b := sym(2, slackSym)
	r := newRow(4)
	r.insertSymbol(b, 2)

	r.solveForEx(a, b)
	assert.InDelta(t, -2, r.constant, delta)
	assert.InDelta(t, 0.5, r.coefficientFor(a), delta)
	assert.InDelta(t, 0, r.coefficientFor(b), delta)
}

func TestRowSubstitute(t *testing.T) {
	// r = 1 + 2a + b, a = 3 + 4c  =>  r = 7 + 8c + b
	a := sym(1, slackSym)
	b := sym(2, slackSym)
	c := sym(3, slackSym)

	r := newRow(1)
	r.insertSymbol(a, 2)
	r.insertSymbol(b, 1)

	sub := newRow(3)
	sub.insertSymbol(c, 4)

	r.substitute(a, sub)
	assert.InDelta(t, 7, r.constant, delta)
	assert.InDelta(t, 0, r.coefficientFor(a), delta)
	assert.InDelta(t, 1, r.coefficientFor(b), delta)
	assert.InDelta(t, 8, r.coefficientFor(c), delta)

	// Substituting an absent symbol changes nothing.
	before := r.copy()
	r.substitute(a, sub)
	assert.Equal(t, before, r)
}

func TestRowPredicates(t *testing.T) {
	r := newRow(2)
	assert.True(t, r.isConstant())
	assert.True(t, r.allDummies())

	r.insertSymbol(sym(1, dummySym), 1)
	assert.False(t, r.isConstant())
	assert.True(t, r.allDummies())

	r.insertSymbol(sym(2, slackSym), 1)
	assert.False(t, r.allDummies())
}

func TestRowCopyIsIndependent(t *testing.T) {
	a := sym(1, slackSym)
	r := newRow(1)
	r.insertSymbol(a, 2)

	cp := r.copy()
	cp.insertSymbol(a, 5)
	cp.add(10)

	assert.InDelta(t, 2, r.coefficientFor(a), delta)
	assert.InDelta(t, 1, r.constant, delta)
}
