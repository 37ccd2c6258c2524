package solver

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kiwi-solver/kiwi/expr"
	"github.com/kiwi-solver/kiwi/logger"
)

// editInfo tracks an interactively editable variable: the tag of the
// synthetic "v == 0" constraint holding it, the constraint itself, and
// the value last suggested for it.
type editInfo struct {
	tag        tag
	constraint *expr.Constraint
	constant   float64
}

// A Solver incrementally maintains a solution to a system of weighted
// linear constraints. It is the main data structure.
//
// After every successful mutating call the tableau is optimal and
// feasible, so UpdateVariables is a plain copy of basic-row constants.
// A Solver is not safe for concurrent use.
type Solver struct {
	cns        map[*expr.Constraint]tag
	rows       map[symbol]*row
	vars       map[*expr.Variable]symbol
	edits      map[*expr.Variable]*editInfo
	infeasible []symbol // basic symbols whose rows went negative, awaiting dual pivots
	objective  *row
	artificial *row
	idTick     int64
	log        zerolog.Logger
}

// NewSolver returns an empty solver.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		cns:       make(map[*expr.Constraint]tag),
		rows:      make(map[symbol]*row),
		vars:      make(map[*expr.Variable]symbol),
		edits:     make(map[*expr.Variable]*editInfo),
		objective: newRow(0),
		log:       logger.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset returns the solver to its initial empty state, dropping every
// constraint, edit variable and minted symbol.
func (s *Solver) Reset() {
	s.cns = make(map[*expr.Constraint]tag)
	s.rows = make(map[symbol]*row)
	s.vars = make(map[*expr.Variable]symbol)
	s.edits = make(map[*expr.Variable]*editInfo)
	s.infeasible = s.infeasible[:0]
	s.objective = newRow(0)
	s.artificial = nil
	s.idTick = 0
}

// AddConstraint adds a constraint to the system.
//
// It returns ErrDuplicateConstraint if the constraint was already added,
// and ErrUnsatisfiableConstraint if it cannot hold together with the
// required constraints already present. On failure the solution is
// unchanged.
func (s *Solver) AddConstraint(cn *expr.Constraint) error {
	if _, ok := s.cns[cn]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateConstraint, cn)
	}

	// Creating a row reserves symbols for the variables in the
	// constraint. If the add fails those symbols simply go unused; they
	// stay valid for later adds.
	t, r := s.createRow(cn)
	subject := chooseSubject(r, t)

	// If chooseSubject found nothing and the row is made of dummies
	// only, the constraint is either redundant (zero constant) or in
	// conflict with a required constraint already in the tableau.
	if subject.kind == invalidSym && r.allDummies() {
		if !nearZero(r.constant) {
			return fmt.Errorf("%w: %s", ErrUnsatisfiableConstraint, cn)
		}
		subject = t.marker
	}

	if subject.kind == invalidSym {
		// The artificial phase pivots the tableau even when it fails, so
		// keep a copy to restore on failure.
		rows := make(map[symbol]*row, len(s.rows))
		for sym, basic := range s.rows {
			rows[sym] = basic.copy()
		}
		objective := s.objective.copy()
		infeasible := len(s.infeasible)
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			s.rows, s.objective, s.infeasible = rows, objective, s.infeasible[:infeasible]
			return fmt.Errorf("%w: %s", ErrUnsatisfiableConstraint, cn)
		}
	} else {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	}

	s.cns[cn] = t
	s.log.Debug().Stringer("constraint", cn).Stringer("marker", t.marker).Msg("constraint added")

	return s.optimize(s.objective)
}

// RemoveConstraint removes a constraint from the system.
// It returns ErrUnknownConstraint if the constraint was never added.
func (s *Solver) RemoveConstraint(cn *expr.Constraint) error {
	t, ok := s.cns[cn]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConstraint, cn)
	}
	delete(s.cns, cn)

	// The error effects must be removed before pivoting, or later
	// substitutions into the objective would land on stale weights.
	s.removeConstraintEffects(cn, t)

	if _, basic := s.rows[t.marker]; basic {
		delete(s.rows, t.marker)
	} else {
		leaving, r, found := s.markerLeavingRow(t.marker)
		if !found {
			return fmt.Errorf("%w: failed to find leaving row", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		r.solveForEx(leaving, t.marker)
		s.substitute(t.marker, r)
	}

	s.log.Debug().Stringer("constraint", cn).Msg("constraint removed")
	return s.optimize(s.objective)
}

// HasConstraint reports whether the constraint is in the system.
func (s *Solver) HasConstraint(cn *expr.Constraint) bool {
	_, ok := s.cns[cn]
	return ok
}

// AddEditVariable registers a variable for interactive editing at the
// given strength, by adding the synthetic constraint "v == 0" at that
// strength. The strength is clipped; a strength that clips to Required
// is rejected with ErrBadRequiredStrength.
func (s *Solver) AddEditVariable(v *expr.Variable, strength float64) error {
	if _, ok := s.edits[v]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEditVariable, v)
	}
	strength = expr.Clip(strength)
	if strength == expr.Required {
		return fmt.Errorf("%w: %s", ErrBadRequiredStrength, v)
	}
	cn := expr.NewConstraint(expr.FromVariable(v), expr.EQ, strength)
	if err := s.AddConstraint(cn); err != nil {
		return err
	}
	s.edits[v] = &editInfo{tag: s.cns[cn], constraint: cn}
	return nil
}

// RemoveEditVariable unregisters an edit variable.
// It returns ErrUnknownEditVariable if the variable is not registered.
func (s *Solver) RemoveEditVariable(v *expr.Variable) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, v)
	}
	if err := s.RemoveConstraint(info.constraint); err != nil {
		return err
	}
	delete(s.edits, v)
	return nil
}

// HasEditVariable reports whether the variable is registered for editing.
func (s *Solver) HasEditVariable(v *expr.Variable) bool {
	_, ok := s.edits[v]
	return ok
}

// SuggestValue suggests a value for an edit variable. The tableau is
// patched with the delta from the previous suggestion and feasibility is
// restored with the dual simplex, which keeps the operation cheap for
// interactive streams of suggestions.
func (s *Solver) SuggestValue(v *expr.Variable, value float64) error {
	info, ok := s.edits[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEditVariable, v)
	}
	delta := value - info.constant
	info.constant = value
	s.log.Debug().Stringer("variable", v).Float64("value", value).Float64("delta", delta).Msg("value suggested")

	// Check first if the positive error variable is basic.
	if r, basic := s.rows[info.tag.marker]; basic {
		if r.add(-delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return s.dualOptimize()
	}

	// Check next if the negative error variable is basic.
	if r, basic := s.rows[info.tag.other]; basic {
		if r.add(delta) < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return s.dualOptimize()
	}

	// Otherwise update each row where the error variable appears.
	for _, sym := range s.sortedBasis() {
		r := s.rows[sym]
		coeff := r.coefficientFor(info.tag.marker)
		if coeff != 0 && r.add(delta*coeff) < 0 && sym.kind != externalSym {
			s.infeasible = append(s.infeasible, sym)
		}
	}
	return s.dualOptimize()
}

// UpdateVariables writes the computed value of every known variable back
// into the variable object. Parametric variables read as zero.
func (s *Solver) UpdateVariables() {
	for v, sym := range s.vars {
		if r, basic := s.rows[sym]; basic {
			v.SetValue(r.constant)
		} else {
			v.SetValue(0)
		}
	}
}

// newSymbol mints a symbol of the given kind. Ids are strictly
// increasing across every kind, which keeps cell and basis orderings
// stable.
func (s *Solver) newSymbol(kind symbolKind) symbol {
	s.idTick++
	return symbol{id: s.idTick, kind: kind}
}

// symbolForVariable returns the external symbol for a user variable,
// minting one on first appearance.
func (s *Solver) symbolForVariable(v *expr.Variable) symbol {
	sym, ok := s.vars[v]
	if !ok {
		sym = s.newSymbol(externalSym)
		s.vars[v] = sym
	}
	return sym
}

// sortedBasis returns the basic symbols ordered by id. Every full-basis
// scan iterates in this order, so that "first" and "most recent" picks
// are deterministic.
func (s *Solver) sortedBasis() []symbol {
	syms := make([]symbol, 0, len(s.rows))
	for sym := range s.rows {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].id < syms[j].id })
	return syms
}

// createRow builds the tableau row for a constraint and the tag holding
// the auxiliary symbols it introduced.
//
// Basic variables are substituted on the fly, so the returned row only
// mentions parametric symbols. Auxiliaries depend on the operator and
// strength: inequalities get a slack (plus an error when not required),
// non-required equalities a pair of errors, required equalities a dummy
// so that a marker exists to pivot on when the constraint is removed.
// The row is sign-normalised to a non-negative constant.
func (s *Solver) createRow(cn *expr.Constraint) (tag, *row) {
	e := cn.Expression()
	r := newRow(e.Constant)
	for _, term := range e.Terms {
		if nearZero(term.Coefficient) {
			continue
		}
		sym := s.symbolForVariable(term.Variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coefficient)
		} else {
			r.insertSymbol(sym, term.Coefficient)
		}
	}

	t := tag{marker: invalidSymbol, other: invalidSymbol}
	switch cn.Operator() {
	case expr.LE, expr.GE:
		coeff := 1.0
		if cn.Operator() == expr.GE {
			coeff = -1.0
		}
		slack := s.newSymbol(slackSym)
		t.marker = slack
		r.insertSymbol(slack, coeff)
		if cn.Strength() < expr.Required {
			errsym := s.newSymbol(errorSym)
			t.other = errsym
			r.insertSymbol(errsym, -coeff)
			s.objective.insertSymbol(errsym, cn.Strength())
		}
	case expr.EQ:
		if cn.Strength() < expr.Required {
			errplus := s.newSymbol(errorSym)
			errminus := s.newSymbol(errorSym)
			t.marker = errplus
			t.other = errminus
			r.insertSymbol(errplus, -1)
			r.insertSymbol(errminus, 1)
			s.objective.insertSymbol(errplus, cn.Strength())
			s.objective.insertSymbol(errminus, cn.Strength())
		} else {
			dummy := s.newSymbol(dummySym)
			t.marker = dummy
			r.insertSymbol(dummy, 1)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return t, r
}

// chooseSubject picks the symbol the new row will be solved for: the
// first external symbol if any, else a negatively weighted slack or
// error auxiliary of the constraint itself.
func chooseSubject(r *row, t tag) symbol {
	for _, c := range r.cells {
		if c.sym.kind == externalSym {
			return c.sym
		}
	}
	if t.marker.pivotable() && r.coefficientFor(t.marker) < 0 {
		return t.marker
	}
	if t.other.pivotable() && r.coefficientFor(t.other) < 0 {
		return t.other
	}
	return invalidSymbol
}

// addWithArtificialVariable installs a row with no natural subject by
// optimizing a throwaway objective against a fresh artificial slack.
// It reports whether the row was satisfiable.
func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(slackSym)
	s.rows[art] = r.copy()
	s.artificial = r.copy()

	err := s.optimize(s.artificial)
	success := nearZero(s.artificial.constant)
	s.artificial = nil
	if err != nil {
		return false, err
	}

	// If the artificial variable is still basic, pivot it out before
	// discarding its row.
	if basic, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if basic.isConstant() {
			return success, nil
		}
		entering := anyPivotableSymbol(basic)
		if entering.kind == invalidSym {
			return false, nil
		}
		basic.solveForEx(art, entering)
		s.substitute(entering, basic)
		s.rows[entering] = basic
	}

	// Remove any trace of the artificial variable.
	for _, basic := range s.rows {
		basic.removeSymbol(art)
	}
	s.objective.removeSymbol(art)
	return success, nil
}

// substitute replaces every occurrence of a parametric symbol across the
// basis and the objective rows. Non-external rows whose constant goes
// negative are queued for dual pivoting.
func (s *Solver) substitute(sym symbol, r *row) {
	for _, key := range s.sortedBasis() {
		basic := s.rows[key]
		basic.substitute(sym, r)
		if key.kind != externalSym && basic.constant < 0 {
			s.infeasible = append(s.infeasible, key)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// optimize runs the primal simplex on the given objective until no
// improving pivot remains. It returns ErrInternalSolver if the objective
// is unbounded.
func (s *Solver) optimize(objective *row) error {
	pivots := 0
	for {
		entering := enteringSymbol(objective)
		if entering.kind == invalidSym {
			if pivots > 0 {
				s.log.Debug().Int("pivots", pivots).Msg("optimized")
			}
			return nil
		}
		leaving, r, found := s.leavingRow(entering)
		if !found {
			return fmt.Errorf("%w: the objective is unbounded", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		r.solveForEx(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
		pivots++
	}
}

// dualOptimize drains the infeasible-row worklist with dual simplex
// pivots, restoring feasibility while keeping the objective optimal.
func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		leaving := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]
		r, ok := s.rows[leaving]
		if !ok || r.constant >= 0 {
			// An earlier pivot already fixed this row.
			continue
		}
		entering := s.dualEnteringSymbol(r)
		if entering.kind == invalidSym {
			return fmt.Errorf("%w: dual optimize failed", ErrInternalSolver)
		}
		delete(s.rows, leaving)
		r.solveForEx(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r
	}
	return nil
}

// enteringSymbol returns the first non-dummy cell of the objective with
// a negative coefficient, or invalidSymbol when the objective is optimal.
func enteringSymbol(objective *row) symbol {
	for _, c := range objective.cells {
		if c.sym.kind != dummySym && c.coeff < 0 {
			return c.sym
		}
	}
	return invalidSymbol
}

// dualEnteringSymbol picks the entering symbol for a dual pivot on the
// given infeasible row: among positive non-dummy cells, the one with the
// smallest objective-coefficient to row-coefficient ratio.
func (s *Solver) dualEnteringSymbol(r *row) symbol {
	entering := invalidSymbol
	ratio := math.MaxFloat64
	for _, c := range r.cells {
		if c.coeff > 0 && c.sym.kind != dummySym {
			coeff := s.objective.coefficientFor(c.sym)
			if rt := coeff / c.coeff; rt < ratio {
				ratio = rt
				entering = c.sym
			}
		}
	}
	return entering
}

// anyPivotableSymbol returns the first slack or error cell of the row,
// or invalidSymbol.
func anyPivotableSymbol(r *row) symbol {
	for _, c := range r.cells {
		if c.sym.pivotable() {
			return c.sym
		}
	}
	return invalidSymbol
}

// leavingRow runs the primal ratio test: among non-external basic rows
// with a negative coefficient on the entering symbol, the row minimising
// -constant/coefficient. Ties keep the first row in basis order.
func (s *Solver) leavingRow(entering symbol) (symbol, *row, bool) {
	var (
		leaving symbol
		found   *row
	)
	ratio := math.MaxFloat64
	for _, sym := range s.sortedBasis() {
		if sym.kind == externalSym {
			continue
		}
		r := s.rows[sym]
		coeff := r.coefficientFor(entering)
		if coeff >= 0 {
			continue
		}
		if rt := -r.constant / coeff; rt < ratio {
			ratio = rt
			leaving = sym
			found = r
		}
	}
	return leaving, found, found != nil
}

// markerLeavingRow picks the row to pivot a constraint marker out of the
// tableau on removal. Preference order: the best restricted row with a
// negative marker coefficient, then the best restricted row with a
// positive one, then any external row mentioning the marker. Returning
// !found means the marker does not appear in the tableau at all, which
// indicates corruption.
func (s *Solver) markerLeavingRow(marker symbol) (symbol, *row, bool) {
	var (
		first, second, third          symbol
		firstRow, secondRow, thirdRow *row
	)
	r1 := math.MaxFloat64
	r2 := math.MaxFloat64
	for _, sym := range s.sortedBasis() {
		r := s.rows[sym]
		c := r.coefficientFor(marker)
		if c == 0 {
			continue
		}
		switch {
		case sym.kind == externalSym:
			third = sym
			thirdRow = r
		case c < 0:
			if rt := -r.constant / c; rt < r1 {
				r1 = rt
				first = sym
				firstRow = r
			}
		default:
			if rt := r.constant / c; rt < r2 {
				r2 = rt
				second = sym
				secondRow = r
			}
		}
	}
	switch {
	case firstRow != nil:
		return first, firstRow, true
	case secondRow != nil:
		return second, secondRow, true
	case thirdRow != nil:
		return third, thirdRow, true
	default:
		return invalidSymbol, nil, false
	}
}

// removeConstraintEffects subtracts the error-symbol contributions of a
// dying constraint from the objective.
func (s *Solver) removeConstraintEffects(cn *expr.Constraint, t tag) {
	if t.marker.kind == errorSym {
		s.removeMarkerEffects(t.marker, cn.Strength())
	}
	if t.other.kind == errorSym {
		s.removeMarkerEffects(t.other, cn.Strength())
	}
}

// removeMarkerEffects subtracts strength*marker from the objective,
// going through the marker's row when it is basic.
func (s *Solver) removeMarkerEffects(marker symbol, strength float64) {
	if r, basic := s.rows[marker]; basic {
		s.objective.insertRow(r, -strength)
	} else {
		s.objective.insertSymbol(marker, -strength)
	}
}

// String renders the tableau: objective, basis rows, variable bindings
// and suggested edit values. Intended for debugging.
func (s *Solver) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "objective: %s\n", s.objective)
	sb.WriteString("rows:\n")
	for _, sym := range s.sortedBasis() {
		fmt.Fprintf(&sb, "  %s = %s\n", sym, s.rows[sym])
	}
	sb.WriteString("vars:\n")
	type binding struct {
		v   *expr.Variable
		sym symbol
	}
	bindings := make([]binding, 0, len(s.vars))
	for v, sym := range s.vars {
		bindings = append(bindings, binding{v, sym})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].sym.id < bindings[j].sym.id })
	for _, b := range bindings {
		fmt.Fprintf(&sb, "  %s = %s\n", b.v, b.sym)
	}
	sb.WriteString("edits:\n")
	for _, b := range bindings {
		if info, ok := s.edits[b.v]; ok {
			fmt.Fprintf(&sb, "  %s suggested %g\n", b.v, info.constant)
		}
	}
	return sb.String()
}
