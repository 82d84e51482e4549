package lra

import (
	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
)

// opKind distinguishes the two assertion shapes the LRA theory binds
// to a control literal: x <= v and x >= v. Strictness is already
// baked into v by the infinitesimal shift applied at construction
// time, so no separate strict/non-strict flag is needed.
type opKind int

const (
	leqKind opKind = iota
	geqKind
)

// assertion binds a control literal b to the claim x <= v (leqKind) or
// x >= v (geqKind). Registered in Theory.vAsrts by the control
// variable, and in Theory.aWatches[x] so bound tightening on x can
// reach it.
type assertion struct {
	b    sat.Literal
	x    Var
	v    rational.InfRational
	kind opKind
}

// publish forces target True, deriving it from reasons: records the
// clause {target, !reasons...} if target is still undefined, or
// raises a conflict if target is already falsified. A target already
// holding True needs no action.
func (th *Theory) publish(target sat.Literal, reasons ...sat.Literal) bool {
	clause := make([]sat.Literal, 0, len(reasons)+1)
	clause = append(clause, target)
	for _, r := range reasons {
		clause = append(clause, r.Not())
	}
	switch th.core.ValueLit(target) {
	case sat.False:
		th.setCnfl(clause)
		return false
	case sat.Undefined:
		th.core.Record(clause)
	}
	return true
}

// propagateAssertionLB asks whether x's new lower bound (justified by
// lbReason) settles a's control literal: a leq assertion is refuted
// once lb exceeds v; a geq assertion is confirmed once lb reaches v.
func (th *Theory) propagateAssertionLB(a *assertion, lbReason sat.Literal) bool {
	lb := th.LB(a.x)
	switch a.kind {
	case leqKind:
		if lb.Greater(a.v) {
			return th.publish(a.b.Not(), lbReason)
		}
	case geqKind:
		if lb.GreaterOrEqual(a.v) {
			return th.publish(a.b, lbReason)
		}
	}
	return true
}

// propagateAssertionUB is propagateAssertionLB's dual for an upper
// bound tightening.
func (th *Theory) propagateAssertionUB(a *assertion, ubReason sat.Literal) bool {
	ub := th.UB(a.x)
	switch a.kind {
	case leqKind:
		if ub.LessOrEqual(a.v) {
			return th.publish(a.b, ubReason)
		}
	case geqKind:
		if ub.Less(a.v) {
			return th.publish(a.b.Not(), ubReason)
		}
	}
	return true
}

// rowReasonLB collects, for each variable in x's defining row, the
// bound reason that contributed to the row's implied lower bound
// (the LB reason for a positive coefficient, the UB reason for a
// negative one) -- the justification for the computed bound used when
// row propagation forwards to x's assertion watchers.
func (th *Theory) rowReasonLB(x Var) []sat.Literal {
	r := th.tableau[x]
	reasons := make([]sat.Literal, 0, len(r.lin.Vars))
	for _, vid := range r.lin.VarIDs() {
		nv := Var(vid)
		if r.lin.Vars[vid].IsPositive() {
			reasons = append(reasons, th.cBounds[lbIndex(nv)].reason)
		} else {
			reasons = append(reasons, th.cBounds[ubIndex(nv)].reason)
		}
	}
	return reasons
}

// rowReasonUB is rowReasonLB's dual for the row's implied upper bound.
func (th *Theory) rowReasonUB(x Var) []sat.Literal {
	r := th.tableau[x]
	reasons := make([]sat.Literal, 0, len(r.lin.Vars))
	for _, vid := range r.lin.VarIDs() {
		nv := Var(vid)
		if r.lin.Vars[vid].IsPositive() {
			reasons = append(reasons, th.cBounds[ubIndex(nv)].reason)
		} else {
			reasons = append(reasons, th.cBounds[lbIndex(nv)].reason)
		}
	}
	return reasons
}

// propagateRowLB recomputes x's row's implied lower bound from its
// children's current bounds and, if it is at least as tight as x's
// stored lower bound, checks it against every assertion watching x.
// Row propagation never overwrites x's stored bound: it only forwards
// an equally-or-more-informative bound to x's watchers.
func (th *Theory) propagateRowLB(x Var) bool {
	r, ok := th.tableau[x]
	if !ok {
		return true
	}
	implied := th.LBOf(r.lin)
	if implied.IsInfinite() || implied.Less(th.LB(x)) {
		return true
	}
	reasons := th.rowReasonLB(x)
	for _, a := range th.aWatches[x] {
		switch a.kind {
		case leqKind:
			if implied.Greater(a.v) {
				if !th.publish(a.b.Not(), reasons...) {
					return false
				}
			}
		case geqKind:
			if implied.GreaterOrEqual(a.v) {
				if !th.publish(a.b, reasons...) {
					return false
				}
			}
		}
	}
	return true
}

// propagateRowUB is propagateRowLB's dual.
func (th *Theory) propagateRowUB(x Var) bool {
	r, ok := th.tableau[x]
	if !ok {
		return true
	}
	implied := th.UBOf(r.lin)
	if implied.IsInfinite() || implied.Greater(th.UB(x)) {
		return true
	}
	reasons := th.rowReasonUB(x)
	for _, a := range th.aWatches[x] {
		switch a.kind {
		case leqKind:
			if implied.LessOrEqual(a.v) {
				if !th.publish(a.b, reasons...) {
					return false
				}
			}
		case geqKind:
			if implied.Less(a.v) {
				if !th.publish(a.b.Not(), reasons...) {
					return false
				}
			}
		}
	}
	return true
}

// assertLower tightens x's lower bound to val, justified by p. A val
// no tighter than x's current lower bound is a no-op. Pushes x to its
// new bound if nonbasic, or repairs feasibility via pivotToFix if
// basic, then forwards the tightened bound to x's own assertion
// watchers and to every row that mentions x as a nonbasic term.
func (th *Theory) assertLower(x Var, val rational.InfRational, p sat.Literal) bool {
	if val.LessOrEqual(th.LB(x)) {
		return true
	}
	if val.Greater(th.UB(x)) {
		th.setCnfl([]sat.Literal{p.Not(), th.cBounds[ubIndex(x)].reason.Not()})
		return false
	}

	th.pushWrite(lbIndex(x))
	th.cBounds[lbIndex(x)] = bound{value: val, reason: p}

	if th.isBasic(x) {
		if !th.pivotToFix(x) {
			return false
		}
	} else if th.vals[x].Less(val) {
		th.update(x, val)
	}

	for _, a := range th.aWatches[x] {
		if !th.propagateAssertionLB(a, p) {
			return false
		}
	}
	for basicVar := range th.tWatches[x] {
		if !th.propagateRowLB(basicVar) {
			return false
		}
	}
	return true
}

// assertUpper is assertLower's dual.
func (th *Theory) assertUpper(x Var, val rational.InfRational, p sat.Literal) bool {
	if val.GreaterOrEqual(th.UB(x)) {
		return true
	}
	if val.Less(th.LB(x)) {
		th.setCnfl([]sat.Literal{p.Not(), th.cBounds[lbIndex(x)].reason.Not()})
		return false
	}

	th.pushWrite(ubIndex(x))
	th.cBounds[ubIndex(x)] = bound{value: val, reason: p}

	if th.isBasic(x) {
		if !th.pivotToFix(x) {
			return false
		}
	} else if th.vals[x].Greater(val) {
		th.update(x, val)
	}

	for _, a := range th.aWatches[x] {
		if !th.propagateAssertionUB(a, p) {
			return false
		}
	}
	for basicVar := range th.tWatches[x] {
		if !th.propagateRowUB(basicVar) {
			return false
		}
	}
	return true
}

// bind registers a against both lookup tables: by its control
// variable, for Propagate, and by its LRA variable, for bound
// propagation.
func (th *Theory) bind(a *assertion) {
	th.vAsrts[a.b.Variable()] = a
	th.aWatches[a.x] = append(th.aWatches[a.x], a)
	th.core.Bind(a.b.Variable(), th)
}

// Propagate dispatches a control literal's assignment to the bound it
// asserts. When b settles True, the assertion's own comparison is
// asserted directly. When b settles False, the complementary strict
// bound is asserted instead, using an infinitesimal shift to encode
// the strict negation of a non-strict threshold: not(x <= v) becomes
// x >= v + epsilon, and not(x >= v) becomes x <= v - epsilon.
func (th *Theory) Propagate(p sat.Literal) bool {
	a, ok := th.vAsrts[p.Variable()]
	if !ok {
		return true
	}
	switch th.core.ValueLit(a.b) {
	case sat.True:
		switch a.kind {
		case leqKind:
			return th.assertUpper(a.x, a.v, a.b)
		case geqKind:
			return th.assertLower(a.x, a.v, a.b)
		}
	case sat.False:
		switch a.kind {
		case leqKind:
			shifted := rational.NewInfRational(a.v.Rat, a.v.Inf.Add(rational.One))
			return th.assertLower(a.x, shifted, a.b.Not())
		case geqKind:
			shifted := rational.NewInfRational(a.v.Rat, a.v.Inf.Sub(rational.One))
			return th.assertUpper(a.x, shifted, a.b.Not())
		}
	}
	return true
}

// AssertLower tightens x's lower bound to val, justified by p, without
// running a feasibility check: the caller is expected to drive
// Propagate/Check through the sat core afterwards. Returns false on an
// immediate bound conflict, leaving the conflict set in the theory's
// cnfl buffer.
func (th *Theory) AssertLower(x Var, val rational.InfRational, p sat.Literal) bool {
	return th.assertLower(x, val, p)
}

// AssertUpper is AssertLower's dual.
func (th *Theory) AssertUpper(x Var, val rational.InfRational, p sat.Literal) bool {
	return th.assertUpper(x, val, p)
}

// SetLB tightens x's lower bound to val and immediately restores
// simplex feasibility, so a bound that contradicts the rest of the
// tableau is reported as a conflict right away rather than at the next
// propagation drain.
func (th *Theory) SetLB(x Var, val rational.InfRational, p sat.Literal) bool {
	return th.assertLower(x, val, p) && th.Check()
}

// SetUB is SetLB's dual.
func (th *Theory) SetUB(x Var, val rational.InfRational, p sat.Literal) bool {
	return th.assertUpper(x, val, p) && th.Check()
}

// SetEq pins x to val by tightening both bounds.
func (th *Theory) SetEq(x Var, val rational.InfRational, p sat.Literal) bool {
	return th.assertLower(x, val, p) && th.assertUpper(x, val, p) && th.Check()
}
