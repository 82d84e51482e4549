// Package lra implements Linear Real Arithmetic as an incremental
// simplex over the rational/infinitesimal field, wired into a sat.Core
// as a Theory.
package lra

import (
	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
	"github.com/xDarkicex/smt/smtjson"
	"github.com/xDarkicex/smt/smtlog"
)

// Var is a numeric LRA variable index, distinct from the SAT core's
// boolean Var space.
type Var int

type bound struct {
	value  rational.InfRational
	reason sat.Literal
}

// row represents a tableau equation x = lin, where lin is expressed in
// terms of the current nonbasic variables.
type row struct {
	x   Var
	lin rational.Lin
}

// boundWrite records a single bound-slot overwrite, undone on Pop.
type boundWrite struct {
	idx    int
	value  rational.InfRational
	reason sat.Literal
}

// Theory is the LRA decision procedure: a tableau of basic variables
// expressed as linear combinations of nonbasic variables, each
// variable carrying a current value and a lower/upper bound pair.
type Theory struct {
	core   *sat.Core
	logger *smtlog.Logger
	cnfl   []sat.Literal

	cBounds []bound
	vals    []rational.InfRational

	tableau  map[Var]*row
	tWatches map[Var]map[Var]bool // nonbasic var -> set of basic vars whose row mentions it

	vAsrts   map[sat.Var]*assertion
	aWatches map[Var][]*assertion

	exprs  map[string]Var
	sAsrts map[string]sat.Literal

	layers [][]boundWrite

	listeners      map[Var][]*valueListener
	nextListenerID int64
}

type valueListener struct {
	id int64
	f  func(rational.InfRational)
}

// NewTheory builds an empty LRA theory and registers it with core's
// Check() cycle.
func NewTheory(core *sat.Core, opts ...Option) *Theory {
	th := &Theory{
		core:      core,
		logger:    smtlog.Discard(),
		tableau:   make(map[Var]*row),
		tWatches:  make(map[Var]map[Var]bool),
		vAsrts:    make(map[sat.Var]*assertion),
		aWatches:  make(map[Var][]*assertion),
		exprs:     make(map[string]Var),
		sAsrts:    make(map[string]sat.Literal),
		listeners: make(map[Var][]*valueListener),
	}
	for _, opt := range opts {
		opt(th)
	}
	core.RegisterTheory(th)
	return th
}

// Option configures a Theory at construction time.
type Option func(*Theory)

// WithLogger attaches a diagnostic logger.
func WithLogger(l *smtlog.Logger) Option { return func(t *Theory) { t.logger = l } }

func (th *Theory) Name() string { return "lra" }
func (th *Theory) Cnfl() []sat.Literal { return th.cnfl }
func (th *Theory) ClearCnfl() { th.cnfl = nil }
func (th *Theory) setCnfl(l []sat.Literal) { th.cnfl = l }

func lbIndex(v Var) int { return int(v) << 1 }
func ubIndex(v Var) int { return int(v)<<1 | 1 }

// Listen registers a callback fired whenever v's value changes,
// returning a function that detaches it.
func (th *Theory) Listen(v Var, f func(rational.InfRational)) sat.Unsubscribe {
	th.nextListenerID++
	id := th.nextListenerID
	th.listeners[v] = append(th.listeners[v], &valueListener{id: id, f: f})
	return func() {
		entries := th.listeners[v]
		for i, e := range entries {
			if e.id == id {
				th.listeners[v] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (th *Theory) fireChanged(v Var) {
	for _, e := range th.listeners[v] {
		e.f(th.vals[v])
	}
}

// NewVar allocates a fresh LRA variable unconstrained on (-inf, +inf),
// with value 0.
func (th *Theory) NewVar() Var {
	v := Var(len(th.vals))
	th.cBounds = append(th.cBounds,
		bound{value: rational.NewInfRational(rational.NegativeInfinity, rational.Zero), reason: sat.TrueLit},
		bound{value: rational.NewInfRational(rational.PositiveInfinity, rational.Zero), reason: sat.TrueLit},
	)
	th.vals = append(th.vals, rational.FromIntValue(0))
	return v
}

// NewRowVar allocates a slack variable s equal to l and adds the
// tableau row s = l. Precondition: root level.
func (th *Theory) NewRowVar(l rational.Lin) Var {
	if !th.core.RootLevel() {
		panic(sat.NewPreconditionError("NewRowVar", "lra new_var(expr) requires root level"))
	}
	slack := th.NewVar()
	th.cBounds[lbIndex(slack)] = bound{value: th.LBOf(l), reason: sat.TrueLit}
	th.cBounds[ubIndex(slack)] = bound{value: th.UBOf(l), reason: sat.TrueLit}
	th.vals[slack] = th.ValueOf(l)
	th.newRow(slack, l)
	if key := l.String(); !th.hasExpr(key) {
		th.exprs[key] = slack
	}
	return slack
}

func (th *Theory) newRow(x Var, l rational.Lin) {
	for _, vid := range l.VarIDs() {
		nv := Var(vid)
		if th.tWatches[nv] == nil {
			th.tWatches[nv] = make(map[Var]bool)
		}
		th.tWatches[nv][x] = true
	}
	th.tableau[x] = &row{x: x, lin: l}
}

func (th *Theory) isBasic(v Var) bool { _, ok := th.tableau[v]; return ok }

func (th *Theory) hasExpr(key string) bool { _, ok := th.exprs[key]; return ok }

// LB, UB and Value return the current bound/value of an LRA variable.
func (th *Theory) LB(v Var) rational.InfRational { return th.cBounds[lbIndex(v)].value }
func (th *Theory) UB(v Var) rational.InfRational { return th.cBounds[ubIndex(v)].value }
func (th *Theory) Value(v Var) rational.InfRational { return th.vals[v] }

// LBOf and UBOf compute the current lower/upper bound of a linear
// expression from its variables' bounds, flipping polarity on
// negative coefficients.
func (th *Theory) LBOf(l rational.Lin) rational.InfRational {
	b := rational.FromRational(l.Known)
	for _, vid := range l.VarIDs() {
		c := l.Vars[vid]
		if c.IsPositive() {
			b = b.Add(th.LB(Var(vid)).MulRational(c))
		} else {
			b = b.Add(th.UB(Var(vid)).MulRational(c))
		}
	}
	return b
}

func (th *Theory) UBOf(l rational.Lin) rational.InfRational {
	b := rational.FromRational(l.Known)
	for _, vid := range l.VarIDs() {
		c := l.Vars[vid]
		if c.IsPositive() {
			b = b.Add(th.UB(Var(vid)).MulRational(c))
		} else {
			b = b.Add(th.LB(Var(vid)).MulRational(c))
		}
	}
	return b
}

// BoundsOf returns (LBOf(l), UBOf(l)).
func (th *Theory) BoundsOf(l rational.Lin) (rational.InfRational, rational.InfRational) {
	return th.LBOf(l), th.UBOf(l)
}

// ValueOf evaluates l under the current variable assignment.
func (th *Theory) ValueOf(l rational.Lin) rational.InfRational {
	v := rational.FromRational(l.Known)
	for _, vid := range l.VarIDs() {
		v = v.Add(th.Value(Var(vid)).MulRational(l.Vars[vid]))
	}
	return v
}

// Matches reports whether the bound intervals of l0 and l1 overlap.
func (th *Theory) Matches(l0, l1 rational.Lin) bool {
	l0lb, l0ub := th.BoundsOf(l0)
	l1lb, l1ub := th.BoundsOf(l1)
	return l0ub.GreaterOrEqual(l1lb) && l0lb.LessOrEqual(l1ub)
}

// substituteBasic rewrites every basic variable appearing in l with
// its tableau row, so l ends up expressed purely over nonbasic
// variables.
func (th *Theory) substituteBasic(l rational.Lin) rational.Lin {
	for {
		replaced := false
		for _, vid := range l.VarIDs() {
			v := Var(vid)
			if r, ok := th.tableau[v]; ok {
				c := l.Vars[vid]
				l = l.Sub(rational.FromVar(vid, c)).Add(r.lin.MulConst(c))
				replaced = true
				break
			}
		}
		if !replaced {
			return l
		}
	}
}

// internedRow resolves l to the variable standing for it: the variable
// itself for an identity expression, a cached slack for an expression
// seen before, or a fresh slack row otherwise.
func (th *Theory) internedRow(l rational.Lin) Var {
	if len(l.Vars) == 1 && l.Known.IsZero() {
		for vid, c := range l.Vars {
			if c.Equal(rational.One) {
				return Var(vid)
			}
		}
	}
	key := l.String()
	if v, ok := th.exprs[key]; ok {
		return v
	}
	v := th.NewRowVar(l)
	th.exprs[key] = v
	return v
}

func (th *Theory) pushWrite(idx int) {
	if len(th.layers) == 0 {
		return
	}
	top := len(th.layers) - 1
	for _, w := range th.layers[top] {
		if w.idx == idx {
			return // first write per index per layer only
		}
	}
	old := th.cBounds[idx]
	th.layers[top] = append(th.layers[top], boundWrite{idx: idx, value: old.value, reason: old.reason})
}

// Push begins a new decision-level undo layer.
func (th *Theory) Push() {
	th.layers = append(th.layers, nil)
}

// Pop restores every bound changed since the last Push.
func (th *Theory) Pop() {
	top := len(th.layers) - 1
	for _, w := range th.layers[top] {
		th.cBounds[w.idx] = bound{value: w.value, reason: w.reason}
	}
	th.layers = th.layers[:top]
}

// update assigns v the value newVal (v nonbasic) and adjusts every
// basic row depending on it. A watch whose coefficient canceled out of
// its row during an earlier pivot is skipped.
func (th *Theory) update(v Var, newVal rational.InfRational) {
	delta := newVal.Sub(th.vals[v])
	th.vals[v] = newVal
	th.fireChanged(v)
	for basicVar := range th.tWatches[v] {
		r := th.tableau[basicVar]
		c, ok := r.lin.Vars[int(v)]
		if !ok {
			continue
		}
		th.vals[basicVar] = th.vals[basicVar].Add(delta.MulRational(c))
		th.fireChanged(basicVar)
	}
}

// pivotAndUpdate solves xi's row for xj in terms of xi, substitutes xj
// into every other row, swaps basic/nonbasic status, then updates xi
// to v.
func (th *Theory) pivotAndUpdate(xi, xj Var, v rational.InfRational) {
	th.logger.Pivot(int(xi), int(xj))
	r := th.tableau[xi]
	aj := r.lin.Vars[int(xj)]

	rest := rational.Lin{Known: r.lin.Known}
	if len(r.lin.Vars) > 0 {
		rest.Vars = make(map[int]rational.Rational, len(r.lin.Vars))
		for vid, c := range r.lin.Vars {
			if Var(vid) != xj {
				rest.Vars[vid] = c
			}
		}
	}
	newLin := rational.FromVar(int(xi), rational.One).Sub(rest).DivConst(aj)

	for otherBasic := range th.tWatches[xj] {
		if otherBasic == xi {
			continue
		}
		or := th.tableau[otherBasic]
		c2, ok := or.lin.Vars[int(xj)]
		if !ok {
			continue
		}
		or.lin = or.lin.Sub(rational.FromVar(int(xj), c2)).Add(newLin.MulConst(c2))
		for _, vid := range newLin.VarIDs() {
			nv := Var(vid)
			if th.tWatches[nv] == nil {
				th.tWatches[nv] = make(map[Var]bool)
			}
			th.tWatches[nv][otherBasic] = true
		}
	}

	delete(th.tableau, xi)
	for _, vid := range r.lin.VarIDs() {
		delete(th.tWatches[Var(vid)], xi)
	}
	delete(th.tWatches, xj) // xj is basic now; no row mentions it

	th.tableau[xj] = &row{x: xj, lin: newLin}
	for _, vid := range newLin.VarIDs() {
		nv := Var(vid)
		if th.tWatches[nv] == nil {
			th.tWatches[nv] = make(map[Var]bool)
		}
		th.tWatches[nv][xj] = true
	}

	th.update(xi, v)
}

// lowestViolator finds the lowest-indexed basic variable currently
// outside its bounds.
func (th *Theory) lowestViolator() (Var, bool) {
	for v := 0; v < len(th.vals); v++ {
		cand := Var(v)
		if !th.isBasic(cand) {
			continue
		}
		val := th.vals[cand]
		if val.Less(th.LB(cand)) || val.Greater(th.UB(cand)) {
			return cand, true
		}
	}
	return 0, false
}

// pivotToFix restores feasibility of a single basic variable v found
// outside its bounds, using Bland's rule to pick the pivot partner: the
// lowest-indexed nonbasic variable in v's row whose coefficient sign
// lets it absorb the needed adjustment. Reports a conflict, built from
// every row variable's limiting bound reason, if no such partner
// exists.
func (th *Theory) pivotToFix(v Var) bool {
	r, ok := th.tableau[v]
	if !ok {
		return true
	}
	val := th.vals[v]
	below := val.Less(th.LB(v))
	above := val.Greater(th.UB(v))
	if !below && !above {
		return true
	}

	var pivotVar Var
	found := false
	for _, vid := range r.lin.VarIDs() {
		nv := Var(vid)
		c := r.lin.Vars[vid]
		nval := th.vals[nv]
		if below {
			if (c.IsPositive() && nval.Less(th.UB(nv))) || (c.IsNegative() && nval.Greater(th.LB(nv))) {
				pivotVar, found = nv, true
				break
			}
		} else {
			if (c.IsNegative() && nval.Less(th.UB(nv))) || (c.IsPositive() && nval.Greater(th.LB(nv))) {
				pivotVar, found = nv, true
				break
			}
		}
	}
	if !found {
		reason := make([]sat.Literal, 0, len(r.lin.Vars)+1)
		for _, vid := range r.lin.VarIDs() {
			nv := Var(vid)
			c := r.lin.Vars[vid]
			if (below && c.IsPositive()) || (!below && c.IsNegative()) {
				reason = append(reason, th.cBounds[ubIndex(nv)].reason.Not())
			} else {
				reason = append(reason, th.cBounds[lbIndex(nv)].reason.Not())
			}
		}
		if below {
			reason = append(reason, th.cBounds[lbIndex(v)].reason.Not())
		} else {
			reason = append(reason, th.cBounds[ubIndex(v)].reason.Not())
		}
		th.setCnfl(reason)
		return false
	}

	target := th.LB(v)
	if !below {
		target = th.UB(v)
	}
	th.pivotAndUpdate(v, pivotVar, target)
	return true
}

// Check implements Bland's-rule simplex feasibility restoration: find
// the lowest-indexed basic variable outside its bounds and pivot it
// back in, or report a conflict if no pivot can restore feasibility.
func (th *Theory) Check() bool {
	for {
		violator, found := th.lowestViolator()
		if !found {
			return true
		}
		if !th.pivotToFix(violator) {
			return false
		}
	}
}

// ToJSON renders a debug snapshot of the tableau and bounds.
func (th *Theory) ToJSON() *smtjson.Object {
	vars := smtjson.NewArray()
	for v := 0; v < len(th.vals); v++ {
		vars.Append(smtjson.NewObject(
			"var", v,
			"value", th.vals[v].String(),
			"lb", th.LB(Var(v)).String(),
			"ub", th.UB(Var(v)).String(),
			"basic", th.isBasic(Var(v)),
		))
	}
	return smtjson.NewObject("vars", vars, "rows", len(th.tableau))
}
