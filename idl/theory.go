// Package idl implements the Integer/Rational Difference Logic theory
// as an incremental all-pairs shortest-path distance matrix, wired
// into a sat.Core as a Theory. Distances are carried as
// rational.InfRational throughout: an IDL caller keeps every
// infinitesimal component at zero and every rational integral, while
// an RDL caller uses the infinitesimal component for strict
// inequalities exactly as the LRA theory does.
package idl

import (
	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
	"github.com/xDarkicex/smt/smtjson"
	"github.com/xDarkicex/smt/smtlog"
)

// Var is a difference-logic variable index, distinct from the SAT
// core's boolean Var space. Variable 0 is the reference origin, with
// distance 0 to itself.
type Var int

const noPred = -1

// edgeConstraint is a literal-controlled claim that to - from <= dist.
// Registered in varConstrs by its control variable (for Propagate)
// and in pairConstrs by its endpoint pair. Conflict tracing does not
// read pairConstrs; it uses the owner map.
type edgeConstraint struct {
	b    sat.Literal
	from Var
	to   Var
	dist rational.InfRational
}

// write records a single (dists, preds, owner) overwrite at one matrix
// cell, undone on Pop.
type write struct {
	i, j     Var
	dist     rational.InfRational
	pred     Var
	owner    sat.Literal
	hadOwner bool
}

// Theory is the IDL/RDL decision procedure: a dense distance matrix
// dists[i][j] (shortest known bound on j - i) with predecessor matrix
// preds, updated incrementally as literal-guarded edges are asserted.
// preds[i][j] is the node immediately preceding j on the tightest
// known path i -> j, so walking it back decomposes any recorded path
// into the base edges it is built from.
type Theory struct {
	core   *sat.Core
	logger *smtlog.Logger
	cnfl   []sat.Literal

	nVars int
	dists [][]rational.InfRational
	preds [][]Var
	owner map[[2]Var]sat.Literal // base-edge literal justifying dists[i][j]

	varConstrs  map[sat.Var]*edgeConstraint
	pairConstrs map[[2]Var][]*edgeConstraint

	layers [][]write

	listeners      map[Var][]*groundListener
	nextListenerID int64
}

type groundListener struct {
	id int64
	f  func(lb, ub rational.InfRational)
}

// Option configures a Theory at construction time.
type Option func(*Theory)

// WithLogger attaches a diagnostic logger.
func WithLogger(l *smtlog.Logger) Option { return func(t *Theory) { t.logger = l } }

// WithInitialSize preallocates the distance matrix for n variables
// when n exceeds the default 16 (a smaller n keeps the default),
// avoiding early resizes for a caller that knows its variable count up
// front.
func WithInitialSize(n int) Option {
	return func(t *Theory) { t.growTo(n) }
}

// NewTheory builds an IDL/RDL theory with variable 0 reserved as the
// origin (distance 0 to itself) and registers it with core's Check()
// cycle.
func NewTheory(core *sat.Core, opts ...Option) *Theory {
	th := &Theory{
		core:        core,
		logger:      smtlog.Discard(),
		owner:       make(map[[2]Var]sat.Literal),
		varConstrs:  make(map[sat.Var]*edgeConstraint),
		pairConstrs: make(map[[2]Var][]*edgeConstraint),
		listeners:   make(map[Var][]*groundListener),
	}
	th.growTo(16)
	th.nVars = 1
	for _, opt := range opts {
		opt(th)
	}
	core.RegisterTheory(th)
	return th
}

func (th *Theory) Name() string { return "idl" }
func (th *Theory) Cnfl() []sat.Literal { return th.cnfl }
func (th *Theory) ClearCnfl() { th.cnfl = nil }

func (th *Theory) growTo(size int) {
	cur := len(th.dists)
	if size <= cur {
		return
	}
	newDists := make([][]rational.InfRational, size)
	newPreds := make([][]Var, size)
	for i := 0; i < size; i++ {
		newDists[i] = make([]rational.InfRational, size)
		newPreds[i] = make([]Var, size)
		for j := 0; j < size; j++ {
			if i < cur && j < cur {
				newDists[i][j] = th.dists[i][j]
				newPreds[i][j] = th.preds[i][j]
				continue
			}
			if i == j {
				newDists[i][j] = rational.FromIntValue(0)
				newPreds[i][j] = Var(i)
			} else {
				newDists[i][j] = rational.FromRational(rational.PositiveInfinity)
				newPreds[i][j] = noPred
			}
		}
	}
	th.dists = newDists
	th.preds = newPreds
}

// NewVar allocates a fresh difference-logic variable, resizing the
// matrices geometrically when they run out of room.
func (th *Theory) NewVar() Var {
	v := Var(th.nVars)
	th.nVars++
	if int(v) >= len(th.dists) {
		th.growTo(len(th.dists)*3/2 + 1)
	}
	return v
}

// LB and UB return the current bound of v relative to the origin.
func (th *Theory) LB(v Var) rational.InfRational { return th.dists[v][0].Neg() }
func (th *Theory) UB(v Var) rational.InfRational { return th.dists[0][v] }

// Bounds returns (LB(v), UB(v)).
func (th *Theory) Bounds(v Var) (rational.InfRational, rational.InfRational) {
	return th.LB(v), th.UB(v)
}

// Distance returns (-dists[to][from], dists[from][to]): the tightest
// known lower and upper bound on `to - from`.
func (th *Theory) Distance(from, to Var) (rational.InfRational, rational.InfRational) {
	return th.dists[to][from].Neg(), th.dists[from][to]
}

// IsGround reports whether v's bounds currently coincide.
func (th *Theory) IsGround(v Var) bool { return th.LB(v).Equal(th.UB(v)) }

// Listen registers a callback fired with (lb, ub) whenever a
// propagation collapses v's bounds to a single ground value, returning
// a function that detaches it.
func (th *Theory) Listen(v Var, f func(lb, ub rational.InfRational)) sat.Unsubscribe {
	th.nextListenerID++
	id := th.nextListenerID
	th.listeners[v] = append(th.listeners[v], &groundListener{id: id, f: f})
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

func (th *Theory) fireIfGround(v Var) {
	if !th.IsGround(v) {
		return
	}
	lb, ub := th.Bounds(v)
	for _, e := range th.listeners[v] {
		e.f(lb, ub)
	}
}

// NewDistance mints a fresh control literal for `to - from <= dist`,
// short-circuiting to TrueLit/FalseLit when the distance matrix
// already settles the claim. Repeated calls with the same arguments
// mint distinct literals.
func (th *Theory) NewDistance(from, to Var, dist rational.InfRational) sat.Literal {
	if th.dists[to][from].Less(dist.Neg()) {
		return sat.FalseLit
	}
	if th.dists[from][to].LessOrEqual(dist) {
		return sat.TrueLit
	}

	ctr := sat.NewLiteral(th.core.NewVar(), true)
	th.core.Bind(ctr.Variable(), th)
	ec := &edgeConstraint{b: ctr, from: from, to: to, dist: dist}
	th.varConstrs[ctr.Variable()] = ec
	key := [2]Var{from, to}
	th.pairConstrs[key] = append(th.pairConstrs[key], ec)
	return ctr
}

// NewDistanceRange mints the conjunction of NewDistance(to, from,
// -min) and NewDistance(from, to, max), i.e. `to - from` in
// [min, max].
func (th *Theory) NewDistanceRange(from, to Var, min, max rational.InfRational) sat.Literal {
	return th.core.NewConj([]sat.Literal{
		th.NewDistance(to, from, min.Neg()),
		th.NewDistance(from, to, max),
	})
}

// unimplementedComparator panics: a general linear expression has no
// difference-shaped encoding in this matrix, and approximating one
// would silently weaken the theory. Callers needing these comparators
// use lra instead.
func unimplementedComparator(op string) sat.Literal {
	panic(sat.NewUnimplementedError("idl."+op, "general linear-expression comparators are not implemented; use lra instead"))
}

func (th *Theory) NewLt(left, right rational.Lin) sat.Literal { return unimplementedComparator("NewLt") }
func (th *Theory) NewLeq(left, right rational.Lin) sat.Literal { return unimplementedComparator("NewLeq") }
func (th *Theory) NewEq(left, right rational.Lin) sat.Literal { return unimplementedComparator("NewEq") }
func (th *Theory) NewGeq(left, right rational.Lin) sat.Literal { return unimplementedComparator("NewGeq") }
func (th *Theory) NewGt(left, right rational.Lin) sat.Literal { return unimplementedComparator("NewGt") }

// BoundsOf computes the bound interval of a linear expression shaped
// as a difference: a constant, a single unit-coefficient variable, or
// a two-variable expression with coefficients +1/-1. Any other shape
// is out of range for a difference-logic theory.
func (th *Theory) BoundsOf(l rational.Lin) (rational.InfRational, rational.InfRational) {
	ids := l.VarIDs()
	known := rational.FromRational(l.Known)
	switch len(ids) {
	case 0:
		return known, known
	case 1:
		v := Var(ids[0])
		c := l.Vars[ids[0]]
		lb, ub := th.Bounds(v)
		switch {
		case c.Equal(rational.One):
			return known.Add(lb), known.Add(ub)
		case c.Equal(rational.One.Neg()):
			return known.Sub(ub), known.Sub(lb)
		default:
			panic(sat.NewInvalidArgumentError("idl.BoundsOf", "single-variable term must have coefficient +1 or -1"))
		}
	case 2:
		v0, v1 := Var(ids[0]), Var(ids[1])
		c0, c1 := l.Vars[ids[0]], l.Vars[ids[1]]
		switch {
		case c0.Equal(rational.One) && c1.Equal(rational.One.Neg()):
			lb, ub := th.Distance(v1, v0)
			return known.Add(lb), known.Add(ub)
		case c0.Equal(rational.One.Neg()) && c1.Equal(rational.One):
			lb, ub := th.Distance(v0, v1)
			return known.Add(lb), known.Add(ub)
		default:
			panic(sat.NewInvalidArgumentError("idl.BoundsOf", "two-variable term must have coefficients +1 and -1"))
		}
	default:
		panic(sat.NewInvalidArgumentError("idl.BoundsOf", "difference logic bounds() requires 0, 1 or 2 variable terms"))
	}
}

// Matches reports whether the bound intervals of l0 and l1 overlap.
func (th *Theory) Matches(l0, l1 rational.Lin) bool {
	l0lb, l0ub := th.BoundsOf(l0)
	l1lb, l1ub := th.BoundsOf(l1)
	return l0ub.GreaterOrEqual(l1lb) && l0lb.LessOrEqual(l1ub)
}

func (th *Theory) pushWrite(i, j Var) {
	if len(th.layers) == 0 {
		return
	}
	top := len(th.layers) - 1
	for _, w := range th.layers[top] {
		if w.i == i && w.j == j {
			return
		}
	}
	owner, hadOwner := th.owner[[2]Var{i, j}]
	th.layers[top] = append(th.layers[top], write{
		i: i, j: j,
		dist: th.dists[i][j], pred: th.preds[i][j],
		owner: owner, hadOwner: hadOwner,
	})
}

// Push begins a new decision-level undo layer.
func (th *Theory) Push() { th.layers = append(th.layers, nil) }

// Pop restores every matrix cell touched since the last Push.
func (th *Theory) Pop() {
	top := len(th.layers) - 1
	for _, w := range th.layers[top] {
		th.dists[w.i][w.j] = w.dist
		th.preds[w.i][w.j] = w.pred
		key := [2]Var{w.i, w.j}
		if w.hadOwner {
			th.owner[key] = w.owner
		} else {
			delete(th.owner, key)
		}
	}
	th.layers = th.layers[:top]
}

// Propagate dispatches a control literal's assignment to its edge.
// Only the True branch tightens the distance matrix: a refuted edge
// carries no directly representable difference constraint, so it is a
// no-op.
func (th *Theory) Propagate(p sat.Literal) bool {
	ec, ok := th.varConstrs[p.Variable()]
	if !ok || th.core.ValueLit(ec.b) != sat.True {
		return true
	}
	return th.propagateEdge(ec.from, ec.to, ec.dist, ec.b)
}

// Check performs no additional work: every inconsistency this theory
// can detect (a negative cycle) is caught incrementally inside
// propagateEdge as soon as the triggering edge is asserted.
func (th *Theory) Check() bool { return true }

// propagateEdge incorporates a newly-true edge from -> to (weight d)
// into the distance matrix via an incremental all-pairs update,
// detecting any negative cycle it creates. preds cells improved
// through the new edge inherit the predecessor of j on the to -> j
// sub-path, keeping the invariant that consecutive pred-chain nodes
// are joined by base edges.
func (th *Theory) propagateEdge(from, to Var, d rational.InfRational, b sat.Literal) bool {
	if !th.dists[from][to].Greater(d) {
		return true
	}
	th.logger.Edge(int(from), int(to), d.String())

	n := th.nVars
	th.pushWrite(from, to)
	th.dists[from][to] = d
	th.preds[from][to] = from
	th.owner[[2]Var{from, to}] = b

	grounded := make(map[Var]bool)
	markOrigin := func(i, j Var) {
		if i == 0 {
			grounded[j] = true
		}
		if j == 0 {
			grounded[i] = true
		}
	}
	markOrigin(from, to)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if Var(i) == from && Var(j) == to {
				continue
			}
			nd := th.dists[i][from].Add(d).Add(th.dists[to][j])
			if nd.Less(th.dists[i][j]) {
				th.pushWrite(Var(i), Var(j))
				th.dists[i][j] = nd
				if Var(j) == to {
					th.preds[i][j] = from
				} else {
					th.preds[i][j] = th.preds[to][j]
				}
				markOrigin(Var(i), Var(j))
			}
		}
	}

	for i := 0; i < n; i++ {
		if th.dists[i][i].IsNegative() {
			th.setCnfl(th.traceCycle(Var(i)))
			return false
		}
	}

	for v := range grounded {
		th.fireIfGround(v)
	}
	return true
}

func (th *Theory) setCnfl(lits []sat.Literal) { th.cnfl = lits }

// traceCycle collects the controlling literal of every hop on the
// negative cycle through start, walking preds[start][.] back from the
// node preceding start until the cycle closes. Every hop in a pred
// chain is a base edge, so each has an owning literal.
func (th *Theory) traceCycle(start Var) []sat.Literal {
	lits := make([]sat.Literal, 0, th.nVars)
	cur := start
	for step := 0; step <= th.nVars; step++ {
		p := th.preds[start][cur]
		if p == noPred {
			break
		}
		if lit, ok := th.owner[[2]Var{p, cur}]; ok {
			lits = append(lits, lit.Not())
		}
		cur = p
		if cur == start {
			break
		}
	}
	return lits
}

// ToJSON renders a debug snapshot of the distance matrix.
func (th *Theory) ToJSON() *smtjson.Object {
	rows := smtjson.NewArray()
	for i := 0; i < th.nVars; i++ {
		row := smtjson.NewArray()
		for j := 0; j < th.nVars; j++ {
			row.Append(th.dists[i][j].String())
		}
		rows.Append(row)
	}
	return smtjson.NewObject("vars", th.nVars, "dists", rows)
}
