package sat

import (
	"sort"

	"github.com/xDarkicex/smt/smtjson"
	"github.com/xDarkicex/smt/smtlog"
)

// ConflictLit is the sentinel passed to Constraint.GetReason to mean
// "no specific literal; return the full falsifying set".
const ConflictLit Literal = Literal(^uint32(0))

// Stats are observability-only search counters.
type Stats struct {
	Variables    int
	Decisions    int
	Propagations int
	Conflicts    int
	Learned      int
}

// Core is the CDCL propositional engine: variable store, trail,
// two-watched-literal propagation, first-UIP conflict analysis with
// backjumping, and the theory-binding routing table.
type Core struct {
	assigns []LBool
	level   []int
	reason  []Constraint

	watches [][]Constraint // indexed by Literal.Index()

	trail     []Literal
	trailLim  []int
	decisions []Literal

	propQ []Literal

	constrs []Constraint

	theories      []Theory
	boundTheories [][]Theory // indexed by Var

	listeners      map[Var][]*listenerEntry
	nextListenerID int64

	logger *smtlog.Logger
	stats  Stats
}

// CoreOption configures a Core at construction time.
type CoreOption func(*Core)

// WithLogger attaches a diagnostic logger; the default is a discard
// logger so the engine stays silent unless a caller opts in.
func WithLogger(l *smtlog.Logger) CoreOption {
	return func(c *Core) { c.logger = l }
}

// WithListener attaches l to v at construction time.
func WithListener(v Var, l Listener) CoreOption {
	return func(c *Core) { c.Listen(v, l) }
}

// NewCore builds a Core with variable 0 reserved and permanently
// assigned False at decision level 0.
func NewCore(opts ...CoreOption) *Core {
	c := &Core{logger: smtlog.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	c.newVarRaw()
	c.assigns[FalseVar] = False
	c.level[FalseVar] = 0
	c.trail = append(c.trail, TrueLit)
	return c
}

func (c *Core) newVarRaw() Var {
	v := Var(len(c.assigns))
	c.assigns = append(c.assigns, Undefined)
	c.level = append(c.level, -1)
	c.reason = append(c.reason, nil)
	c.watches = append(c.watches, nil, nil)
	c.boundTheories = append(c.boundTheories, nil)
	return v
}

// NewVar appends a fresh variable, initially Undefined.
func (c *Core) NewVar() Var {
	v := c.newVarRaw()
	c.stats.Variables++
	return v
}

// Value returns the current assignment of a variable.
func (c *Core) Value(v Var) LBool { return c.assigns[v] }

// ValueLit returns the value of a literal, flipping on negation.
func (c *Core) ValueLit(p Literal) LBool {
	v := c.Value(p.Variable())
	if p.Positive() {
		return v
	}
	return v.Not()
}

// DecisionLevel is the number of assumptions currently pushed.
func (c *Core) DecisionLevel() int { return len(c.trailLim) }

// RootLevel reports whether no assumption is currently pushed.
func (c *Core) RootLevel() bool { return len(c.trailLim) == 0 }

// Stats returns a snapshot of the search counters.
func (c *Core) Stats() Stats { return c.stats }

// Bind routes every future assignment of v to th.Propagate in
// addition to clause propagation.
func (c *Core) Bind(v Var, th Theory) {
	c.boundTheories[v] = append(c.boundTheories[v], th)
}

// RegisterTheory adds th to the set consulted by Check() at the end
// of every propagation drain.
func (c *Core) RegisterTheory(th Theory) {
	c.theories = append(c.theories, th)
}

func (c *Core) watch(idx int, constr Constraint) {
	c.watches[idx] = append(c.watches[idx], constr)
}

func boolToLBool(b bool) LBool {
	if b {
		return True
	}
	return False
}

// enqueue assigns p True at the current decision level with the given
// reason (nil for a decision or a root fact). Returns false if p was
// already falsified.
func (c *Core) enqueue(p Literal, reason Constraint) bool {
	v := p.Variable()
	switch cur := c.assigns[v]; cur {
	case Undefined:
		c.assigns[v] = boolToLBool(p.Positive())
		c.level[v] = c.DecisionLevel()
		c.reason[v] = reason
		c.trail = append(c.trail, p)
		c.propQ = append(c.propQ, p)
		c.stats.Propagations++
		c.fireValueChanged(v)
		return true
	default:
		wantTrue := p.Positive()
		return (cur == True) == wantTrue
	}
}

// Assume pushes a new decision level, assigns p, and propagates.
// Precondition: value(p) == Undefined and the propagation queue is
// empty.
func (c *Core) Assume(p Literal) bool {
	if c.ValueLit(p) != Undefined {
		panic(NewPreconditionError("Assume", "assume requires an undefined literal"))
	}
	if len(c.propQ) != 0 {
		panic(NewPreconditionError("Assume", "assume requires an empty propagation queue"))
	}
	c.trailLim = append(c.trailLim, len(c.trail))
	c.decisions = append(c.decisions, p)
	c.stats.Decisions++
	for _, th := range c.theories {
		th.Push()
		c.logger.TheoryPush(th.Name(), c.DecisionLevel())
	}
	c.logger.Decision(c.DecisionLevel(), p.String())
	if !c.enqueue(p, nil) {
		return false
	}
	return c.Propagate()
}

// dispatchClauseWatches delivers p to every constraint watching its
// index, returning the first constraint that reports a conflict (nil
// on success). On conflict the unprocessed watchers are preserved in
// the watch list, since they did not get a chance to reinstall
// themselves; the failed constraint has already reinstalled its own
// watch before reporting the conflict.
func (c *Core) dispatchClauseWatches(p Literal) Constraint {
	idx := p.Index()
	watchers := c.watches[idx]
	c.watches[idx] = nil
	for i, w := range watchers {
		if !w.Propagate(p) {
			c.watches[idx] = append(c.watches[idx], watchers[i+1:]...)
			return w
		}
	}
	return nil
}

// Propagate drains the propagation queue: clause propagation strictly
// precedes theory propagation for the same literal, and every theory
// is checked once the queue empties. Returns false on UNSAT at root.
func (c *Core) Propagate() bool {
outer:
	for {
		for len(c.propQ) > 0 {
			p := c.propQ[0]
			c.propQ = c.propQ[1:]

			if confl := c.dispatchClauseWatches(p); confl != nil {
				c.propQ = c.propQ[:0]
				c.logger.Conflict("constraint", c.DecisionLevel())
				if !c.resolveConflict(confl) {
					return false
				}
				continue outer
			}

			for _, th := range c.boundTheories[p.Variable()] {
				if !th.Propagate(p) {
					c.propQ = c.propQ[:0]
					c.logger.Conflict(th.Name(), c.DecisionLevel())
					if c.RootLevel() {
						return false
					}
					if !c.theoryConflict(th) {
						return false
					}
					continue outer
				}
			}
		}

		for _, th := range c.theories {
			if !th.Check() {
				c.logger.Conflict(th.Name(), c.DecisionLevel())
				if c.RootLevel() {
					return false
				}
				if !c.theoryConflict(th) {
					return false
				}
				continue outer
			}
		}
		return true
	}
}

// anonConflict stands in for a clause built from a theory's conflict
// buffer: the buffer holds the no-good clause's literals (all currently
// False), so the reason set is their negations, exactly as Clause
// reports its own conflict.
type anonConflict struct{ lits []Literal }

func (a *anonConflict) Propagate(Literal) bool { return true }
func (a *anonConflict) Simplify() bool { return false }

func (a *anonConflict) GetReason(Literal) []Literal {
	out := make([]Literal, len(a.lits))
	for i, l := range a.lits {
		out[i] = l.Not()
	}
	return out
}

func (a *anonConflict) Copy(*Core) Constraint {
	return &anonConflict{lits: append([]Literal(nil), a.lits...)}
}

// theoryConflict builds an anonymous clause from th's conflict buffer,
// runs first-UIP analysis and backjumping against it, records the
// resulting no-good, and clears the buffer.
func (c *Core) theoryConflict(th Theory) bool {
	confl := &anonConflict{lits: append([]Literal(nil), th.Cnfl()...)}
	ok := c.resolveConflict(confl)
	th.ClearCnfl()
	return ok
}

// resolveConflict runs analysis on confl, backjumps, and records the
// learned clause. Returns false if the conflict occurred at root
// level (UNSAT).
func (c *Core) resolveConflict(confl Constraint) bool {
	if c.RootLevel() {
		return false
	}
	c.stats.Conflicts++
	learnt, backtrackLevel := c.analyze(confl)
	c.logger.Learned(len(learnt), backtrackLevel)
	for c.DecisionLevel() > backtrackLevel {
		c.Pop()
	}
	c.record(learnt)
	return true
}

// analyze implements first-UIP conflict analysis: it walks the
// implication graph backward from confl, resolving on reasons until
// exactly one current-decision-level literal remains unexplained. That
// literal's negation becomes out_learnt[0].
func (c *Core) analyze(confl Constraint) ([]Literal, int) {
	seen := make([]bool, len(c.assigns))
	counter := 0
	outLearnt := []Literal{0}
	backtrackLevel := 0
	curLevel := c.DecisionLevel()

	pReason := confl.GetReason(ConflictLit)
	trailIdx := len(c.trail) - 1
	var p Literal

	for {
		for _, q := range pReason {
			v := q.Variable()
			if seen[v] {
				continue
			}
			seen[v] = true
			switch {
			case c.level[v] == curLevel:
				counter++
			case c.level[v] > 0:
				outLearnt = append(outLearnt, q.Not())
				if c.level[v] > backtrackLevel {
					backtrackLevel = c.level[v]
				}
			}
		}

		for !seen[c.trail[trailIdx].Variable()] {
			trailIdx--
		}
		p = c.trail[trailIdx]
		pv := p.Variable()
		if r := c.reason[pv]; r != nil {
			pReason = r.GetReason(p)
		} else {
			pReason = nil
		}
		trailIdx--
		counter--
		if counter == 0 {
			break
		}
	}

	outLearnt[0] = p.Not()
	return outLearnt, backtrackLevel
}

// record installs the clause learned by analyze: a single-literal
// clause is a root-level fact (the caller has already backjumped to
// level 0); otherwise the tail is sorted by descending level so the
// new clause watches the two highest-level (most recently falsified)
// literals, ready to trigger on the next backtrack.
func (c *Core) record(learnt []Literal) {
	if len(learnt) == 1 {
		c.enqueue(learnt[0], nil)
		return
	}
	tail := learnt[1:]
	sort.Slice(tail, func(i, j int) bool {
		return c.level[tail[i].Variable()] > c.level[tail[j].Variable()]
	})
	cl := newClauseConstraint(c, learnt)
	c.constrs = append(c.constrs, cl)
	c.stats.Learned++
	c.enqueue(learnt[0], cl)
}

// Pop unwinds the trail to the last decision level, clearing
// assignment/level/reason for every popped variable and firing
// value-reset listeners, then pops every theory. Precondition: at
// least one decision level is pushed.
func (c *Core) Pop() {
	if len(c.trailLim) == 0 {
		panic(NewPreconditionError("Pop", "pop called with empty trail_lim"))
	}
	lim := c.trailLim[len(c.trailLim)-1]
	for i := len(c.trail) - 1; i >= lim; i-- {
		v := c.trail[i].Variable()
		c.assigns[v] = Undefined
		c.level[v] = -1
		c.reason[v] = nil
		c.fireValueReset(v)
	}
	c.trail = c.trail[:lim]
	c.trailLim = c.trailLim[:len(c.trailLim)-1]
	c.decisions = c.decisions[:len(c.decisions)-1]
	for _, th := range c.theories {
		th.Pop()
		c.logger.TheoryPop(th.Name(), c.DecisionLevel())
	}
}

func canonicalizeClause(c *Core, ls []Literal) ([]Literal, bool) {
	lits := append([]Literal(nil), ls...)
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })

	out := make([]Literal, 0, len(lits))
	for i, l := range lits {
		if i > 0 && l == lits[i-1] {
			continue
		}
		if i > 0 && l.Variable() == lits[i-1].Variable() {
			return nil, true // tautology {p, !p}
		}
		switch c.ValueLit(l) {
		case True:
			return nil, true // already satisfied
		case False:
			continue // already falsified, drop
		}
		out = append(out, l)
	}
	return out, false
}

// NewClause installs a problem clause. Precondition: root level.
// Returns false if the clause set is discovered to be UNSAT.
func (c *Core) NewClause(ls []Literal) bool {
	if !c.RootLevel() {
		panic(NewPreconditionError("NewClause", "new_clause requires root level"))
	}
	out, resolved := canonicalizeClause(c, ls)
	if resolved {
		return true
	}
	switch len(out) {
	case 0:
		return false
	case 1:
		return c.enqueue(out[0], nil)
	default:
		cl := newClauseConstraint(c, out)
		c.constrs = append(c.constrs, cl)
		return true
	}
}

// Record installs a clause a theory has derived outside of a conflict,
// at whatever decision level the theory currently observes. Unlike
// NewClause it may run above root, so only literals falsified at level
// 0 are dropped; literals falsified at higher levels stay in the
// clause, since a later pop may unassign them. A clause that arrives
// unit (one unfalsified, undefined literal) propagates that literal
// with itself as reason.
func (c *Core) Record(ls []Literal) {
	lits := append([]Literal(nil), ls...)
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })

	out := make([]Literal, 0, len(lits))
	for i, l := range lits {
		if i > 0 && l == lits[i-1] {
			continue
		}
		if i > 0 && l.Variable() == lits[i-1].Variable() {
			return // tautology
		}
		if c.ValueLit(l) == True {
			return // already satisfied
		}
		if c.ValueLit(l) == False && c.level[l.Variable()] == 0 {
			continue
		}
		out = append(out, l)
	}

	switch len(out) {
	case 0:
		return
	case 1:
		c.enqueue(out[0], nil)
		return
	}

	// Make the clause ready to watch: an undefined literal (there is at
	// most one, for a clause derived as unit) goes first, the rest are
	// ordered by descending assignment level.
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i], out[j]
		ui, uj := c.ValueLit(li) == Undefined, c.ValueLit(lj) == Undefined
		if ui != uj {
			return ui
		}
		return c.level[li.Variable()] > c.level[lj.Variable()]
	})
	cl := newClauseConstraint(c, out)
	c.constrs = append(c.constrs, cl)
	if c.ValueLit(out[0]) == Undefined && c.ValueLit(out[1]) == False {
		c.enqueue(out[0], cl)
	}
}

// SimplifyDB drops every constraint whose Simplify() reports
// permanent satisfaction. Precondition: root level.
func (c *Core) SimplifyDB() bool {
	if !c.RootLevel() {
		panic(NewPreconditionError("SimplifyDB", "simplify_db requires root level"))
	}
	kept := c.constrs[:0]
	for _, cst := range c.constrs {
		if !cst.Simplify() {
			kept = append(kept, cst)
		}
	}
	c.constrs = kept
	return true
}

// Copy deep-duplicates every constraint and per-variable state into a
// fresh Core, remapping reasons by old-to-new constraint identity and
// rebinding listeners. Theories are not duplicated: a theory owns
// state the sat core has no visibility into, so snapshotting a
// theory-extended search is the theory package's responsibility.
func (c *Core) Copy() *Core {
	dst := &Core{
		logger:        c.logger,
		assigns:       append([]LBool(nil), c.assigns...),
		level:         append([]int(nil), c.level...),
		reason:        make([]Constraint, len(c.reason)),
		watches:       make([][]Constraint, len(c.watches)),
		trail:         append([]Literal(nil), c.trail...),
		trailLim:      append([]int(nil), c.trailLim...),
		decisions:     append([]Literal(nil), c.decisions...),
		boundTheories: make([][]Theory, len(c.boundTheories)),
		stats:         c.stats,
	}
	copy(dst.boundTheories, c.boundTheories)

	old2new := make(map[Constraint]Constraint, len(c.constrs))
	for _, oc := range c.constrs {
		nc := oc.Copy(dst)
		old2new[oc] = nc
		dst.constrs = append(dst.constrs, nc)
	}
	for v := range c.reason {
		if r := c.reason[v]; r != nil {
			dst.reason[v] = old2new[r]
		}
	}
	for v, entries := range c.listeners {
		if dst.listeners == nil {
			dst.listeners = make(map[Var][]*listenerEntry)
		}
		dst.listeners[v] = append(dst.listeners[v], entries...)
	}
	return dst
}

// ToJSON renders a debug snapshot of the core's trail and assignment
// state; the shape is not a stable wire format.
func (c *Core) ToJSON() *smtjson.Object {
	assigns := smtjson.NewArray()
	for v := 1; v < len(c.assigns); v++ {
		assigns.Append(smtjson.NewObject("var", v, "value", c.assigns[v].String(), "level", c.level[v]))
	}
	trail := smtjson.NewArray()
	for _, l := range c.trail {
		trail.Append(l.String())
	}
	return smtjson.NewObject(
		"assigns", assigns,
		"trail", trail,
		"decision_level", c.DecisionLevel(),
		"stats", smtjson.NewObject(
			"variables", c.stats.Variables,
			"decisions", c.stats.Decisions,
			"propagations", c.stats.Propagations,
			"conflicts", c.stats.Conflicts,
			"learned", c.stats.Learned,
		),
	)
}
