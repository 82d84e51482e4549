package sat

// ExactOne is a reified exactly-one: ctr <-> (exactly one of lits is
// True). A dedicated watcher over every literal's both polarities plus
// ctr's, tracking the count of True and unresolved literals to decide
// what, if anything, the latest assignment forces.
type ExactOne struct {
	constrBase
	lits []Literal
	ctr  Literal
}

func newExactOneConstraint(c *Core, lits []Literal, ctr Literal) *ExactOne {
	e := &ExactOne{constrBase: constrBase{core: c}, lits: lits, ctr: ctr}
	for _, l := range lits {
		c.watch(l.Index(), e)
		c.watch(l.Not().Index(), e)
	}
	c.watch(ctr.Index(), e)
	c.watch(ctr.Not().Index(), e)
	return e
}

// counts tallies the literal states and remembers up to two True
// literals and the last unresolved one, enough for every propagation
// rule below.
func (e *ExactOne) counts() (nTrue, nUndef int, firstTrue, secondTrue, unresolved Literal) {
	for _, l := range e.lits {
		switch e.valueLit(l) {
		case True:
			if nTrue == 0 {
				firstTrue = l
			} else if nTrue == 1 {
				secondTrue = l
			}
			nTrue++
		case Undefined:
			unresolved = l
			nUndef++
		}
	}
	return
}

func (e *ExactOne) Propagate(p Literal) bool {
	e.core.watch(p.Index(), e)

	nTrue, nUndef, firstTrue, _, unresolved := e.counts()

	// Two True literals settle ctr regardless of anything else.
	if nTrue >= 2 {
		return e.core.enqueue(e.ctr.Not(), e)
	}

	switch e.valueLit(e.ctr) {
	case True:
		switch {
		case nTrue == 1:
			// exactly one holds; every other literal must be False.
			for _, l := range e.lits {
				if l != firstTrue && e.valueLit(l) != False {
					if !e.core.enqueue(l.Not(), e) {
						return false
					}
				}
			}
			return true
		case nUndef == 0:
			return false // every literal False while ctr demands one True
		case nUndef == 1:
			return e.core.enqueue(unresolved, e)
		default:
			return true
		}
	case False:
		switch {
		case nTrue == 1 && nUndef == 0:
			return false // exactly one True while ctr forbids it
		case nTrue == 1 && nUndef == 1:
			// a second True is the only way out.
			return e.core.enqueue(unresolved, e)
		case nTrue == 0 && nUndef == 1:
			// the lone holdout becoming True would make exactly one.
			return e.core.enqueue(unresolved.Not(), e)
		default:
			return true
		}
	default:
		if nUndef == 0 {
			// fully resolved literals settle ctr: nTrue is 0 or 1 here.
			if nTrue == 1 {
				return e.core.enqueue(e.ctr, e)
			}
			return e.core.enqueue(e.ctr.Not(), e)
		}
		return true
	}
}

func (e *ExactOne) Simplify() bool {
	nTrue, nUndef, _, _, _ := e.counts()
	return nUndef == 0 && e.valueLit(e.ctr) != Undefined && (nTrue == 1) == (e.valueLit(e.ctr) == True)
}

func (e *ExactOne) trueOf(l Literal) Literal {
	if e.valueLit(l) == True {
		return l
	}
	return l.Not()
}

// resolvedLits returns the current polarity of every resolved literal
// except skip's variable.
func (e *ExactOne) resolvedLits(skip Var) []Literal {
	out := make([]Literal, 0, len(e.lits))
	for _, l := range e.lits {
		if l.Variable() != skip && e.valueLit(l) != Undefined {
			out = append(out, e.trueOf(l))
		}
	}
	return out
}

func (e *ExactOne) GetReason(p Literal) []Literal {
	switch {
	case p == ConflictLit:
		reason := e.resolvedLits(e.ctr.Variable())
		if e.valueLit(e.ctr) != Undefined {
			reason = append(reason, e.trueOf(e.ctr))
		}
		return reason
	case p.Variable() == e.ctr.Variable():
		if p == e.ctr {
			// ctr forced True: exactly one literal True, rest False.
			return e.resolvedLits(e.ctr.Variable())
		}
		// ctr forced False: either two literals True, or none with all
		// resolved; either way the resolved polarities justify it.
		nTrue, _, firstTrue, secondTrue, _ := e.counts()
		if nTrue >= 2 {
			return []Literal{firstTrue, secondTrue}
		}
		return e.resolvedLits(e.ctr.Variable())
	default:
		entry := findByVar(e.lits, p.Variable())
		if entry == p {
			// entry forced True: ctr's polarity plus every other
			// resolved literal pushed it.
			return append(e.resolvedLits(p.Variable()), e.trueOf(e.ctr))
		}
		// entry forced False: either ctr True and another literal
		// already True, or ctr False with the others all False.
		nTrue, _, firstTrue, _, _ := e.counts()
		if e.valueLit(e.ctr) == True && nTrue >= 1 {
			return []Literal{e.ctr, firstTrue}
		}
		return append(e.resolvedLits(p.Variable()), e.trueOf(e.ctr))
	}
}

func (e *ExactOne) Copy(dst *Core) Constraint {
	return newExactOneConstraint(dst, append([]Literal(nil), e.lits...), e.ctr)
}
