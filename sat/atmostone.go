package sat

// AtMostOne is a reified at-most-one: ctr <-> (no two of lits are True
// together). Sibling of ExactOne: a dedicated watcher over every
// literal's both polarities plus ctr's, tracking True and unresolved
// counts to decide what the latest assignment forces.
type AtMostOne struct {
	constrBase
	lits []Literal
	ctr  Literal
}

func newAtMostOneConstraint(c *Core, lits []Literal, ctr Literal) *AtMostOne {
	a := &AtMostOne{constrBase: constrBase{core: c}, lits: lits, ctr: ctr}
	for _, l := range lits {
		c.watch(l.Index(), a)
		c.watch(l.Not().Index(), a)
	}
	c.watch(ctr.Index(), a)
	c.watch(ctr.Not().Index(), a)
	return a
}

// counts tallies the literal states, keeping the first two True
// literals and the first two unresolved ones; two of each bound every
// propagation rule below.
func (a *AtMostOne) counts() (nTrue, nUndef int, firstTrue, secondTrue, firstUndef, secondUndef Literal) {
	for _, l := range a.lits {
		switch a.valueLit(l) {
		case True:
			if nTrue == 0 {
				firstTrue = l
			} else if nTrue == 1 {
				secondTrue = l
			}
			nTrue++
		case Undefined:
			if nUndef == 0 {
				firstUndef = l
			} else if nUndef == 1 {
				secondUndef = l
			}
			nUndef++
		}
	}
	return
}

func (a *AtMostOne) Propagate(p Literal) bool {
	a.core.watch(p.Index(), a)

	nTrue, nUndef, firstTrue, _, firstUndef, secondUndef := a.counts()

	// Two True literals settle ctr regardless of anything else.
	if nTrue >= 2 {
		return a.core.enqueue(a.ctr.Not(), a)
	}

	switch a.valueLit(a.ctr) {
	case True:
		if nTrue == 1 {
			// one literal holds; every other literal must be False.
			for _, l := range a.lits {
				if l != firstTrue && a.valueLit(l) != False {
					if !a.core.enqueue(l.Not(), a) {
						return false
					}
				}
			}
		}
		return true
	case False:
		// a second True literal is owed.
		switch {
		case nTrue == 1 && nUndef == 1:
			return a.core.enqueue(firstUndef, a)
		case nTrue == 0 && nUndef == 2:
			if !a.core.enqueue(firstUndef, a) {
				return false
			}
			return a.core.enqueue(secondUndef, a)
		case nTrue+nUndef < 2:
			return false // no two literals can ever hold together
		default:
			return true
		}
	default:
		if nTrue+nUndef <= 1 {
			// too few candidates remain for two Trues: ctr is entailed.
			return a.core.enqueue(a.ctr, a)
		}
		return true
	}
}

func (a *AtMostOne) Simplify() bool {
	nTrue, nUndef, _, _, _, _ := a.counts()
	return nUndef == 0 && a.valueLit(a.ctr) != Undefined && (nTrue <= 1) == (a.valueLit(a.ctr) == True)
}

func (a *AtMostOne) trueOf(l Literal) Literal {
	if a.valueLit(l) == True {
		return l
	}
	return l.Not()
}

// resolvedLits returns the current polarity of every resolved literal
// except skip's variable.
func (a *AtMostOne) resolvedLits(skip Var) []Literal {
	out := make([]Literal, 0, len(a.lits))
	for _, l := range a.lits {
		if l.Variable() != skip && a.valueLit(l) != Undefined {
			out = append(out, a.trueOf(l))
		}
	}
	return out
}

func (a *AtMostOne) GetReason(p Literal) []Literal {
	switch {
	case p == ConflictLit:
		reason := a.resolvedLits(a.ctr.Variable())
		if a.valueLit(a.ctr) != Undefined {
			reason = append(reason, a.trueOf(a.ctr))
		}
		return reason
	case p.Variable() == a.ctr.Variable():
		if p == a.ctr {
			// ctr forced True: the resolved literals left no room for a
			// second True.
			return a.resolvedLits(a.ctr.Variable())
		}
		// ctr forced False: two literals hold.
		nTrue, _, firstTrue, secondTrue, _, _ := a.counts()
		if nTrue >= 2 {
			return []Literal{firstTrue, secondTrue}
		}
		return a.resolvedLits(a.ctr.Variable())
	default:
		entry := findByVar(a.lits, p.Variable())
		if entry == p {
			// entry forced True: ctr is False and the other resolved
			// literals cannot supply the owed second True.
			return append(a.resolvedLits(p.Variable()), a.trueOf(a.ctr))
		}
		// entry forced False: ctr True with another literal already True.
		nTrue, _, firstTrue, _, _, _ := a.counts()
		if a.valueLit(a.ctr) == True && nTrue >= 1 {
			return []Literal{a.ctr, firstTrue}
		}
		return append(a.resolvedLits(p.Variable()), a.trueOf(a.ctr))
	}
}

func (a *AtMostOne) Copy(dst *Core) Constraint {
	return newAtMostOneConstraint(dst, append([]Literal(nil), a.lits...), a.ctr)
}
