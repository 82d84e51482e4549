package sat

// Disj is a reified disjunction: ctr <-> (lits[0] OR ... OR lits[n-1]).
// Dual of Conj: watches every literal's both polarities plus ctr's.
type Disj struct {
	constrBase
	lits []Literal
	ctr  Literal
}

func newDisjConstraint(c *Core, lits []Literal, ctr Literal) *Disj {
	d := &Disj{constrBase: constrBase{core: c}, lits: lits, ctr: ctr}
	for _, l := range lits {
		c.watch(l.Index(), d)
		c.watch(l.Not().Index(), d)
	}
	c.watch(ctr.Index(), d)
	c.watch(ctr.Not().Index(), d)
	return d
}

func (d *Disj) Propagate(p Literal) bool {
	d.core.watch(p.Index(), d)

	if p.Variable() == d.ctr.Variable() {
		if d.valueLit(d.ctr) == True {
			return d.forceUniqueTrue()
		}
		for _, l := range d.lits {
			if !d.core.enqueue(l.Not(), d) {
				return false
			}
		}
		return true
	}

	if d.valueLit(findByVar(d.lits, p.Variable())) == True {
		return d.core.enqueue(d.ctr, d)
	}
	if d.valueLit(d.ctr) == True {
		return d.forceUniqueTrue()
	}
	// a literal was falsified with ctr unresolved or False: once every
	// literal is False, the disjunction itself is.
	for _, l := range d.lits {
		if d.valueLit(l) != False {
			return true
		}
	}
	return d.core.enqueue(d.ctr.Not(), d)
}

// forceUniqueTrue scans for a literal already True (nothing to do), or
// the single remaining unresolved literal to force True; reports a
// conflict if every literal is already False.
func (d *Disj) forceUniqueTrue() bool {
	var unresolved Literal
	found := false
	for _, l := range d.lits {
		switch d.valueLit(l) {
		case True:
			return true
		case Undefined:
			if found {
				return true
			}
			unresolved = l
			found = true
		}
	}
	if !found {
		return false
	}
	return d.core.enqueue(unresolved, d)
}

func (d *Disj) Simplify() bool {
	anyTrue, allFalse := false, true
	for _, l := range d.lits {
		switch d.valueLit(l) {
		case True:
			anyTrue = true
		default:
			if d.valueLit(l) != False {
				allFalse = false
			}
		}
	}
	return anyTrue || allFalse
}

func (d *Disj) trueOf(l Literal) Literal {
	if d.valueLit(l) == True {
		return l
	}
	return l.Not()
}

func (d *Disj) GetReason(p Literal) []Literal {
	switch {
	case p == ConflictLit:
		reason := make([]Literal, 0, len(d.lits)+1)
		for _, l := range d.lits {
			if d.valueLit(l) != Undefined {
				reason = append(reason, d.trueOf(l))
			}
		}
		if d.valueLit(d.ctr) != Undefined {
			reason = append(reason, d.trueOf(d.ctr))
		}
		return reason
	case p.Variable() == d.ctr.Variable():
		if d.valueLit(d.ctr) == True {
			for _, l := range d.lits {
				if d.valueLit(l) == True {
					return []Literal{l}
				}
			}
			return nil
		}
		out := make([]Literal, len(d.lits))
		for i, l := range d.lits {
			out[i] = l.Not()
		}
		return out
	default:
		entry := findByVar(d.lits, p.Variable())
		if entry == p {
			reason := make([]Literal, 0, len(d.lits))
			reason = append(reason, d.ctr)
			for _, l := range d.lits {
				if l.Variable() != p.Variable() {
					reason = append(reason, l.Not())
				}
			}
			return reason
		}
		return []Literal{d.ctr.Not()}
	}
}

func (d *Disj) Copy(dst *Core) Constraint {
	return newDisjConstraint(dst, append([]Literal(nil), d.lits...), d.ctr)
}
