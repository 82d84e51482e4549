package sat

// Conj is a reified conjunction: ctr <-> (lits[0] AND ... AND lits[n-1]).
// It watches every literal's both polarities plus ctr's, so that
// resolving ctr forces every literal (or the unique unresolved one),
// and resolving all-but-one literal forces the remainder or ctr.
type Conj struct {
	constrBase
	lits []Literal
	ctr  Literal
}

func newConjConstraint(c *Core, lits []Literal, ctr Literal) *Conj {
	conj := &Conj{constrBase: constrBase{core: c}, lits: lits, ctr: ctr}
	for _, l := range lits {
		c.watch(l.Index(), conj)
		c.watch(l.Not().Index(), conj)
	}
	c.watch(ctr.Index(), conj)
	c.watch(ctr.Not().Index(), conj)
	return conj
}

func (conj *Conj) Propagate(p Literal) bool {
	conj.core.watch(p.Index(), conj)

	if p.Variable() == conj.ctr.Variable() {
		if conj.valueLit(conj.ctr) == True {
			for _, l := range conj.lits {
				if !conj.core.enqueue(l, conj) {
					return false
				}
			}
			return true
		}
		// ctr is False: the conjunction must be False. If any literal
		// is already False, it already is; otherwise the unique
		// remaining unresolved literal must be forced False.
		var unresolved Literal
		found := false
		for _, l := range conj.lits {
			switch conj.valueLit(l) {
			case False:
				return true
			case Undefined:
				if found {
					return true // more than one unresolved, nothing forced yet
				}
				unresolved = l
				found = true
			}
		}
		if !found {
			return false // every literal True while ctr forced False: contradiction
		}
		return conj.core.enqueue(unresolved.Not(), conj)
	}

	// one of the conjunction's literals was assigned.
	var unresolved Literal
	found := false
	for _, l := range conj.lits {
		switch conj.valueLit(l) {
		case False:
			return conj.core.enqueue(conj.ctr.Not(), conj)
		case Undefined:
			if found {
				return true
			}
			unresolved = l
			found = true
		}
	}
	if found {
		if conj.valueLit(conj.ctr) == False {
			return conj.core.enqueue(unresolved.Not(), conj)
		}
		return true
	}
	return conj.core.enqueue(conj.ctr, conj)
}

func (conj *Conj) Simplify() bool { return conj.valueLit(conj.ctr) != Undefined }

// trueOf returns whichever polarity of l is currently True.
func (conj *Conj) trueOf(l Literal) Literal {
	if conj.valueLit(l) == True {
		return l
	}
	return l.Not()
}

func (conj *Conj) GetReason(p Literal) []Literal {
	switch {
	case p == ConflictLit:
		reason := make([]Literal, 0, len(conj.lits)+1)
		for _, l := range conj.lits {
			if conj.valueLit(l) != Undefined {
				reason = append(reason, conj.trueOf(l))
			}
		}
		if conj.valueLit(conj.ctr) != Undefined {
			reason = append(reason, conj.trueOf(conj.ctr))
		}
		return reason
	case p.Variable() == conj.ctr.Variable():
		if conj.valueLit(conj.ctr) == True {
			// ctr true because every literal is true.
			out := make([]Literal, len(conj.lits))
			copy(out, conj.lits)
			return out
		}
		// ctr false because one literal is false.
		for _, l := range conj.lits {
			if conj.valueLit(l) == False {
				return []Literal{l.Not()}
			}
		}
		return nil
	default:
		if entry := findByVar(conj.lits, p.Variable()); entry == p {
			// p matches its conjunction entry exactly: true because ctr forced
			// every literal true.
			return []Literal{conj.ctr}
		}
		// p is the negation of its conjunction entry: the entry is False,
		// which only happens because ctr is False and every other entry is
		// True.
		reason := make([]Literal, 0, len(conj.lits))
		reason = append(reason, conj.ctr.Not())
		for _, l := range conj.lits {
			if l.Variable() != p.Variable() {
				reason = append(reason, l)
			}
		}
		return reason
	}
}

func findByVar(lits []Literal, v Var) Literal {
	for _, l := range lits {
		if l.Variable() == v {
			return l
		}
	}
	return Literal(0)
}

func (conj *Conj) Copy(dst *Core) Constraint {
	return newConjConstraint(dst, append([]Literal(nil), conj.lits...), conj.ctr)
}
