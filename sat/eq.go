package sat

// Eq is a reified equality: ctr <-> (left <-> right). It watches both
// polarities of all three literals so that assigning any one of them
// may propagate the remaining two; propagation dispatches on variable
// identity so both polarities of a watched literal reach the same
// branch.
type Eq struct {
	constrBase
	left, right, ctr Literal
}

func newEqConstraint(c *Core, left, right, ctr Literal) *Eq {
	eq := &Eq{constrBase: constrBase{core: c}, left: left, right: right, ctr: ctr}
	for _, l := range []Literal{left, right, ctr} {
		c.watch(l.Index(), eq)
		c.watch(l.Not().Index(), eq)
	}
	return eq
}

func (eq *Eq) Propagate(p Literal) bool {
	eq.core.watch(p.Index(), eq)
	switch p.Variable() {
	case eq.left.Variable():
		return eq.propagateChanged(eq.left, eq.right)
	case eq.right.Variable():
		return eq.propagateChanged(eq.right, eq.left)
	default:
		return eq.propagateCtrl()
	}
}

// propagateChanged handles the case where one side's variable (left
// or right, passed as changed) was just assigned; it propagates the
// other side if ctr is resolved, or ctr if the other side is resolved.
func (eq *Eq) propagateChanged(changed, other Literal) bool {
	switch eq.valueLit(eq.ctr) {
	case True:
		if eq.valueLit(changed) == True {
			return eq.core.enqueue(other, eq)
		}
		return eq.core.enqueue(other.Not(), eq)
	case False:
		if eq.valueLit(changed) == True {
			return eq.core.enqueue(other.Not(), eq)
		}
		return eq.core.enqueue(other, eq)
	default:
		switch eq.valueLit(other) {
		case True:
			if eq.valueLit(changed) == True {
				return eq.core.enqueue(eq.ctr, eq)
			}
			return eq.core.enqueue(eq.ctr.Not(), eq)
		case False:
			if eq.valueLit(changed) == True {
				return eq.core.enqueue(eq.ctr.Not(), eq)
			}
			return eq.core.enqueue(eq.ctr, eq)
		default:
			return true
		}
	}
}

// propagateCtrl handles the case where ctr was just assigned: if
// either side is already resolved, the other side is forced.
func (eq *Eq) propagateCtrl() bool {
	switch eq.valueLit(eq.left) {
	case True:
		if eq.valueLit(eq.ctr) == True {
			return eq.core.enqueue(eq.right, eq)
		}
		return eq.core.enqueue(eq.right.Not(), eq)
	case False:
		if eq.valueLit(eq.ctr) == True {
			return eq.core.enqueue(eq.right.Not(), eq)
		}
		return eq.core.enqueue(eq.right, eq)
	default:
		switch eq.valueLit(eq.right) {
		case True:
			if eq.valueLit(eq.ctr) == True {
				return eq.core.enqueue(eq.left, eq)
			}
			return eq.core.enqueue(eq.left.Not(), eq)
		case False:
			if eq.valueLit(eq.ctr) == True {
				return eq.core.enqueue(eq.left.Not(), eq)
			}
			return eq.core.enqueue(eq.left, eq)
		default:
			return true
		}
	}
}

func (eq *Eq) Simplify() bool {
	return eq.valueLit(eq.left) != Undefined && eq.valueLit(eq.right) != Undefined && eq.valueLit(eq.ctr) != Undefined
}

// trueOf returns whichever polarity of l is currently True; only
// meaningful once l's variable is assigned.
func (eq *Eq) trueOf(l Literal) Literal {
	if eq.valueLit(l) == True {
		return l
	}
	return l.Not()
}

// GetReason returns the currently-True literals that forced p (every
// element of a reason must hold True, per the analyze() contract). By
// the time any of left/right/ctr propagates, the other two are always
// already resolved, so the reason is exactly their current polarity;
// for a conflict all three are resolved (the failing enqueue only
// happens once every side is known).
func (eq *Eq) GetReason(p Literal) []Literal {
	switch {
	case p == ConflictLit:
		return []Literal{eq.trueOf(eq.left), eq.trueOf(eq.right), eq.trueOf(eq.ctr)}
	case p.Variable() == eq.left.Variable():
		return []Literal{eq.trueOf(eq.right), eq.trueOf(eq.ctr)}
	case p.Variable() == eq.right.Variable():
		return []Literal{eq.trueOf(eq.left), eq.trueOf(eq.ctr)}
	default:
		return []Literal{eq.trueOf(eq.left), eq.trueOf(eq.right)}
	}
}

func (eq *Eq) Copy(dst *Core) Constraint {
	return newEqConstraint(dst, eq.left, eq.right, eq.ctr)
}
