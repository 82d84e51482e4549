package sat

// Constraint is the protocol every built-in and learned constraint
// implements. The core owns every constraint; watch lists and reasons
// hold borrow-only references to it.
type Constraint interface {
	// Propagate is invoked when literal p becomes True and this
	// constraint is on watches(p). It must reinstall itself into the
	// appropriate watch list and enqueue any implied literal with
	// itself as reason. It returns false if a conflict was detected,
	// in which case the constraint itself is the conflict source.
	Propagate(p Literal) bool

	// Simplify is called only at decision level 0 and reports whether
	// the constraint is permanently satisfied and can be dropped.
	Simplify() bool

	// GetReason returns the negation of the literals whose current
	// values forced p, or, for a conflict (p == ConflictLit, the
	// sentinel for "no specific literal"), the falsifying subset used
	// as the conflict clause.
	GetReason(p Literal) []Literal

	// Copy deep-duplicates the constraint into dst for snapshotting.
	Copy(dst *Core) Constraint
}

// constrBase gives every built-in constraint access to the owning
// core's value queries.
type constrBase struct {
	core *Core
}

func (c constrBase) value(v Var) LBool { return c.core.Value(v) }

func (c constrBase) valueLit(p Literal) LBool { return c.core.ValueLit(p) }
