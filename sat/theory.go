package sat

// Theory is the plug-in protocol a decision procedure (LRA, IDL/RDL,
// OV, ...) implements to participate in propagation. A theory is
// bound to the propositional variables it observes via Core.Bind; the
// core then routes every assignment to those variables through
// Propagate in addition to clause propagation.
type Theory interface {
	// Propagate is asked to perform propagation after p has been
	// assigned. Returns false if an inconsistency is found, in which
	// case Cnfl must hold the conflicting literal set.
	Propagate(p Literal) bool

	// Check asks whether the theory is consistent with the current
	// propositional assignment as a whole. Returns false on
	// inconsistency, filling Cnfl the same way as Propagate.
	Check() bool

	// Push notifies the theory that a new decision level has begun
	// and it may need to record state for Pop to undo.
	Push()

	// Pop notifies the theory that the current decision level is
	// being undone.
	Pop()

	// Cnfl returns the conflict literal set filled by the most recent
	// failing Propagate or Check.
	Cnfl() []Literal

	// ClearCnfl resets the conflict buffer after it has been consumed
	// by analyze-and-backjump.
	ClearCnfl()

	// Name identifies the theory for logging.
	Name() string
}

// TheoryBase gives a theory implementation the bind/record primitives
// plus the shared cnfl buffer. Embed it in a concrete theory struct.
type TheoryBase struct {
	Core *Core
	cnfl []Literal
}

// Bind registers v as a variable this theory wants routed to its
// Propagate method.
func (t *TheoryBase) Bind(v Var, self Theory) { t.Core.Bind(v, self) }

// Record asks the core to install a clause the theory has derived,
// independent of any conflict.
func (t *TheoryBase) Record(clause []Literal) { t.Core.Record(clause) }

// Cnfl returns the theory's current conflict buffer.
func (t *TheoryBase) Cnfl() []Literal { return t.cnfl }

// SetCnfl replaces the conflict buffer, used by Propagate/Check
// implementations to publish a fresh conflict.
func (t *TheoryBase) SetCnfl(lits []Literal) { t.cnfl = lits }

// ClearCnfl empties the conflict buffer.
func (t *TheoryBase) ClearCnfl() { t.cnfl = nil }
