// Package sat implements a CDCL propositional core extended with a
// theory-plugin protocol: variables, literals, two-watched-literal
// propagation, first-UIP conflict analysis with backjumping, and the
// built-in clause/reified constraints used both for problem clauses
// and for learned no-goods.
package sat

import "fmt"

// Var is a nonnegative variable identity. Variable 0 is reserved: it
// is permanently assigned False and stands for the propositional
// constant false.
type Var uint32

// FalseVar is the reserved variable denoting the constant false.
const FalseVar Var = 0

// Literal is a variable together with a sign, packed as 2*v + s with
// s=1 denoting the positive occurrence, for dense array indexing by
// watch lists and per-variable tables.
type Literal uint32

// NewLiteral builds the literal for v with the given sign; positive
// == true yields the positive occurrence of v.
func NewLiteral(v Var, positive bool) Literal {
	var s uint32
	if positive {
		s = 1
	}
	return Literal(uint32(v)<<1 | s)
}

// Variable returns the underlying variable of l.
func (l Literal) Variable() Var { return Var(uint32(l) >> 1) }

// Positive reports whether l is the positive occurrence of its variable.
func (l Literal) Positive() bool { return uint32(l)&1 == 1 }

// Not toggles the sign bit, returning the complementary literal.
func (l Literal) Not() Literal { return Literal(uint32(l) ^ 1) }

// Index returns the dense array index used by watch lists.
func (l Literal) Index() int { return int(l) }

// FalseLit and TrueLit are the sentinel literals over FalseVar: since
// FalseVar is permanently assigned False, its positive occurrence is
// always False and its negation is always True.
var (
	FalseLit = NewLiteral(FalseVar, true)
	TrueLit  = FalseLit.Not()
)

func (l Literal) String() string {
	if l.Positive() {
		return fmt.Sprintf("b%d", l.Variable())
	}
	return fmt.Sprintf("¬b%d", l.Variable())
}

// LBool is three-valued logic: True, False, or Undefined.
type LBool int8

const (
	Undefined LBool = iota
	True
	False
)

// Not complements b; the negation of Undefined is Undefined.
func (b LBool) Not() LBool {
	switch b {
	case True:
		return False
	case False:
		return True
	default:
		return Undefined
	}
}

func (b LBool) String() string {
	switch b {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undefined"
	}
}
