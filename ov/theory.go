// Package ov implements the Object-Variable theory: a finite-domain
// variable compiled entirely to propositional clauses over one
// control literal per domain value, plus a reified equality
// constraint. It shows how a theory that needs no genuine decision
// procedure still satisfies the Theory plug-in protocol: Propagate and
// Check are unconditional no-ops, and Push/Pop carry no state, since
// every fact OV asserts is already on the SAT trail.
//
// Callers supply any comparable Go value as a domain element; this
// package never interprets it beyond key equality.
package ov

import (
	"github.com/xDarkicex/smt/sat"
	"github.com/xDarkicex/smt/smtjson"
)

// Var is an object-variable index, distinct from the SAT core's
// boolean Var space.
type Var int

// Theory is the OV decision procedure: each Var owns a map from
// domain value to the control literal asserting "this variable holds
// that value".
type Theory[V comparable] struct {
	core    *sat.Core
	domains []map[V]sat.Literal
}

// NewTheory builds an empty OV theory and registers it with core's
// Check() cycle, satisfying the plug-in contract even though neither
// Propagate nor Check ever has anything to do.
func NewTheory[V comparable](core *sat.Core) *Theory[V] {
	th := &Theory[V]{core: core}
	core.RegisterTheory(th)
	return th
}

func (th *Theory[V]) Name() string { return "ov" }
func (th *Theory[V]) Cnfl() []sat.Literal { return nil }
func (th *Theory[V]) ClearCnfl() {}
func (th *Theory[V]) Propagate(sat.Literal) bool { return true }
func (th *Theory[V]) Check() bool { return true }
func (th *Theory[V]) Push() {}
func (th *Theory[V]) Pop() {}

// NewVar creates a finite-domain variable over domain. When domain
// has exactly one value and enforceExactlyOne is set, no control
// variable is minted at all: the sole value is pinned directly to
// TrueLit. Otherwise every value gets a fresh control literal, and if
// enforceExactlyOne is set the factory additionally emits the
// pairwise at-most-one clauses and the covering exactly-one clause.
func (th *Theory[V]) NewVar(domain []V, enforceExactlyOne bool) Var {
	if len(domain) == 0 {
		panic(sat.NewPreconditionError("ov.NewVar", "domain must not be empty"))
	}

	x := Var(len(th.domains))
	dom := make(map[V]sat.Literal, len(domain))
	th.domains = append(th.domains, dom)

	if len(domain) == 1 && enforceExactlyOne {
		dom[domain[0]] = sat.TrueLit
		return x
	}

	lits := make([]sat.Literal, len(domain))
	for i, v := range domain {
		l := sat.NewLiteral(th.core.NewVar(), true)
		dom[v] = l
		lits[i] = l
	}
	if enforceExactlyOne {
		for i := 0; i < len(lits); i++ {
			for j := i + 1; j < len(lits); j++ {
				th.core.NewClause([]sat.Literal{lits[i].Not(), lits[j].Not()})
			}
		}
		th.core.NewClause(lits)
	}
	return x
}

// NewVarWithLiterals creates a finite-domain variable whose
// value-presence literals are supplied directly by the caller, rather
// than minted fresh. No exactly-one clause is emitted: the caller owns
// whatever relationship holds between the given literals.
func (th *Theory[V]) NewVarWithLiterals(domain map[V]sat.Literal) Var {
	if len(domain) == 0 {
		panic(sat.NewPreconditionError("ov.NewVarWithLiterals", "domain must not be empty"))
	}
	x := Var(len(th.domains))
	dom := make(map[V]sat.Literal, len(domain))
	for v, l := range domain {
		dom[v] = l
	}
	th.domains = append(th.domains, dom)
	return x
}

// Listen attaches f to changes of v's domain: it fires whenever any of
// v's value literals is assigned or unassigned, the moments the domain
// shrinks or grows back on backtrack. The returned function detaches
// it. Implemented by subscribing to the underlying sat variables, since
// OV holds no state of its own beyond the clauses it emitted.
func (th *Theory[V]) Listen(v Var, f func()) sat.Unsubscribe {
	subs := make([]sat.Unsubscribe, 0, len(th.domains[v]))
	for _, l := range th.domains[v] {
		if l.Variable() == sat.FalseVar {
			continue // pinned singleton, never changes
		}
		subs = append(subs, th.core.Listen(l.Variable(), sat.Listener{
			OnValueChanged: func(sat.Var, sat.LBool) { f() },
			OnValueReset:   func(sat.Var) { f() },
		}))
	}
	return func() {
		for _, u := range subs {
			u()
		}
	}
}

// NewEq reifies left == right: the control literal it returns is True
// iff the two variables settle on the same, shared domain value.
// Short-circuits to TrueLit when left and right are the same variable
// or both are already pinned to the same singleton value, and to
// FalseLit when their domains are disjoint.
func (th *Theory[V]) NewEq(left, right Var) sat.Literal {
	if left == right {
		return sat.TrueLit
	}

	ldom, rdom := th.domains[left], th.domains[right]
	intersection := make(map[V]bool)
	for v := range ldom {
		if _, ok := rdom[v]; ok {
			intersection[v] = true
		}
	}
	if len(intersection) == 0 {
		return sat.FalseLit
	}
	if len(ldom) == 1 && len(rdom) == 1 {
		for v := range intersection {
			if th.core.ValueLit(ldom[v]) == sat.True && th.core.ValueLit(rdom[v]) == sat.True {
				return sat.TrueLit
			}
		}
	}

	ctr := sat.NewLiteral(th.core.NewVar(), true)

	for v, l := range ldom {
		if !intersection[v] {
			th.core.NewClause([]sat.Literal{ctr.Not(), l.Not()})
		}
	}
	for v, l := range rdom {
		if !intersection[v] {
			th.core.NewClause([]sat.Literal{ctr.Not(), l.Not()})
		}
	}
	for v := range intersection {
		lv, rv := ldom[v], rdom[v]
		th.core.NewClause([]sat.Literal{ctr.Not(), lv, rv.Not()})
		th.core.NewClause([]sat.Literal{ctr.Not(), lv.Not(), rv})
		th.core.NewClause([]sat.Literal{ctr, lv.Not(), rv.Not()})
	}
	return ctr
}

// Domain returns every value of v whose control literal is not
// currently falsified.
func (th *Theory[V]) Domain(v Var) []V {
	var out []V
	for val, l := range th.domains[v] {
		if th.core.ValueLit(l) != sat.False {
			out = append(out, val)
		}
	}
	return out
}

// Allows reports whether val is definitely v's current value.
func (th *Theory[V]) Allows(v Var, val V) bool {
	l, ok := th.domains[v][val]
	return ok && th.core.ValueLit(l) == sat.True
}

// Assign asserts v = val as a decision. A value outside v's domain can
// never be assigned; a value already settled needs no decision, and the
// result is simply whether it settled True.
func (th *Theory[V]) Assign(v Var, val V) bool {
	l, ok := th.domains[v][val]
	if !ok {
		return false
	}
	switch th.core.ValueLit(l) {
	case sat.True:
		return true
	case sat.False:
		return false
	}
	return th.core.Assume(l)
}

// Forbid asserts v != val as a decision, with the same already-settled
// short-circuit as Assign. A value outside v's domain is vacuously
// forbidden.
func (th *Theory[V]) Forbid(v Var, val V) bool {
	dl, ok := th.domains[v][val]
	if !ok {
		return true
	}
	l := dl.Not()
	switch th.core.ValueLit(l) {
	case sat.True:
		return true
	case sat.False:
		return false
	}
	return th.core.Assume(l)
}

// ToJSON renders a debug snapshot of every variable's current domain
// size, keyed by index (value identity is caller-defined and not
// itself serialized).
func (th *Theory[V]) ToJSON() *smtjson.Object {
	vars := smtjson.NewArray()
	for i := range th.domains {
		vars.Append(smtjson.NewObject("var", i, "domain_size", len(th.Domain(Var(i)))))
	}
	return smtjson.NewObject("vars", vars)
}
