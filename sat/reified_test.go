package sat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smt/sat"
)

func TestNewEqTrivialCasesSkipConstraint(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)

	require.Equal(t, sat.TrueLit, core.NewEq(la, la))
	require.Equal(t, sat.FalseLit, core.NewEq(la, la.Not()))
}

func TestConjForcesAllLiteralsWhenCtrTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewConj([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(la))
	require.Equal(t, sat.True, core.ValueLit(lb))
}

func TestConjForcesCtrFalseWhenAnyLiteralFalse(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewConj([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{la.Not()}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.False, core.ValueLit(ctr))
}

func TestDisjForcesCtrTrueWhenAnyLiteralTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewDisj([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(ctr))
}

func TestDisjForcesUniqueRemainingLiteralWhenCtrTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewDisj([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{la.Not()}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(lb))
}

func TestAtMostOneForbidsSecondLiteralWhenCtrTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewAtMostOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.False, core.ValueLit(lb))
}

func TestAtMostOneForcesCtrFalseWhenTwoLiteralsTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewAtMostOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.NewClause([]sat.Literal{lb}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.False, core.ValueLit(ctr))
}

func TestAtMostOneForcesSecondTrueWhenCtrFalse(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewAtMostOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr.Not()}))
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(lb))
}

func TestAtMostOneSingletonNeedsNoControlVariable(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)

	require.Equal(t, sat.TrueLit, core.NewAtMostOne([]sat.Literal{la}))
	require.Equal(t, sat.TrueLit, core.NewAtMostOne(nil))
}

func TestExactOneForcesRemainingLiteralWhenCtrTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	cc := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)
	lc := sat.NewLiteral(cc, true)

	ctr := core.NewExactOne([]sat.Literal{la, lb, lc})
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{la.Not()}))
	require.True(t, core.NewClause([]sat.Literal{lb.Not()}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(lc))
}

func TestExactOneForcesOthersFalseWhenCtrAndOneLiteralTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewExactOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.False, core.ValueLit(lb))
}

func TestExactOneForcesCtrFalseWhenTwoLiteralsTrue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewExactOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.NewClause([]sat.Literal{lb}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.False, core.ValueLit(ctr))
}

func TestExactOneForcesSecondTrueWhenCtrFalse(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	ctr := core.NewExactOne([]sat.Literal{la, lb})
	require.True(t, core.NewClause([]sat.Literal{ctr.Not()}))
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(lb))
}

func TestExactOneSingletonIsTheLiteralItself(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)

	require.Equal(t, la, core.NewExactOne([]sat.Literal{la}))
}
