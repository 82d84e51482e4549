package lra_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smt/lra"
	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
)

func r(n int64) rational.Rational { return rational.New(n, 1) }

func varLin(v lra.Var) rational.Lin { return rational.FromVar(int(v), rational.One) }

func TestNewVarStartsUnboundedAtZero(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	v := th.NewVar()

	require.True(t, th.Value(v).IsZero())
	require.True(t, th.LB(v).IsNegativeInfinite())
	require.True(t, th.UB(v).IsPositiveInfinite())
}

func TestSimpleLeqTighensAndSettles(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()

	ctr := th.NewLeq(varLin(x), rational.FromConst(r(5)))
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.Propagate())

	require.True(t, th.UB(x).LessOrEqualRational(r(5)))
}

// Tightening a row's bound through an assertion refutes a conflicting
// comparison on a second row built over the same variables.
func TestRowTighteningRefutesConflictingComparison(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	s1 := th.NewRowVar(varLin(y).Sub(varLin(x)))
	s2 := th.NewRowVar(varLin(x).Add(varLin(y)))
	_ = s2

	require.True(t, core.NewClause([]sat.Literal{th.NewLeq(varLin(x), rational.FromConst(r(-4)))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewGeq(varLin(x), rational.FromConst(r(-8)))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewLeq(varLin(s1), rational.FromConst(r(1)))}))
	require.True(t, core.Propagate())

	refuted := th.NewGeq(varLin(s2), rational.FromConst(r(-3)))
	require.Equal(t, sat.FalseLit, refuted)
}

// A strict inequality is represented with an infinitesimal offset: x >
// y forces x to sit one epsilon above y, and tightening y's lower
// bound carries x along with it.
func TestStrictInequalityUsesInfinitesimalOffset(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	ctr := th.NewGt(varLin(x), varLin(y))
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.Propagate())

	require.True(t, th.Value(x).Equal(rational.NewInfRational(rational.Zero, rational.One)))
	require.True(t, th.Value(y).Equal(rational.FromIntValue(0)))

	require.True(t, core.NewClause([]sat.Literal{th.NewGeq(varLin(y), rational.FromConst(r(1)))}))
	require.True(t, core.Propagate())

	require.True(t, th.Value(y).Equal(rational.FromIntValue(1)))
	require.True(t, th.Value(x).Equal(rational.NewInfRational(r(1), rational.One)))
}

func TestEqForcesBothVariablesEqual(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	ctr := th.NewEq(varLin(x), varLin(y))
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{th.NewGeq(varLin(x), rational.FromConst(r(7)))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewLeq(varLin(x), rational.FromConst(r(7)))}))
	require.True(t, core.Propagate())

	require.True(t, th.Value(y).EqualRational(r(7)))
}

// A push/pop round trip must restore a row variable's bounds exactly:
// Push saves the pre-assertion pair, so Pop has to reproduce it
// field-for-field, not just to an equal-looking value.
func TestPushPopRoundTripsRowBoundsExactly(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()
	s := th.NewRowVar(varLin(y).Sub(varLin(x)))

	wantLB, wantUB := th.LB(s), th.UB(s)

	ctr := th.NewLeq(varLin(s), rational.FromConst(r(2)))
	require.True(t, core.Assume(ctr))
	require.False(t, th.UB(s).Equal(wantUB))

	core.Pop()
	gotLB, gotUB := th.LB(s), th.UB(s)

	if diff := cmp.Diff(wantLB, gotLB); diff != "" {
		t.Fatalf("lower bound did not round-trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantUB, gotUB); diff != "" {
		t.Fatalf("upper bound did not round-trip (-want +got):\n%s", diff)
	}
}

func TestPushPopUndoesBoundTightening(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()

	ctr := th.NewLeq(varLin(x), rational.FromConst(r(3)))
	require.True(t, core.Assume(ctr))
	require.True(t, th.UB(x).LessOrEqualRational(r(3)))

	core.Pop()
	require.True(t, th.UB(x).IsPositiveInfinite())
}

// Tightening a lower bound under an assumed ordering chain: the first
// tightening is consistent, the second contradicts the upper bound the
// chain implies.
func TestSetLBRefutedByAssumedOrderingChain(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	p1 := th.NewLeq(varLin(x), varLin(y))
	p2 := th.NewLeq(varLin(y), varLin(x))
	require.True(t, core.NewClause([]sat.Literal{th.NewLeq(varLin(y), rational.FromConst(r(1)))}))
	require.True(t, core.NewClause([]sat.Literal{p1, p2}))
	require.True(t, core.Propagate())

	require.True(t, core.Assume(p1))
	require.True(t, th.SetLB(x, rational.FromIntValue(1), sat.TrueLit))
	require.False(t, th.SetLB(x, rational.FromIntValue(2), sat.TrueLit))
}

func TestSetEqPinsValue(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()

	require.True(t, th.SetEq(x, rational.FromIntValue(4), sat.TrueLit))
	require.True(t, th.Value(x).EqualRational(r(4)))
	require.True(t, th.LB(x).EqualRational(r(4)))
	require.True(t, th.UB(x).EqualRational(r(4)))
}

func TestListenFiresOnValueUpdateUntilUnsubscribed(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()

	var seen []rational.InfRational
	unsub := th.Listen(x, func(v rational.InfRational) { seen = append(seen, v) })

	require.True(t, th.SetLB(x, rational.FromIntValue(2), sat.TrueLit))
	require.Len(t, seen, 1)
	require.True(t, seen[0].EqualRational(r(2)))

	unsub()
	require.True(t, th.SetLB(x, rational.FromIntValue(3), sat.TrueLit))
	require.Len(t, seen, 1)
}

func TestMatchesReportsIntervalOverlap(t *testing.T) {
	core := sat.NewCore()
	th := lra.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	require.True(t, th.SetEq(x, rational.FromIntValue(2), sat.TrueLit))
	require.True(t, th.SetUB(y, rational.FromIntValue(5), sat.TrueLit))
	require.True(t, th.Matches(varLin(x), varLin(y)))

	require.True(t, th.SetUB(y, rational.FromIntValue(1), sat.TrueLit))
	require.False(t, th.Matches(varLin(x), varLin(y)))
}
