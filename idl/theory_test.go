package idl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smt/idl"
	"github.com/xDarkicex/smt/rational"
	"github.com/xDarkicex/smt/sat"
)

func d(n int64) rational.InfRational { return rational.FromIntValue(n) }

func TestNewVarStartsAtOrigin(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	v := th.NewVar()

	require.True(t, th.LB(v).IsNegativeInfinite())
	require.True(t, th.UB(v).IsPositiveInfinite())
}

func TestDistanceTriviallyTrueAndFalse(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	ctr := th.NewDistance(x, y, d(10))
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.Propagate())

	// Once to - from <= 10 is known, asserting it again is trivially true.
	require.Equal(t, sat.TrueLit, th.NewDistance(x, y, d(10)))
	// And the reverse strict violation is trivially false.
	require.Equal(t, sat.FalseLit, th.NewDistance(y, x, d(-11)))
}

// Triangulation: three time points
// chained by [0,10] difference constraints inside a [0, horizon]
// envelope triangulate to a [0,30] envelope on the farthest point and
// a [0,20] distance between the first and the farthest.
func TestTriangulation(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)

	horizon := th.NewVar()
	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(idl.Var(0), horizon, d(1000))}))

	tp0 := th.NewVar()
	tp1 := th.NewVar()
	tp2 := th.NewVar()
	for _, tp := range []idl.Var{tp0, tp1, tp2} {
		require.True(t, core.NewClause([]sat.Literal{th.NewDistance(idl.Var(0), tp, d(1000))}))
		require.True(t, core.NewClause([]sat.Literal{th.NewDistance(tp, horizon, d(1000))}))
	}

	require.True(t, core.NewClause([]sat.Literal{th.NewDistanceRange(tp0, tp1, d(0), d(10))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewDistanceRange(tp1, tp2, d(0), d(10))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewDistanceRange(idl.Var(0), tp0, d(0), d(10))}))
	require.True(t, core.Propagate())

	lb, ub := th.Bounds(tp2)
	require.True(t, lb.Equal(d(0)))
	require.True(t, ub.Equal(d(30)))

	dlb, dub := th.Distance(tp0, tp2)
	require.True(t, dlb.Equal(d(0)))
	require.True(t, dub.Equal(d(20)))
}

func TestAssertingBothDirectionsPinsDistance(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(x, y, d(5))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(y, x, d(-5))}))
	require.True(t, core.Propagate())

	lb, ub := th.Distance(x, y)
	require.True(t, lb.Equal(d(5)))
	require.True(t, ub.Equal(d(5)))
}

func TestNegativeCycleIsRefuted(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(x, y, d(3))}))
	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(y, x, d(-5))}))
	// y - x <= 3 and x - y <= -5 together force 0 <= -2, a negative cycle:
	// propagate must fail to reconcile them at root level.
	require.False(t, core.Propagate())
}

func TestPushPopUndoesDistanceTightening(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	ctr := th.NewDistance(x, y, d(5))
	require.True(t, core.Assume(ctr))
	_, ub := th.Distance(x, y)
	require.True(t, ub.Equal(d(5)))

	core.Pop()
	_, ub = th.Distance(x, y)
	require.True(t, ub.IsPositiveInfinite())
}

// A push/pop round trip must restore the full distance-matrix entry
// for a pair, not merely an equal-looking bound.
func TestPushPopRoundTripsDistanceExactly(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	wantLB, wantUB := th.Distance(x, y)

	ctr := th.NewDistance(x, y, d(5))
	require.True(t, core.Assume(ctr))
	require.True(t, core.Propagate())

	core.Pop()
	gotLB, gotUB := th.Distance(x, y)

	if diff := cmp.Diff(wantLB, gotLB); diff != "" {
		t.Fatalf("lower distance did not round-trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantUB, gotUB); diff != "" {
		t.Fatalf("upper distance did not round-trip (-want +got):\n%s", diff)
	}
}

func TestGeneralComparatorsAreUnimplemented(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	lin := func(v idl.Var) rational.Lin { return rational.FromVar(int(v), rational.One) }

	require.Panics(t, func() { th.NewLeq(lin(x), lin(y)) })
}

// An edge assumed on top of a root-level edge that together close a
// negative cycle is analyzed and refuted: the engine backjumps and
// learns the edge's negation as a root fact.
func TestAssumedNegativeCycleIsLearnedAway(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	e1 := th.NewDistance(x, y, d(3))
	e2 := th.NewDistance(y, x, d(-5))
	require.True(t, core.NewClause([]sat.Literal{e1}))
	require.True(t, core.Propagate())

	require.True(t, core.Assume(e2))
	require.True(t, core.RootLevel())
	require.Equal(t, sat.False, core.ValueLit(e2))
}

func TestListenFiresWhenVariableGrounds(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()

	fired := 0
	th.Listen(x, func(lb, ub rational.InfRational) {
		fired++
		require.True(t, lb.Equal(d(5)))
		require.True(t, ub.Equal(d(5)))
	})

	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(idl.Var(0), x, d(5))}))
	require.True(t, core.Propagate())
	require.Zero(t, fired)

	require.True(t, core.NewClause([]sat.Literal{th.NewDistance(x, idl.Var(0), d(-5))}))
	require.True(t, core.Propagate())
	require.Equal(t, 1, fired)
}

func TestBoundsOfDifferenceExpression(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	require.True(t, core.NewClause([]sat.Literal{th.NewDistanceRange(x, y, d(2), d(6))}))
	require.True(t, core.Propagate())

	diff := rational.FromVar(int(y), rational.One).Add(rational.FromVar(int(x), rational.One.Neg()))
	lb, ub := th.BoundsOf(diff)
	require.True(t, lb.Equal(d(2)))
	require.True(t, ub.Equal(d(6)))
}

func TestBoundsOfRejectsNonDifferenceShape(t *testing.T) {
	core := sat.NewCore()
	th := idl.NewTheory(core)
	x := th.NewVar()
	y := th.NewVar()

	bad := rational.FromVar(int(x), rational.One).Add(rational.FromVar(int(y), rational.One))
	require.Panics(t, func() { th.BoundsOf(bad) })
}
