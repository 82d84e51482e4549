package sat_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smt/sat"
)

func TestFalseVarIsPermanentlyFalse(t *testing.T) {
	core := sat.NewCore()
	require.Equal(t, sat.False, core.Value(sat.FalseVar))
}

func TestNewVarStartsUndefined(t *testing.T) {
	core := sat.NewCore()
	v := core.NewVar()
	require.Equal(t, sat.Undefined, core.Value(v))
}

func TestUnitClauseForcesValue(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.Equal(t, sat.True, core.ValueLit(la))
}

func TestAssumeUnitPropagatesThroughClause(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)
	require.True(t, core.NewClause([]sat.Literal{la, lb}))

	require.True(t, core.Assume(la.Not()))
	require.Equal(t, sat.True, core.ValueLit(lb))
}

func TestPopUndoesAssumption(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)

	require.True(t, core.Assume(la))
	require.Equal(t, sat.True, core.Value(a))

	core.Pop()
	require.Equal(t, sat.Undefined, core.Value(a))
	require.True(t, core.RootLevel())
}

// Equality reified as a unit clause propagates the right-hand side once
// both the control literal and the left-hand side are forced True.
func TestEqualityUnitClausePropagates(t *testing.T) {
	core := sat.NewCore()
	left := core.NewVar()
	right := core.NewVar()
	l := sat.NewLiteral(left, true)
	r := sat.NewLiteral(right, true)

	ctr := core.NewEq(l, r)
	require.True(t, core.NewClause([]sat.Literal{ctr}))
	require.True(t, core.NewClause([]sat.Literal{l}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.True, core.ValueLit(r))
}

// A Copy snapshot is independent of later mutation of the source core:
// popping the original must not affect the copy's retained assignment.
func TestCopySnapshotIsIndependent(t *testing.T) {
	core := sat.NewCore()
	v := core.NewVar()
	lit := sat.NewLiteral(v, true)

	require.True(t, core.Assume(lit))
	snapshot := core.Copy()

	core.Pop()
	require.Equal(t, sat.Undefined, core.Value(v))
	require.Equal(t, sat.True, snapshot.Value(v))
}

func TestSimplifyDBSucceedsWithSatisfiedClause(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	require.True(t, core.NewClause([]sat.Literal{la, lb}))
	require.True(t, core.NewClause([]sat.Literal{la}))
	require.True(t, core.Propagate())
	require.True(t, core.SimplifyDB())
}

// A Copy snapshot's debug dashboard must match the source core at the
// moment of copy, independent of what either does afterward.
func TestCopySnapshotJSONMatchesSourceAtCopyTime(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	require.True(t, core.Assume(sat.NewLiteral(a, true)))

	snapshot := core.Copy()
	wantJSON, err := core.ToJSON().MarshalJSON()
	require.NoError(t, err)
	gotJSON, err := snapshot.ToJSON().MarshalJSON()
	require.NoError(t, err)

	if diff := cmp.Diff(string(wantJSON), string(gotJSON)); diff != "" {
		t.Fatalf("snapshot ToJSON diverged from source (-want +got):\n%s", diff)
	}

	core.Pop()
	gotJSON2, err := snapshot.ToJSON().MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, string(gotJSON), string(gotJSON2))
}

func TestConflictingUnitClausesAreUnsat(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	la := sat.NewLiteral(a, true)

	require.True(t, core.NewClause([]sat.Literal{la}))
	require.False(t, core.NewClause([]sat.Literal{la.Not()}))
}

func TestTernaryClauseAloneLeavesAllUndefined(t *testing.T) {
	core := sat.NewCore()
	b0 := core.NewVar()
	b1 := core.NewVar()
	b2 := core.NewVar()

	require.True(t, core.NewClause([]sat.Literal{
		sat.NewLiteral(b0, true),
		sat.NewLiteral(b1, false),
		sat.NewLiteral(b2, true),
	}))
	require.True(t, core.Propagate())

	require.Equal(t, sat.Undefined, core.Value(b0))
	require.Equal(t, sat.Undefined, core.Value(b1))
	require.Equal(t, sat.Undefined, core.Value(b2))
}

// An assumption whose unit propagation contradicts itself is analyzed,
// backjumped, and refuted with a learned root-level fact.
func TestConflictLearnsAssertingUnit(t *testing.T) {
	core := sat.NewCore()
	a := core.NewVar()
	b := core.NewVar()
	la := sat.NewLiteral(a, true)
	lb := sat.NewLiteral(b, true)

	require.True(t, core.NewClause([]sat.Literal{la.Not(), lb}))
	require.True(t, core.NewClause([]sat.Literal{la.Not(), lb.Not()}))

	require.True(t, core.Assume(la))
	require.True(t, core.RootLevel())
	require.Equal(t, sat.False, core.Value(a))
	require.Equal(t, 1, core.Stats().Conflicts)
}
