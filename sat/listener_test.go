package sat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smt/sat"
)

func TestListenerFiresOnChangeAndReset(t *testing.T) {
	core := sat.NewCore()
	v := core.NewVar()

	var changes []sat.LBool
	resets := 0
	core.Listen(v, sat.Listener{
		OnValueChanged: func(_ sat.Var, val sat.LBool) { changes = append(changes, val) },
		OnValueReset:   func(sat.Var) { resets++ },
	})

	require.True(t, core.Assume(sat.NewLiteral(v, true)))
	require.Equal(t, []sat.LBool{sat.True}, changes)
	require.Zero(t, resets)

	core.Pop()
	require.Equal(t, 1, resets)
	require.Len(t, changes, 1)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	core := sat.NewCore()
	v := core.NewVar()

	fired := 0
	unsub := core.Listen(v, sat.Listener{
		OnValueChanged: func(sat.Var, sat.LBool) { fired++ },
	})
	unsub()

	require.True(t, core.Assume(sat.NewLiteral(v, true)))
	require.Zero(t, fired)
}
