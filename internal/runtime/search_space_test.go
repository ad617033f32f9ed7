package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/dsl"
	"github.com/aretw0/thicket/pkg/registry"
	"github.com/aretw0/thicket/pkg/task"
)

func chain(t *testing.T) (*task.Task, *registry.Registry) {
	t.Helper()
	b := dsl.New("chain").
		Var("at", "a", "b", "c").
		Init("at", "a").
		Goal("at", "c")
	b.Op("ab").Cost(3).Pre("at", "a").Set("at", "b")
	b.Op("bc").Cost(2).Pre("at", "b").Set("at", "c")
	b.Op("ac").Cost(9).Pre("at", "a").Set("at", "c")
	tk, err := b.Build()
	require.NoError(t, err)
	reg, err := registry.NewRegistry(tk)
	require.NoError(t, err)
	return tk, reg
}

func TestSearchNode_Lifecycle(t *testing.T) {
	_, reg := chain(t)
	space := NewSearchSpace(reg, nil)

	a := reg.InitialState()
	b := reg.SuccessorState(a, 0)
	c := reg.SuccessorState(b, 1)

	na := space.Node(a)
	assert.True(t, na.IsNew())
	require.NoError(t, na.OpenInitial())
	assert.Equal(t, 0, na.G())
	require.NoError(t, na.Close())

	nb := space.Node(b)
	require.NoError(t, nb.OpenNewNode(na, 0, 3, 3))
	assert.Equal(t, 3, nb.G())
	assert.Equal(t, a.ID, nb.Parent())
	require.NoError(t, nb.Close())

	nc := space.Node(c)
	require.NoError(t, nc.OpenNewNode(na, 2, 9, 9))
	require.NoError(t, nc.UpdateOpenNodeParent(nb, 1, 2, 2))
	assert.Equal(t, 5, nc.G())
	assert.Equal(t, 5, nc.RealG())
	assert.Equal(t, domain.OperatorID(1), nc.CreatingOp())

	// The handle sees the same record as a fresh lookup.
	assert.Equal(t, 5, space.NodeByID(c.ID).G())

	plan, err := space.TracePath(c)
	require.NoError(t, err)
	assert.Equal(t, domain.Plan{0, 1}, plan)

	assert.Equal(t, NodeCounts{Open: 1, Closed: 2}, space.Statistics())
}

func TestSearchNode_InvalidTransitions(t *testing.T) {
	_, reg := chain(t)
	space := NewSearchSpace(reg, nil)

	a := reg.InitialState()
	b := reg.SuccessorState(a, 0)
	na := space.Node(a)
	require.NoError(t, na.OpenInitial())

	assert.ErrorIs(t, na.OpenInitial(), domain.ErrInvalidTransition, "opening an OPEN node")

	nb := space.Node(b)
	assert.ErrorIs(t, nb.Close(), domain.ErrInvalidTransition, "closing a NEW node")
	assert.ErrorIs(t, nb.UpdateOpenNodeParent(na, 0, 3, 3), domain.ErrInvalidTransition)
	assert.ErrorIs(t, nb.ReopenClosedNode(na, 0, 3, 3), domain.ErrInvalidTransition)

	require.NoError(t, nb.OpenNewNode(na, 0, 3, 3))
	assert.ErrorIs(t, nb.OpenNewNode(na, 0, 3, 3), domain.ErrInvalidTransition)
	assert.ErrorIs(t, nb.UpdateOpenNodeParent(na, 0, 3, 3), domain.ErrInvalidTransition, "equal cost is not an improvement")

	require.NoError(t, nb.Close())
	assert.ErrorIs(t, nb.ReopenClosedNode(na, 0, 5, 5), domain.ErrInvalidTransition, "costlier path")
	assert.ErrorIs(t, nb.UpdateClosedNodeParent(na, 0, 4, 4), domain.ErrInvalidTransition)

	require.NoError(t, nb.MarkAsDeadEnd())
	assert.ErrorIs(t, nb.MarkAsDeadEnd(), domain.ErrInvalidTransition, "dead end is terminal")
	assert.ErrorIs(t, nb.ReopenClosedNode(na, 0, 1, 1), domain.ErrInvalidTransition)
}

func TestSearchNode_ReopenAndUpdateClosed(t *testing.T) {
	_, reg := chain(t)
	space := NewSearchSpace(reg, nil)

	a := reg.InitialState()
	b := reg.SuccessorState(a, 0)
	c := reg.SuccessorState(a, 2)

	na := space.Node(a)
	require.NoError(t, na.OpenInitial())
	nc := space.Node(c)
	require.NoError(t, nc.OpenNewNode(na, 2, 9, 9))
	require.NoError(t, nc.Close())

	nb := space.Node(b)
	require.NoError(t, nb.OpenNewNode(na, 0, 3, 3))

	require.NoError(t, nc.UpdateClosedNodeParent(nb, 1, 2, 2))
	assert.True(t, nc.IsClosed())
	assert.Equal(t, 5, nc.G())

	require.NoError(t, nc.ReopenClosedNode(na, 2, 1, 1))
	assert.True(t, nc.IsOpen())
	assert.Equal(t, 1, nc.G())
	assert.Equal(t, a.ID, nc.Parent())
}

func TestSearchSpace_TracePathUnreached(t *testing.T) {
	_, reg := chain(t)
	space := NewSearchSpace(reg, nil)
	b := reg.SuccessorState(reg.InitialState(), 0)
	space.Node(b)

	_, err := space.TracePath(b)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSearchSpace_Dump(t *testing.T) {
	tk, reg := chain(t)
	space := NewSearchSpace(reg, nil)
	a := reg.InitialState()
	b := reg.SuccessorState(a, 0)
	na := space.Node(a)
	require.NoError(t, na.OpenInitial())
	require.NoError(t, space.Node(b).OpenNewNode(na, 0, 3, 3))

	var buf bytes.Buffer
	require.NoError(t, space.Dump(&buf, tk))
	assert.Equal(t,
		"#0 open g=0 real_g=0 parent=#-1 op=- values=[0]\n"+
			"#1 open g=3 real_g=3 parent=#0 op=ab values=[1]\n",
		buf.String())
}
