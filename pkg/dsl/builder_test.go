package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Corridor(t *testing.T) {
	b := New("corridor")
	b.Var("at", "a", "b", "c")
	b.Init("at", "a")
	b.Goal("at", "c")

	b.Op("move-a-b").Pre("at", "a").Set("at", "b").
		Op("move-b-c").Cost(2).Pre("at", "b").Set("at", "c")

	tk, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "corridor", tk.Name())
	assert.Equal(t, 2, tk.NumOperators())
	assert.Equal(t, "move-a-b", tk.OperatorName(0))
	assert.Equal(t, 2, tk.OperatorCost(1))
	assert.Equal(t, []domain.Fact{{Var: 0, Value: 2}}, tk.Goals())
}

func TestBuilder_OpReturnsExisting(t *testing.T) {
	b := New("t")
	b.Var("x", "0", "1")
	b.Init("x", "0")
	b.Goal("x", "1")

	first := b.Op("flip")
	first.Pre("x", "0")
	b.Op("flip").Set("x", "1")

	tk := b.MustBuild()
	require.Equal(t, 1, tk.NumOperators())
	op := tk.Operator(0)
	assert.Len(t, op.Precondition, 1)
	assert.Len(t, op.Effects, 1)
}

func TestBuilder_DerivedAndConditional(t *testing.T) {
	b := New("lamp")
	b.Var("switch", "off", "on")
	b.Var("power", "no", "yes")
	b.Derived("lit", 0, "dark", "dark", "lit")
	b.Init("switch", "off")
	b.Init("power", "yes")
	b.Goal("lit", "lit")
	b.Axiom(map[string]string{"switch": "on", "power": "yes"}, "lit", "lit")
	b.Op("toggle").
		When(map[string]string{"switch": "off"}, "switch", "on").
		When(map[string]string{"switch": "on"}, "switch", "off")

	tk := b.MustBuild()
	s := tk.InitialValues()
	next := append([]int(nil), s...)
	tk.ApplyOperator(0, s, next)
	tk.EvaluateAxioms(next)
	assert.Equal(t, []int{1, 1, 1}, next)
	assert.True(t, tk.IsGoal(next))
}

func TestBuilder_ReportsValidationErrors(t *testing.T) {
	b := New("broken")
	b.Var("x", "0", "1")
	b.Goal("x", "2")
	b.Op("noop")

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTask))

	var aggr *task.AggregateError
	require.True(t, errors.As(err, &aggr))
	assert.Len(t, aggr.Errors, 3) // missing init, bad goal value, operator without effects

	assert.Panics(t, func() { b.MustBuild() })
}
