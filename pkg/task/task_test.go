package task_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports/tests"
	"github.com/aretw0/thicket/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corridorYAML = `
name: corridor
variables:
  - name: at
    values: [a, b, c]
  - name: door
    values: [closed, open]
init: {at: a, door: closed}
goal: {at: c}
operators:
  - name: open-door
    pre: {door: closed}
    eff:
      - set: {door: open}
  - name: move-a-b
    cost: 2
    pre: {at: a}
    eff:
      - set: {at: b}
  - name: move-b-c
    pre: {at: b, door: open}
    eff:
      - set: {at: c}
`

func compileYAML(t *testing.T, src string) *task.Task {
	t.Helper()
	doc, err := task.Parse([]byte(src), "yaml")
	require.NoError(t, err)
	tk, err := task.Compile(doc)
	require.NoError(t, err)
	return tk
}

func TestCompile_Corridor(t *testing.T) {
	tk := compileYAML(t, corridorYAML)

	assert.Equal(t, "corridor", tk.Name())
	assert.Equal(t, 2, tk.NumVariables())
	assert.Equal(t, 3, tk.DomainSize(0))
	assert.Equal(t, []int{0, 0}, tk.InitialValues())
	assert.Equal(t, 3, tk.NumOperators())
	assert.Equal(t, 2, tk.OperatorCost(1))
	assert.Equal(t, 1, tk.OperatorCost(0), "cost defaults to 1")
	assert.False(t, tk.IsUnitCost())
	assert.Equal(t, []domain.Fact{{Var: 0, Value: 2}}, tk.Goals())
	assert.Equal(t, "at=c", tk.FactName(tk.Goals()[0]))

	tests.TaskContractTest(t, tk)
}

func TestTask_ApplyAndGoal(t *testing.T) {
	tk := compileYAML(t, corridorYAML)
	s := tk.InitialValues()

	assert.True(t, tk.IsApplicable(0, s))
	assert.False(t, tk.IsApplicable(2, s))

	next := append([]int(nil), s...)
	tk.ApplyOperator(1, s, next)
	assert.Equal(t, []int{1, 0}, next)
	assert.False(t, tk.IsGoal(next))

	open := append([]int(nil), next...)
	tk.ApplyOperator(0, next, open)
	goal := append([]int(nil), open...)
	tk.ApplyOperator(2, open, goal)
	assert.True(t, tk.IsGoal(goal))
}

func TestTask_ConditionalEffectsReadParent(t *testing.T) {
	tk := compileYAML(t, `
variables:
  - {name: x, values: [f, t]}
  - {name: y, values: [f, t]}
init: {x: f, y: f}
goal: {y: t}
operators:
  - name: chain
    eff:
      - set: {x: t}
      - when: {x: t}
        set: {y: t}
`)
	s := tk.InitialValues()
	next := append([]int(nil), s...)
	tk.ApplyOperator(0, s, next)
	assert.Equal(t, []int{1, 0}, next, "second effect sees the parent value of x")
}

func TestTask_Axioms(t *testing.T) {
	tk := compileYAML(t, `
variables:
  - {name: a, values: [f, t]}
  - {name: b, values: [f, t]}
  - {name: ab, values: [f, t], derived: true, layer: 0, default: f}
  - {name: goal-ok, values: [f, t], derived: true, layer: 1, default: f}
init: {a: f, b: t}
goal: {goal-ok: t}
operators:
  - name: set-a
    eff:
      - set: {a: t}
axioms:
  - when: {a: t, b: t}
    set: {ab: t}
  - when: {ab: t}
    set: {goal-ok: t}
`)
	assert.Equal(t, []int{0, 1, 0, 0}, tk.InitialValues())

	s := tk.InitialValues()
	next := append([]int(nil), s...)
	tk.ApplyOperator(0, s, next)
	tk.EvaluateAxioms(next)
	assert.Equal(t, []int{1, 1, 1, 1}, next)
	assert.True(t, tk.IsGoal(next))

	// Derived values are recomputed from scratch.
	next[0] = 0
	tk.EvaluateAxioms(next)
	assert.Equal(t, []int{0, 1, 0, 0}, next)
}

func TestCompile_AggregatesErrors(t *testing.T) {
	doc := &task.Document{
		Variables: []task.VariableDoc{
			{Name: "x", Values: []string{"0", "1"}},
			{Name: "d", Values: []string{"0", "1"}, Derived: true},
		},
		Init: map[string]string{"x": "2", "nope": "0"},
		Goal: map[string]string{"x": "1"},
		Operators: []task.OperatorDoc{
			{Name: "bad", Cost: ptr(-1), Effects: []task.EffectDoc{{Set: map[string]string{"d": "1"}}}},
			{Name: "", Effects: nil},
		},
	}

	_, err := task.Compile(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTask))

	errs := task.ValidationErrors(err)
	assert.GreaterOrEqual(t, len(errs), 5)
	assert.Contains(t, err.Error(), "validation errors")
}

func TestCompile_RejectsBadVariables(t *testing.T) {
	_, err := task.Compile(&task.Document{
		Variables: []task.VariableDoc{
			{Name: "x", Values: nil},
			{Name: "x", Values: []string{"a", "a"}},
		},
	})
	require.Error(t, err)
	assert.Len(t, task.ValidationErrors(err), 3)
}

func TestLoadFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "corridor.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(corridorYAML), 0o644))
	tk, err := task.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "corridor", tk.Name())

	jsonPath := filepath.Join(dir, "counter.json")
	src := `{
	  "variables": [{"name": "n", "values": [0, 1, 2]}],
	  "init": {"n": 0},
	  "goal": {"n": 2},
	  "operators": [
	    {"name": "inc0", "cost": 3, "pre": {"n": 0}, "eff": [{"set": {"n": 1}}]},
	    {"name": "inc1", "pre": {"n": 1}, "eff": [{"set": {"n": 2}}]}
	  ]
	}`
	require.NoError(t, os.WriteFile(jsonPath, []byte(src), 0o644))
	tk, err = task.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "counter", tk.Name(), "name defaults to the file name")
	assert.Equal(t, 3, tk.OperatorCost(0))

	_, err = task.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := task.Decode(map[string]any{"name": "x", "bogus": 1})
	assert.Error(t, err)
}

func TestSuccessorGenerator_Order(t *testing.T) {
	tk := compileYAML(t, `
variables:
  - {name: p, values: [f, t]}
  - {name: q, values: [f, t]}
init: {p: t, q: t}
goal: {p: f}
operators:
  - {name: o0, pre: {q: t}, eff: [{set: {q: f}}]}
  - {name: o1, eff: [{set: {p: f}}]}
  - {name: o2, pre: {p: t}, eff: [{set: {p: f}}]}
  - {name: o3, pre: {p: f}, eff: [{set: {p: t}}]}
  - {name: o4, pre: {p: t, q: t}, eff: [{set: {q: f}}]}
`)
	gen := task.NewSuccessorGenerator(tk)
	ops := gen.ApplicableOperators(domain.State{Values: tk.InitialValues()}, nil)
	assert.Equal(t, []domain.OperatorID{0, 1, 2, 4}, ops)

	prefix := []domain.OperatorID{99}
	ops = gen.ApplicableOperators(domain.State{Values: []int{0, 0}}, prefix)
	assert.Equal(t, []domain.OperatorID{99, 1, 3}, ops)
}

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := task.Parse([]byte(corridorYAML), "yaml")
	require.NoError(t, err)
	out, err := task.Marshal(doc)
	require.NoError(t, err)

	again, err := task.Parse(out, "yaml")
	require.NoError(t, err)
	assert.Equal(t, doc.Init, again.Init)
	assert.Len(t, again.Operators, 3)
}

func ptr(i int) *int { return &i }
