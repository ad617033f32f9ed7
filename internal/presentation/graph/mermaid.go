package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/registry"
	"github.com/aretw0/thicket/pkg/task"
)

// DefaultLimit bounds the number of states Explore registers.
const DefaultLimit = 200

// Node is one reachable state.
type Node struct {
	ID      domain.StateID
	Facts   []string
	Initial bool
	Goal    bool
}

// Edge is one operator application between reachable states.
type Edge struct {
	From, To domain.StateID
	Op       domain.OperatorID
	Label    string
}

// StateGraph is the explored part of a task's state space.
type StateGraph struct {
	Nodes []Node
	Edges []Edge
	// Truncated is set when the limit stopped the exploration.
	Truncated bool

	reg *registry.Registry
}

// Explore enumerates reachable states breadth-first until limit states are
// registered. A limit <= 0 means DefaultLimit.
func Explore(t *task.Task, limit int) (*StateGraph, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	reg, err := registry.NewRegistry(t)
	if err != nil {
		return nil, err
	}
	gen := task.NewSuccessorGenerator(t)
	g := &StateGraph{reg: reg}

	initial := reg.InitialState()
	queue := []domain.State{initial}
	seen := map[domain.StateID]bool{initial.ID: true}
	var ops []domain.OperatorID

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		g.Nodes = append(g.Nodes, g.node(t, state, state.ID == initial.ID))

		ops = gen.ApplicableOperators(state, ops[:0])
		for _, op := range ops {
			if reg.Size() >= limit {
				if _, ok := reg.Lookup(successorValues(t, state, op)); !ok {
					g.Truncated = true
					continue
				}
			}
			succ := reg.SuccessorState(state, op)
			g.Edges = append(g.Edges, Edge{
				From:  state.ID,
				To:    succ.ID,
				Op:    op,
				Label: fmt.Sprintf("%s (%d)", t.OperatorName(op), t.OperatorCost(op)),
			})
			if !seen[succ.ID] {
				seen[succ.ID] = true
				queue = append(queue, succ)
			}
		}
	}
	return g, nil
}

func (g *StateGraph) node(t *task.Task, state domain.State, initial bool) Node {
	n := Node{ID: state.ID, Initial: initial, Goal: t.IsGoal(state.Values)}
	for v, value := range state.Values {
		n.Facts = append(n.Facts, t.FactName(domain.Fact{Var: v, Value: value}))
	}
	return n
}

func successorValues(t *task.Task, state domain.State, op domain.OperatorID) []int {
	succ := append([]int(nil), state.Values...)
	t.ApplyOperator(op, state.Values, succ)
	t.EvaluateAxioms(succ)
	return succ
}

// Overlay marks the states and transitions a plan goes through.
type Overlay struct {
	Visited []domain.StateID
	Steps   []Edge
}

// PlanOverlay replays plan from the initial state.
func (g *StateGraph) PlanOverlay(plan domain.Plan) *Overlay {
	state := g.reg.InitialState()
	o := &Overlay{Visited: []domain.StateID{state.ID}}
	for _, op := range plan {
		succ := g.reg.SuccessorState(state, op)
		o.Steps = append(o.Steps, Edge{From: state.ID, To: succ.ID, Op: op})
		o.Visited = append(o.Visited, succ.ID)
		state = succ
	}
	return o
}

// GenerateMermaid renders the graph as a Mermaid flowchart.
// The initial state is a circle and goal states are stadiums. Plan steps
// from overlay are styled as visited.
func GenerateMermaid(g *StateGraph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	drawn := make(map[domain.StateID]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		drawn[n.ID] = true
		opener, closer := "[", "]"
		switch {
		case n.Initial:
			opener, closer = "((", "))"
		case n.Goal:
			opener, closer = "([", "])"
		}
		label := strings.ReplaceAll(strings.Join(n.Facts, "<br/>"), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(n.ID), opener, label, closer))
	}

	onPlan := make(map[Edge]bool)
	if overlay != nil {
		for _, step := range overlay.Steps {
			onPlan[Edge{From: step.From, To: step.To, Op: step.Op}] = true
		}
	}
	var planLinks []int
	for i, e := range g.Edges {
		label := strings.ReplaceAll(e.Label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", nodeID(e.From), label, nodeID(e.To)))
		if onPlan[Edge{From: e.From, To: e.To, Op: e.Op}] {
			planLinks = append(planLinks, i)
		}
	}

	if g.Truncated {
		sb.WriteString("    truncated[\"...\"]\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateID]bool)
		for i, id := range overlay.Visited {
			if seen[id] || !drawn[id] || i == len(overlay.Visited)-1 {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(id)))
		}
		if last := len(overlay.Visited) - 1; last >= 0 && drawn[overlay.Visited[last]] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Visited[len(overlay.Visited)-1])))
		}
		for _, i := range planLinks {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#01579b,stroke-width:3px;\n", i))
		}
	}

	return sb.String()
}

func nodeID(id domain.StateID) string {
	return fmt.Sprintf("s%d", id)
}
