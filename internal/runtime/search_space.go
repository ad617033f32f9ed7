package runtime

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/thicket/internal/segmented"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/registry"
)

// nodeInfo is the per-state search record. Parents are referenced by id.
type nodeInfo struct {
	status domain.NodeStatus
	g      int
	realG  int
	parent domain.StateID
	op     domain.OperatorID
}

var unseen = nodeInfo{
	status: domain.NodeNew,
	g:      -1,
	realG:  -1,
	parent: domain.NoState,
	op:     domain.NoOperator,
}

// SearchSpace owns the node status of every registered state.
type SearchSpace struct {
	registry *registry.Registry
	infos    *segmented.Vector[nodeInfo]
	logger   *slog.Logger
}

// NewSearchSpace creates an empty search space over reg.
func NewSearchSpace(reg *registry.Registry, logger *slog.Logger) *SearchSpace {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SearchSpace{
		registry: reg,
		infos:    segmented.NewVector[nodeInfo](),
		logger:   logger,
	}
}

// Node returns the handle for state, creating a NEW record on first access.
func (s *SearchSpace) Node(state domain.State) SearchNode {
	idx := int(state.ID)
	if idx >= s.infos.Len() {
		s.infos.Resize(idx+1, unseen)
	}
	return SearchNode{state: state, info: s.infos.At(idx)}
}

// NodeByID is Node for a registered state id.
func (s *SearchSpace) NodeByID(id domain.StateID) SearchNode {
	return s.Node(s.registry.LookupState(id))
}

// TracePath walks parent pointers from goal back to the initial state.
func (s *SearchSpace) TracePath(goal domain.State) (domain.Plan, error) {
	var plan domain.Plan
	id := goal.ID
	for steps := 0; ; steps++ {
		if int(id) >= s.infos.Len() {
			return nil, fmt.Errorf("%w: state %d has no search node", domain.ErrInvalidTransition, id)
		}
		if steps > s.infos.Len() {
			return nil, fmt.Errorf("%w: parent pointers of state %d form a cycle", domain.ErrInvalidTransition, goal.ID)
		}
		info := s.infos.At(int(id))
		if info.status == domain.NodeNew {
			return nil, fmt.Errorf("%w: state %d was never reached", domain.ErrInvalidTransition, id)
		}
		if info.op == domain.NoOperator {
			break
		}
		plan = append(plan, info.op)
		id = info.parent
	}
	for i, j := 0, len(plan)-1; i < j; i, j = i+1, j-1 {
		plan[i], plan[j] = plan[j], plan[i]
	}
	return plan, nil
}

// NodeCounts is the number of search nodes per status.
type NodeCounts struct {
	New     int
	Open    int
	Closed  int
	DeadEnd int
}

// Statistics counts the nodes in each status.
func (s *SearchSpace) Statistics() NodeCounts {
	var c NodeCounts
	for i := 0; i < s.infos.Len(); i++ {
		switch s.infos.At(i).status {
		case domain.NodeNew:
			c.New++
		case domain.NodeOpen:
			c.Open++
		case domain.NodeClosed:
			c.Closed++
		case domain.NodeDeadEnd:
			c.DeadEnd++
		}
	}
	return c
}

// Log prints the search space summary.
func (s *SearchSpace) Log() {
	c := s.Statistics()
	s.logger.Info("search space",
		"registered", s.registry.Size(),
		"open", c.Open,
		"closed", c.Closed,
		"dead_ends", c.DeadEnd,
	)
}

// Dump writes one line per reached node, for debugging.
func (s *SearchSpace) Dump(w io.Writer, task ports.Task) error {
	for i := 0; i < s.infos.Len(); i++ {
		info := s.infos.At(i)
		if info.status == domain.NodeNew {
			continue
		}
		state := s.registry.LookupState(domain.StateID(i))
		op := "-"
		if info.op != domain.NoOperator {
			op = task.OperatorName(info.op)
		}
		if _, err := fmt.Fprintf(w, "#%d %s g=%d real_g=%d parent=#%d op=%s values=%v\n",
			i, info.status, info.g, info.realG, info.parent, op, state.Values); err != nil {
			return err
		}
	}
	return nil
}

// SearchNode is a handle on the record of one state. The record lives in a
// segmented arena, so handles stay valid while the space grows.
type SearchNode struct {
	state domain.State
	info  *nodeInfo
}

func (n SearchNode) State() domain.State           { return n.state }
func (n SearchNode) ID() domain.StateID            { return n.state.ID }
func (n SearchNode) Status() domain.NodeStatus     { return n.info.status }
func (n SearchNode) IsNew() bool                   { return n.info.status == domain.NodeNew }
func (n SearchNode) IsOpen() bool                  { return n.info.status == domain.NodeOpen }
func (n SearchNode) IsClosed() bool                { return n.info.status == domain.NodeClosed }
func (n SearchNode) IsDeadEnd() bool               { return n.info.status == domain.NodeDeadEnd }
func (n SearchNode) G() int                        { return n.info.g }
func (n SearchNode) RealG() int                    { return n.info.realG }
func (n SearchNode) Parent() domain.StateID        { return n.info.parent }
func (n SearchNode) CreatingOp() domain.OperatorID { return n.info.op }

func (n SearchNode) guard(transition string, allowed ...domain.NodeStatus) error {
	for _, st := range allowed {
		if n.info.status == st {
			return nil
		}
	}
	return fmt.Errorf("%w: %s on state %d in status %s",
		domain.ErrInvalidTransition, transition, n.state.ID, n.info.status)
}

func (n SearchNode) guardCheaper(transition string, parent SearchNode, adjustedCost int) error {
	if g := parent.info.g + adjustedCost; g >= n.info.g {
		return fmt.Errorf("%w: %s on state %d does not improve g (%d >= %d)",
			domain.ErrInvalidTransition, transition, n.state.ID, g, n.info.g)
	}
	return nil
}

func (n SearchNode) setParent(parent SearchNode, op domain.OperatorID, realCost, adjustedCost int) {
	n.info.g = parent.info.g + adjustedCost
	n.info.realG = parent.info.realG + realCost
	n.info.parent = parent.state.ID
	n.info.op = op
}

// OpenInitial opens the initial state with g = 0.
func (n SearchNode) OpenInitial() error {
	if err := n.guard("open initial", domain.NodeNew); err != nil {
		return err
	}
	n.info.status = domain.NodeOpen
	n.info.g = 0
	n.info.realG = 0
	n.info.parent = domain.NoState
	n.info.op = domain.NoOperator
	return nil
}

// OpenNewNode opens a NEW node reached from parent through op.
func (n SearchNode) OpenNewNode(parent SearchNode, op domain.OperatorID, realCost, adjustedCost int) error {
	if err := n.guard("open new node", domain.NodeNew); err != nil {
		return err
	}
	n.info.status = domain.NodeOpen
	n.setParent(parent, op, realCost, adjustedCost)
	return nil
}

// Close marks an OPEN node as expanded.
func (n SearchNode) Close() error {
	if err := n.guard("close", domain.NodeOpen); err != nil {
		return err
	}
	n.info.status = domain.NodeClosed
	return nil
}

// MarkAsDeadEnd is terminal. A dead end is never reopened or expanded.
func (n SearchNode) MarkAsDeadEnd() error {
	if err := n.guard("mark as dead end", domain.NodeNew, domain.NodeOpen, domain.NodeClosed); err != nil {
		return err
	}
	n.info.status = domain.NodeDeadEnd
	return nil
}

// UpdateOpenNodeParent records a strictly cheaper path to an OPEN node.
func (n SearchNode) UpdateOpenNodeParent(parent SearchNode, op domain.OperatorID, realCost, adjustedCost int) error {
	if err := n.guard("update open node parent", domain.NodeOpen); err != nil {
		return err
	}
	if err := n.guardCheaper("update open node parent", parent, adjustedCost); err != nil {
		return err
	}
	n.setParent(parent, op, realCost, adjustedCost)
	return nil
}

// ReopenClosedNode moves a CLOSED node back to OPEN on a strictly cheaper path.
func (n SearchNode) ReopenClosedNode(parent SearchNode, op domain.OperatorID, realCost, adjustedCost int) error {
	if err := n.guard("reopen closed node", domain.NodeClosed); err != nil {
		return err
	}
	if err := n.guardCheaper("reopen closed node", parent, adjustedCost); err != nil {
		return err
	}
	n.info.status = domain.NodeOpen
	n.setParent(parent, op, realCost, adjustedCost)
	return nil
}

// UpdateClosedNodeParent rewires a CLOSED node to a strictly cheaper parent
// without reopening it. Descendants keep the g they were opened with, so a
// path traced through this node can cost less than their stored g.
func (n SearchNode) UpdateClosedNodeParent(parent SearchNode, op domain.OperatorID, realCost, adjustedCost int) error {
	if err := n.guard("update closed node parent", domain.NodeClosed); err != nil {
		return err
	}
	if err := n.guardCheaper("update closed node parent", parent, adjustedCost); err != nil {
		return err
	}
	n.setParent(parent, op, realCost, adjustedCost)
	return nil
}
