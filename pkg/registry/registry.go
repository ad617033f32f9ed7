// Package registry implements the canonical state store of a search run.
//
// Every distinct world state is stored exactly once, bit-packed into a
// segmented arena, and identified by a dense StateID. Lookups by content go
// through an xxhash index with exact comparison on collision.
package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/aretw0/thicket/internal/packing"
	"github.com/aretw0/thicket/internal/segmented"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/cespare/xxhash/v2"
)

// Registry interns states of a single task. Not safe for concurrent use.
type Registry struct {
	task   ports.Task
	packer *packing.Packer
	data   *segmented.ArrayVector[packing.Bin]
	index  map[uint64][]domain.StateID

	initial    domain.StateID
	hasInitial bool

	scratch []byte
}

// NewRegistry creates an empty registry for task.
func NewRegistry(task ports.Task) (*Registry, error) {
	sizes := make([]int, task.NumVariables())
	for v := range sizes {
		sizes[v] = task.DomainSize(v)
	}
	packer, err := packing.New(sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out state packing: %w", err)
	}
	return &Registry{
		task:   task,
		packer: packer,
		data:   segmented.NewArrayVector[packing.Bin](packer.NumBins()),
		index:  make(map[uint64][]domain.StateID),
	}, nil
}

// Task returns the task whose states are registered.
func (r *Registry) Task() ports.Task {
	return r.task
}

// Size returns the number of registered states.
func (r *Registry) Size() int {
	return r.data.Len()
}

// InitialState registers the task's initial state. Repeated calls return the same ID.
func (r *Registry) InitialState() domain.State {
	if !r.hasInitial {
		values := r.task.InitialValues()
		r.task.EvaluateAxioms(values)
		r.initial = r.insert(r.packer.Pack(values))
		r.hasInitial = true
	}
	return r.LookupState(r.initial)
}

// SuccessorState applies op to parent, evaluates axioms and interns the result.
// The caller guarantees op is applicable in parent.
func (r *Registry) SuccessorState(parent domain.State, op domain.OperatorID) domain.State {
	values := make([]int, len(parent.Values))
	copy(values, parent.Values)
	r.task.ApplyOperator(op, parent.Values, values)
	r.task.EvaluateAxioms(values)
	id := r.insert(r.packer.Pack(values))
	return domain.State{ID: id, Values: values}
}

// LookupState returns the state registered under id.
// An ID the registry never issued is a programming error and panics.
func (r *Registry) LookupState(id domain.StateID) domain.State {
	return domain.State{ID: id, Values: r.packer.Unpack(r.PackedState(id))}
}

// PackedState returns a read-only view of the packed words of id.
// The view stays valid for the lifetime of the registry.
func (r *Registry) PackedState(id domain.StateID) []packing.Bin {
	if id < 0 || int(id) >= r.data.Len() {
		panic(fmt.Errorf("%w: %d (registry holds %d states)", domain.ErrStateOutOfRange, id, r.data.Len()))
	}
	return r.data.At(int(id))
}

// Lookup finds the ID of an already registered value vector.
func (r *Registry) Lookup(values []int) (domain.StateID, bool) {
	buf := r.packer.Pack(values)
	return r.find(buf, r.hash(buf))
}

func (r *Registry) insert(buf []packing.Bin) domain.StateID {
	h := r.hash(buf)
	if id, ok := r.find(buf, h); ok {
		return id
	}
	id := domain.StateID(r.data.PushBack(buf))
	r.index[h] = append(r.index[h], id)
	return id
}

func (r *Registry) find(buf []packing.Bin, h uint64) (domain.StateID, bool) {
	for _, id := range r.index[h] {
		if equalBins(r.data.At(int(id)), buf) {
			return id, true
		}
	}
	return domain.NoState, false
}

func (r *Registry) hash(buf []packing.Bin) uint64 {
	if cap(r.scratch) < 8*len(buf) {
		r.scratch = make([]byte, 8*len(buf))
	}
	b := r.scratch[:8*len(buf)]
	for i, w := range buf {
		binary.LittleEndian.PutUint64(b[8*i:], w)
	}
	return xxhash.Sum64(b)
}

func equalBins(a, b []packing.Bin) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
