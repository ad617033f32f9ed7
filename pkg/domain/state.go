package domain

import "fmt"

// StateID is a dense, stable handle to a registered state. IDs are never reused.
type StateID int32

// OperatorID is a handle into the task's operator list.
type OperatorID int32

// Fact is a variable/value pair.
type Fact struct {
	Var   int `json:"var" yaml:"var" mapstructure:"var"`
	Value int `json:"value" yaml:"value" mapstructure:"value"`
}

func (f Fact) String() string {
	return fmt.Sprintf("v%d=%d", f.Var, f.Value)
}

// State is an immutable assignment of values to the task variables.
// Values is a private copy owned by the caller.
type State struct {
	ID     StateID
	Values []int
}

// Value returns the value of variable v.
func (s State) Value(v int) int {
	return s.Values[v]
}

// Holds reports whether the fact is true in the state.
func (s State) Holds(f Fact) bool {
	return s.Values[f.Var] == f.Value
}

// Equal compares the value vectors of two states.
func (s State) Equal(other State) bool {
	if len(s.Values) != len(other.Values) {
		return false
	}
	for i, v := range s.Values {
		if other.Values[i] != v {
			return false
		}
	}
	return true
}
