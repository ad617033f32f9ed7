package domain

import "time"

// Plan is the sequence of operators from the initial state to a goal.
type Plan []OperatorID

// PlanStep is a named, costed plan entry used for persistence and rendering.
type PlanStep struct {
	Operator OperatorID `json:"operator"`
	Name     string     `json:"name"`
	Cost     int        `json:"cost"`
}

// PlanRecord is the persisted result of a search run.
type PlanRecord struct {
	ID         string           `json:"id"`
	Task       string           `json:"task"`
	Status     SearchStatus     `json:"status"`
	Cost       int              `json:"cost"`
	Steps      []PlanStep       `json:"steps"`
	Statistics map[string]int64 `json:"statistics,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Length returns the number of steps.
func (r *PlanRecord) Length() int {
	return len(r.Steps)
}
