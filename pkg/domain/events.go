package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExpand   EventType = "expand"
	EventProgress EventType = "progress"
	EventFJump    EventType = "f_jump"
	EventSolved   EventType = "solved"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	StateID   StateID   `json:"state_id"`
}

// ExpandEvent is emitted when a node is expanded.
type ExpandEvent struct {
	EventBase
	G        int `json:"g"`
	Expanded int `json:"expanded"`
}

// ProgressEvent is emitted when an evaluator reaches a new best value.
type ProgressEvent struct {
	EventBase
	Evaluator string `json:"evaluator"`
	Value     int    `json:"value"`
	Boosted   bool   `json:"boosted"`
}

// FJumpEvent is emitted when the f value of expanded nodes increases.
type FJumpEvent struct {
	EventBase
	F int `json:"f"`
}

// SolvedEvent is emitted when a goal node is popped.
type SolvedEvent struct {
	EventBase
	Cost   int `json:"cost"`
	Length int `json:"length"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnExpand   func(context.Context, *ExpandEvent)
	OnProgress func(context.Context, *ProgressEvent)
	OnFJump    func(context.Context, *FJumpEvent)
	OnSolved   func(context.Context, *SolvedEvent)
}
