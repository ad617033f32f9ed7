package observability

import (
	"io"
	"log/slog"
)

// Statistics counts the work done by one search run.
// It is passed explicitly to every component that reports into it.
type Statistics struct {
	Expanded        int64
	EvaluatedStates int64
	Evaluations     int64
	Generated       int64
	Reopened        int64
	DeadEnds        int64
	GeneratedOps    int64

	// Snapshot of the counters at the last increase of the f value.
	lastJumpF         int
	lastJumpExpanded  int64
	lastJumpReopened  int64
	lastJumpEvaluated int64
	lastJumpGenerated int64

	logger *slog.Logger
}

// NewStatistics creates zeroed statistics that log progress lines to logger.
func NewStatistics(logger *slog.Logger) *Statistics {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Statistics{lastJumpF: -1, logger: logger}
}

func (s *Statistics) IncExpanded()        { s.Expanded++ }
func (s *Statistics) IncEvaluatedStates() { s.EvaluatedStates++ }
func (s *Statistics) IncEvaluations()     { s.Evaluations++ }
func (s *Statistics) IncGenerated()       { s.Generated++ }
func (s *Statistics) IncReopened()        { s.Reopened++ }
func (s *Statistics) IncDeadEnds()        { s.DeadEnds++ }

// IncGeneratedOps adds the number of applicable operators found for a state.
func (s *Statistics) IncGeneratedOps(n int) { s.GeneratedOps += int64(n) }

// ReportFValueProgress records a new jump when f exceeds every value seen so far.
// It returns true on a jump.
func (s *Statistics) ReportFValueProgress(f int) bool {
	if f <= s.lastJumpF {
		return false
	}
	s.lastJumpF = f
	s.lastJumpExpanded = s.Expanded
	s.lastJumpReopened = s.Reopened
	s.lastJumpEvaluated = s.EvaluatedStates
	s.lastJumpGenerated = s.Generated
	s.logger.Info("f value increased",
		"f", f,
		"evaluated", s.EvaluatedStates,
		"expanded", s.Expanded,
	)
	return true
}

// LastJumpF returns the highest f value reported, or -1 when none was.
func (s *Statistics) LastJumpF() int {
	return s.lastJumpF
}

// PrintCheckpointLine logs the counters at a progress checkpoint.
func (s *Statistics) PrintCheckpointLine(g int) {
	s.logger.Info("checkpoint",
		"g", g,
		"evaluated", s.EvaluatedStates,
		"expanded", s.Expanded,
		"reopened", s.Reopened,
	)
}

// Snapshot is a serializable copy of the counters.
type Snapshot struct {
	Expanded               int64 `json:"expanded"`
	EvaluatedStates        int64 `json:"evaluated_states"`
	Evaluations            int64 `json:"evaluations"`
	Generated              int64 `json:"generated"`
	Reopened               int64 `json:"reopened"`
	DeadEnds               int64 `json:"dead_ends"`
	GeneratedOps           int64 `json:"generated_ops"`
	ExpandedUntilLastJump  int64 `json:"expanded_until_last_jump"`
	ReopenedUntilLastJump  int64 `json:"reopened_until_last_jump"`
	EvaluatedUntilLastJump int64 `json:"evaluated_until_last_jump"`
	GeneratedUntilLastJump int64 `json:"generated_until_last_jump"`
}

// Snapshot copies the current counters.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		Expanded:               s.Expanded,
		EvaluatedStates:        s.EvaluatedStates,
		Evaluations:            s.Evaluations,
		Generated:              s.Generated,
		Reopened:               s.Reopened,
		DeadEnds:               s.DeadEnds,
		GeneratedOps:           s.GeneratedOps,
		ExpandedUntilLastJump:  s.lastJumpExpanded,
		ReopenedUntilLastJump:  s.lastJumpReopened,
		EvaluatedUntilLastJump: s.lastJumpEvaluated,
		GeneratedUntilLastJump: s.lastJumpGenerated,
	}
}

// Map flattens the snapshot for persistence in plan records.
func (s Snapshot) Map() map[string]int64 {
	return map[string]int64{
		"expanded":                  s.Expanded,
		"evaluated_states":          s.EvaluatedStates,
		"evaluations":               s.Evaluations,
		"generated":                 s.Generated,
		"reopened":                  s.Reopened,
		"dead_ends":                 s.DeadEnds,
		"generated_ops":             s.GeneratedOps,
		"expanded_until_last_jump":  s.ExpandedUntilLastJump,
		"reopened_until_last_jump":  s.ReopenedUntilLastJump,
		"evaluated_until_last_jump": s.EvaluatedUntilLastJump,
		"generated_until_last_jump": s.GeneratedUntilLastJump,
	}
}

// Log writes the final statistics block.
func (s *Statistics) Log() {
	snap := s.Snapshot()
	s.logger.Info("search statistics",
		"expanded", snap.Expanded,
		"reopened", snap.Reopened,
		"evaluated_states", snap.EvaluatedStates,
		"evaluations", snap.Evaluations,
		"generated", snap.Generated,
		"dead_ends", snap.DeadEnds,
		"generated_ops", snap.GeneratedOps,
	)
	if s.lastJumpF >= 0 {
		s.logger.Info("statistics until last f jump",
			"expanded", snap.ExpandedUntilLastJump,
			"reopened", snap.ReopenedUntilLastJump,
			"evaluated", snap.EvaluatedUntilLastJump,
			"generated", snap.GeneratedUntilLastJump,
		)
	}
}
