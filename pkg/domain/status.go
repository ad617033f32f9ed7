package domain

// NodeStatus is the lifecycle stage of a search node.
type NodeStatus uint8

const (
	NodeNew NodeStatus = iota
	NodeOpen
	NodeClosed
	NodeDeadEnd
)

func (s NodeStatus) String() string {
	switch s {
	case NodeNew:
		return "new"
	case NodeOpen:
		return "open"
	case NodeClosed:
		return "closed"
	case NodeDeadEnd:
		return "dead_end"
	}
	return "unknown"
}

// SearchStatus is the outcome of a search run.
type SearchStatus string

const (
	StatusInProgress   SearchStatus = "in_progress"
	StatusSolved       SearchStatus = "solved"
	StatusFailed       SearchStatus = "failed"        // Open list exhausted
	StatusTimeout      SearchStatus = "timeout"       // Wall-clock limit hit
	StatusLimitReached SearchStatus = "limit_reached" // Expansion limit hit
	StatusInterrupted  SearchStatus = "interrupted"   // Context cancelled
)

// Terminal reports whether the status ends the run.
func (s SearchStatus) Terminal() bool {
	return s != StatusInProgress
}
