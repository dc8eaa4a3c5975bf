package patch

// State is the execution phase of one operation inside the Executor.
type State int

const (
	StatePending State = iota
	StateLocating
	StateApplying
	StateApplied
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLocating:
		return "locating"
	case StateApplying:
		return "applying"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanStep reports whether next is a legal successor state. Failed may
// re-enter Locating, which is how the retry chain starts a fresh attempt;
// no transition skips a state.
func (s State) CanStep(next State) bool {
	switch s {
	case StatePending:
		return next == StateLocating
	case StateLocating:
		return next == StateApplying || next == StateFailed
	case StateApplying:
		return next == StateApplied || next == StateFailed
	case StateFailed:
		return next == StateLocating
	default:
		return false
	}
}

// machine enforces the state order during one operation's execution.
type machine struct {
	state State
}

// step advances to next, reporting whether the transition was legal.
// Illegal transitions leave the machine in Failed.
func (m *machine) step(next State) bool {
	if !m.state.CanStep(next) {
		m.state = StateFailed
		return false
	}
	m.state = next
	return true
}
