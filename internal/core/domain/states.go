package domain

// QueryState names a stage of the question pipeline. The pipeline is
// an explicit state machine:
//
//	Gated ──▶ Refused            (gate said NO)
//	Gated ──▶ Retrieving         (gate said YES)
//	Gated ──▶ Failed             (gate call failed)
//	Retrieving ──▶ Answered      (synthesis succeeded)
//	Retrieving ──▶ Failed        (retrieval or synthesis failed)
//
// Refused, Answered and Failed are terminal.
type QueryState string

// Pipeline states.
const (
	// StateGated means the question is at the relevance gate.
	StateGated QueryState = "gated"

	// StateRetrieving means the gate passed and retrieval is underway.
	StateRetrieving QueryState = "retrieving"

	// StateAnswered means an answer was synthesized.
	StateAnswered QueryState = "answered"

	// StateRefused means the gate rejected the question.
	StateRefused QueryState = "refused"

	// StateFailed means retrieval or synthesis failed.
	StateFailed QueryState = "failed"
)

// IsValid returns true if the state is recognised.
func (s QueryState) IsValid() bool {
	switch s {
	case StateGated, StateRetrieving, StateAnswered, StateRefused, StateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the pipeline stops in this state.
func (s QueryState) IsTerminal() bool {
	switch s {
	case StateAnswered, StateRefused, StateFailed:
		return true
	default:
		return false
	}
}

// CanTransition returns true if the machine may move from s to next.
func (s QueryState) CanTransition(next QueryState) bool {
	switch s {
	case StateGated:
		return next == StateRefused || next == StateRetrieving || next == StateFailed
	case StateRetrieving:
		return next == StateAnswered || next == StateFailed
	default:
		return false
	}
}

// String returns the string representation.
func (s QueryState) String() string {
	return string(s)
}
