package cortex

// Phase is the position of the stream state machine for one exchange.
// Exactly one value is active per session at any instant; it is not
// persisted.
type Phase int

const (
	PhaseIdle     Phase = iota // nothing happening
	PhaseMasking               // immediately after send, before the network call resolves
	PhaseFetching              // shield reported; context loading
	PhaseThinking              // context ready; model reasoning
	PhaseWriting               // first content received; streaming
	PhaseError                 // terminal; auto-resets to idle after a fixed delay
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMasking:
		return "masking"
	case PhaseFetching:
		return "fetching"
	case PhaseThinking:
		return "thinking"
	case PhaseWriting:
		return "writing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether an exchange is in flight. Idle and error both
// count as inactive: a consumer may accept new input in either.
func (p Phase) Active() bool {
	return p != PhaseIdle && p != PhaseError
}
