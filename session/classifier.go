package session

import (
	"strings"

	"github.com/cortexhub/cortex"
)

// StatusClassifier maps a producer status message to a phase. The second
// return value reports whether the message implied a transition; either
// way the raw message is still surfaced verbatim.
type StatusClassifier func(message string) (cortex.Phase, bool)

// DefaultStatusClassifier recognizes the stock producer status messages
// by keyword. Context loading and record fetching map to the fetching
// phase; model deliberation maps to thinking.
func DefaultStatusClassifier(message string) (cortex.Phase, bool) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "context"),
		strings.Contains(lower, "fetch"),
		strings.Contains(lower, "load"):
		return cortex.PhaseFetching, true
	case strings.Contains(lower, "think"):
		return cortex.PhaseThinking, true
	default:
		return cortex.PhaseIdle, false
	}
}
