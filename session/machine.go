// Package session coordinates one streaming conversation: the phase
// machine, render coalescing, and the controller that drives a gateway
// stream into the message store.
package session

import "github.com/cortexhub/cortex"

// machine tracks the conversation phase through one exchange. It is not
// safe for concurrent use; the session serializes access to it.
//
// Transitions: idle -> masking -> fetching -> thinking -> writing, then
// back to idle on completion. Any active phase may fail to the error
// phase; error returns to idle after the reset delay or on the next
// reset. Intermediate phases may be skipped but never revisited: the
// phase ordering is monotonic within an exchange.
type machine struct {
	phase cortex.Phase
}

// Phase returns the current phase.
func (m *machine) Phase() cortex.Phase {
	return m.phase
}

// Begin starts an exchange. It only fires from idle.
func (m *machine) Begin() bool {
	if m.phase != cortex.PhaseIdle {
		return false
	}
	m.phase = cortex.PhaseMasking
	return true
}

// Advance moves to a later active phase. Requests to move backwards or
// sideways are ignored, which keeps out-of-order status hints harmless.
func (m *machine) Advance(p cortex.Phase) {
	if !m.phase.Active() || !p.Active() {
		return
	}
	if p > m.phase {
		m.phase = p
	}
}

// Fail moves any active phase to the error phase.
func (m *machine) Fail() {
	if m.phase.Active() {
		m.phase = cortex.PhaseError
	}
}

// Reset returns to idle from any phase.
func (m *machine) Reset() {
	m.phase = cortex.PhaseIdle
}
