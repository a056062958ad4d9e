// Package cortex defines the domain types for the Cortex Gateway streaming
// chat protocol: conversation messages, the protocol event union, stream
// phases, the error taxonomy, and the transport interfaces.
package cortex

// Event is a sealed interface representing a decoded protocol event.
// Events are purely semantic. Transport failures come from Next()'s error
// return, not from events; the server-emitted error frame is the one
// exception and surfaces as EventError.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventShieldActive reports the privacy-shield outcome for the submitted
// query. It arrives once, before any content, and is stamped on the user
// message as a PrivacyReceipt.
type EventShieldActive struct {
	Redacted        bool
	MaskedEntities  []string
	SanitizedPrompt string
}

func (EventShieldActive) event() {}

// EventStatus carries a free-text progress label from the producer.
type EventStatus struct {
	Message string
}

func (EventStatus) event() {}

// EventChunk carries an incremental piece of assistant content.
type EventChunk struct {
	Content string
}

func (EventChunk) event() {}

// EventDone signals normal completion of the exchange.
type EventDone struct {
	SessionID string
	Usage     Usage // zero value when the producer omitted usage metadata
}

func (EventDone) event() {}

// EventError is a server-emitted application failure. It is terminal.
type EventError struct {
	Message string
}

func (EventError) event() {}

// Interface compliance checks.
var (
	_ Event = EventShieldActive{}
	_ Event = EventStatus{}
	_ Event = EventChunk{}
	_ Event = EventDone{}
	_ Event = EventError{}
)
