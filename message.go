package cortex

import "time"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessagePhase tracks the lifecycle of an assistant message. Content may
// only grow while the phase is MessageStreaming; the terminal phases
// freeze it.
type MessagePhase string

const (
	MessageStreaming MessagePhase = "streaming"
	MessageComplete  MessagePhase = "complete"
	MessageError     MessagePhase = "error"
)

// Terminal reports whether the phase freezes message content.
func (p MessagePhase) Terminal() bool {
	return p == MessageComplete || p == MessageError
}

// PrivacyReceipt describes what the privacy shield masked before the query
// left the originating request. It attaches to the user message, never the
// assistant one, so a consumer can show "what was redacted" beside the
// question. Immutable once attached.
type PrivacyReceipt struct {
	Redacted        bool     // true when at least one entity was masked
	MaskedEntities  []string // e.g. ["[EMAIL_1]", "[PHONE_1]"]
	SanitizedPrompt string   // tokenized text the producer actually saw
}

// Message is one entry in the conversation log. Identity is immutable;
// content and phase are mutated in place through Store patches only.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
	Phase     MessagePhase    // assistant only
	Privacy   *PrivacyReceipt // user only
	Usage     Usage           // assistant only, set on completion
}
