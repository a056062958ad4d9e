package cortex

import "time"

// Transcript is a persisted conversation.
type Transcript struct {
	ID           string
	TenantID     string
	BusinessType string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Messages     []Message
}
