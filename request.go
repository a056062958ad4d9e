package cortex

// Request carries one query to the gateway. TenantID is authoritative and
// travels both as a header and in the body; SessionID is a fresh random
// identifier per call, used only for idempotency and correlation by the
// producer.
type Request struct {
	Query        string
	TenantID     string
	BusinessType string
	RecordID     string // empty = no record selected (sent as null)
	Tone         string
	SessionID    string
}
