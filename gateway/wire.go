package gateway

import (
	"encoding/json"

	"github.com/cortexhub/cortex"
)

type wireRequest struct {
	Query        string  `json:"query"`
	TenantID     string  `json:"tenant_id"`
	BusinessType string  `json:"business_type"`
	RecordID     *string `json:"record_id"`
	Tone         string  `json:"tone"`
	SessionID    string  `json:"session_id"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CandidatesTokens int `json:"candidates_tokens"`
}

type wireEvent struct {
	Type            string     `json:"type"`
	HasPII          bool       `json:"has_pii"`
	MaskedEntities  []string   `json:"masked_entities"`
	SanitizedPrompt string     `json:"sanitized_prompt"`
	Message         string     `json:"message"`
	Content         string     `json:"content"`
	SessionID       string     `json:"session_id"`
	Usage           *wireUsage `json:"usage"`
}

// decodeEvent parses one frame payload. Unknown types and malformed JSON
// return (nil, false); the protocol requires skipping them silently.
func decodeEvent(payload []byte) (cortex.Event, bool) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, false
	}
	switch w.Type {
	case "shield_active":
		return cortex.EventShieldActive{
			Redacted:        w.HasPII,
			MaskedEntities:  w.MaskedEntities,
			SanitizedPrompt: w.SanitizedPrompt,
		}, true
	case "status":
		return cortex.EventStatus{Message: w.Message}, true
	case "chunk":
		return cortex.EventChunk{Content: w.Content}, true
	case "done":
		done := cortex.EventDone{SessionID: w.SessionID}
		if w.Usage != nil {
			done.Usage = cortex.Usage{
				PromptTokens:     w.Usage.PromptTokens,
				CandidatesTokens: w.Usage.CandidatesTokens,
			}
		}
		return done, true
	case "error":
		return cortex.EventError{Message: w.Message}, true
	default:
		return nil, false
	}
}

func encodeRequest(req cortex.Request) ([]byte, error) {
	w := wireRequest{
		Query:        req.Query,
		TenantID:     req.TenantID,
		BusinessType: req.BusinessType,
		Tone:         req.Tone,
		SessionID:    req.SessionID,
	}
	if req.RecordID != "" {
		w.RecordID = &req.RecordID
	}
	return json.Marshal(w)
}
