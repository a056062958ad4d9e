// Package json persists conversation transcripts as versioned JSON files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cortexhub/cortex"
)

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version      int          `json:"version"`
	ID           string       `json:"id"`
	TenantID     string       `json:"tenant_id"`
	BusinessType string       `json:"business_type,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Messages     []messageDTO `json:"messages"`
}

type messageDTO struct {
	ID        string      `json:"id"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Phase     string      `json:"phase"`
	Privacy   *privacyDTO `json:"privacy,omitempty"`
	Usage     *usageDTO   `json:"usage,omitempty"`
}

type privacyDTO struct {
	Redacted        bool     `json:"redacted"`
	MaskedEntities  []string `json:"masked_entities,omitempty"`
	SanitizedPrompt string   `json:"sanitized_prompt,omitempty"`
}

type usageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CandidatesTokens int `json:"candidates_tokens"`
}

// MarshalTranscript serializes a Transcript to JSON in v1 envelope format.
func MarshalTranscript(tr cortex.Transcript) ([]byte, error) {
	env := envelope{
		Version:      1,
		ID:           tr.ID,
		TenantID:     tr.TenantID,
		BusinessType: tr.BusinessType,
		CreatedAt:    tr.CreatedAt,
		UpdatedAt:    tr.UpdatedAt,
		Messages:     make([]messageDTO, len(tr.Messages)),
	}
	for i, msg := range tr.Messages {
		env.Messages[i] = marshalMessage(msg)
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a Transcript from v1 envelope JSON.
func UnmarshalTranscript(data []byte) (cortex.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return cortex.Transcript{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return cortex.Transcript{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]cortex.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msgs[i] = unmarshalMessage(dto)
	}
	return cortex.Transcript{
		ID:           env.ID,
		TenantID:     env.TenantID,
		BusinessType: env.BusinessType,
		CreatedAt:    env.CreatedAt,
		UpdatedAt:    env.UpdatedAt,
		Messages:     msgs,
	}, nil
}

// Save writes a Transcript to a JSON file, creating parent directories as
// needed. The write goes through a temp file and rename so a crash never
// leaves a half-written transcript.
func Save(path string, tr cortex.Transcript) error {
	data, err := MarshalTranscript(tr)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Transcript from a JSON file.
func Load(path string) (cortex.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cortex.Transcript{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}

func marshalMessage(msg cortex.Message) messageDTO {
	dto := messageDTO{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
		Phase:     string(msg.Phase),
	}
	if msg.Privacy != nil {
		dto.Privacy = &privacyDTO{
			Redacted:        msg.Privacy.Redacted,
			MaskedEntities:  msg.Privacy.MaskedEntities,
			SanitizedPrompt: msg.Privacy.SanitizedPrompt,
		}
	}
	if msg.Usage != (cortex.Usage{}) {
		dto.Usage = &usageDTO{
			PromptTokens:     msg.Usage.PromptTokens,
			CandidatesTokens: msg.Usage.CandidatesTokens,
		}
	}
	return dto
}

func unmarshalMessage(dto messageDTO) cortex.Message {
	msg := cortex.Message{
		ID:        dto.ID,
		Role:      cortex.Role(dto.Role),
		Content:   dto.Content,
		CreatedAt: dto.CreatedAt,
		Phase:     cortex.MessagePhase(dto.Phase),
	}
	if dto.Privacy != nil {
		msg.Privacy = &cortex.PrivacyReceipt{
			Redacted:        dto.Privacy.Redacted,
			MaskedEntities:  dto.Privacy.MaskedEntities,
			SanitizedPrompt: dto.Privacy.SanitizedPrompt,
		}
	}
	if dto.Usage != nil {
		msg.Usage = cortex.Usage{
			PromptTokens:     dto.Usage.PromptTokens,
			CandidatesTokens: dto.Usage.CandidatesTokens,
		}
	}
	return msg
}
