package cortex

// Usage tracks token consumption as reported by the producer on the done
// event. Zero value means the producer omitted usage metadata.
type Usage struct {
	PromptTokens     int
	CandidatesTokens int
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.PromptTokens + u.CandidatesTokens
}
