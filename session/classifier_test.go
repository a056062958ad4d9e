package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexhub/cortex"
)

func TestDefaultStatusClassifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		phase   cortex.Phase
		ok      bool
	}{
		{"Loading business context...", cortex.PhaseFetching, true},
		{"Fetching record details", cortex.PhaseFetching, true},
		{"Thinking...", cortex.PhaseThinking, true},
		{"The model is thinking", cortex.PhaseThinking, true},
		{"Warming up", cortex.PhaseIdle, false},
		{"", cortex.PhaseIdle, false},
	}

	for _, tt := range tests {
		phase, ok := DefaultStatusClassifier(tt.message)
		assert.Equal(t, tt.ok, ok, "message %q", tt.message)
		if ok {
			assert.Equal(t, tt.phase, phase, "message %q", tt.message)
		}
	}
}
