package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexhub/cortex"
	bt "github.com/cortexhub/cortex/bubbletea"
)

func newAssistantBlock() *bt.AssistantBlock {
	return bt.NewAssistantBlock(cortex.DefaultTheme(), bt.NewStyles(cortex.DefaultTheme()))
}

func TestAssistantBlockStreamingShowsCursor(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{
		Role:    cortex.RoleAssistant,
		Content: "Sales were up",
		Phase:   cortex.MessageStreaming,
	})

	out := b.View(80)
	assert.Contains(t, out, "Sales were up")
	assert.Contains(t, out, "▌")
}

func TestAssistantBlockStreamingEmptyShowsPlaceholder(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{Role: cortex.RoleAssistant, Phase: cortex.MessageStreaming})

	assert.Contains(t, b.View(80), "...")
}

func TestAssistantBlockStreamingWraps(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{
		Role:    cortex.RoleAssistant,
		Content: "one two three four five six seven eight nine ten",
		Phase:   cortex.MessageStreaming,
	})

	out := b.View(12)
	assert.Greater(t, strings.Count(out, "\n"), 1)
}

func TestAssistantBlockCompleteRendersMarkdown(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{
		Role:    cortex.RoleAssistant,
		Content: "# Summary\n\nAll good.",
		Phase:   cortex.MessageComplete,
	})

	out := b.View(80)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "All good.")
	assert.NotContains(t, out, "▌")
	assert.NotContains(t, out, "#")
}

func TestAssistantBlockCompleteShowsUsage(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{
		Role:    cortex.RoleAssistant,
		Content: "Done.",
		Phase:   cortex.MessageComplete,
		Usage:   cortex.Usage{PromptTokens: 10, CandidatesTokens: 32},
	})

	out := b.View(80)
	assert.Contains(t, out, "42 tokens")
	assert.Contains(t, out, "10 prompt")
	assert.Contains(t, out, "32 response")
}

func TestAssistantBlockErrorKeepsContent(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{
		Role:    cortex.RoleAssistant,
		Content: "partial answer\n\n[error] model overloaded",
		Phase:   cortex.MessageError,
	})

	out := b.View(80)
	assert.Contains(t, out, "partial answer")
	assert.Contains(t, out, "model overloaded")
}

func TestAssistantBlockCacheInvalidatedOnContentChange(t *testing.T) {
	t.Parallel()

	b := newAssistantBlock()
	b.SetMessage(cortex.Message{Role: cortex.RoleAssistant, Content: "first", Phase: cortex.MessageComplete})
	assert.Contains(t, b.View(80), "first")

	b.SetMessage(cortex.Message{Role: cortex.RoleAssistant, Content: "second", Phase: cortex.MessageComplete})
	out := b.View(80)
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first")
}
