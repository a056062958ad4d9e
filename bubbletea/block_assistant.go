package bubbletea

import (
	"fmt"

	"github.com/cortexhub/cortex"
	"github.com/cortexhub/cortex/goldmark"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders one assistant message. While the message is
// streaming the raw text is word-wrapped with a trailing cursor; markdown
// rendering waits until the message is terminal, then the result is
// cached per width because terminal content never changes.
type AssistantBlock struct {
	msg             cortex.Message
	theme           cortex.Theme
	styles          Styles
	renderedByWidth map[int]string
}

// NewAssistantBlock creates an AssistantBlock.
func NewAssistantBlock(theme cortex.Theme, styles Styles) *AssistantBlock {
	return &AssistantBlock{
		theme:           theme,
		styles:          styles,
		renderedByWidth: make(map[int]string),
	}
}

// SetMessage replaces the rendered message, invalidating the cache when
// the content or phase changed.
func (b *AssistantBlock) SetMessage(msg cortex.Message) {
	if msg.Content != b.msg.Content || msg.Phase != b.msg.Phase {
		clear(b.renderedByWidth)
	}
	b.msg = msg
}

func (b *AssistantBlock) View(width int) string {
	if b.msg.Phase == cortex.MessageStreaming {
		if b.msg.Content == "" {
			return b.styles.Muted.Render("...")
		}
		return wrapText(b.msg.Content+"▌", width)
	}

	if cached, ok := b.renderedByWidth[width]; ok {
		return cached
	}
	out := goldmark.Render(b.msg.Content, width, b.theme)
	if b.msg.Phase == cortex.MessageComplete && b.msg.Usage != (cortex.Usage{}) {
		out += "\n" + b.styles.Muted.Render(fmt.Sprintf(
			"%d tokens (%d prompt, %d response)",
			b.msg.Usage.Total(), b.msg.Usage.PromptTokens, b.msg.Usage.CandidatesTokens))
	}
	b.renderedByWidth[width] = out
	return out
}
