package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cortexhub/cortex"
)

var _ MessageBlock = (*UserBlock)(nil)

// UserBlock renders a user message with a "> " prefix. When the message
// carries a privacy receipt showing redaction, a chip line listing the
// masked entity types follows the text.
type UserBlock struct {
	msg    cortex.Message
	styles Styles
}

// NewUserBlock creates a UserBlock for msg.
func NewUserBlock(msg cortex.Message, styles Styles) *UserBlock {
	return &UserBlock{msg: msg, styles: styles}
}

func (b *UserBlock) View(width int) string {
	content := b.styles.UserMsg.Render("> ") + b.msg.Content
	out := lipgloss.NewStyle().Width(width).Render(content)
	if r := b.msg.Privacy; r != nil && r.Redacted {
		out += "\n" + b.styles.Receipt.Render("  shield active: masked "+chips(r.MaskedEntities))
	}
	return out
}

func chips(entities []string) string {
	if len(entities) == 0 {
		return "[PII]"
	}
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = "[" + e + "]"
	}
	return strings.Join(parts, " ")
}
