package bubbletea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexhub/cortex"
	bt "github.com/cortexhub/cortex/bubbletea"
)

func TestUserBlockRendersText(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(cortex.DefaultTheme())
	b := bt.NewUserBlock(cortex.Message{
		Role:    cortex.RoleUser,
		Content: "how were sales today?",
	}, styles)

	out := b.View(80)
	assert.Contains(t, out, "how were sales today?")
	assert.Contains(t, out, ">")
	assert.NotContains(t, out, "shield active")
}

func TestUserBlockShowsPrivacyReceipt(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(cortex.DefaultTheme())
	b := bt.NewUserBlock(cortex.Message{
		Role:    cortex.RoleUser,
		Content: "email alice@example.com about the order",
		Privacy: &cortex.PrivacyReceipt{
			Redacted:       true,
			MaskedEntities: []string{"EMAIL", "PERSON"},
		},
	}, styles)

	out := b.View(80)
	assert.Contains(t, out, "shield active")
	assert.Contains(t, out, "[EMAIL]")
	assert.Contains(t, out, "[PERSON]")
}

func TestUserBlockReceiptOnlyWhenRedacted(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(cortex.DefaultTheme())
	b := bt.NewUserBlock(cortex.Message{
		Role:    cortex.RoleUser,
		Content: "plain question",
		Privacy: &cortex.PrivacyReceipt{Redacted: false},
	}, styles)

	assert.NotContains(t, b.View(80), "shield active")
}
