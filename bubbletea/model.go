package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cortexhub/cortex"
	"github.com/cortexhub/cortex/session"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the cortex chat TUI. The session
// owns all conversation state; the model is a view over it, re-read on
// every SessionUpdatedMsg.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	sess    *session.Session
	updates <-chan struct{}
	theme   cortex.Theme
	styles  Styles

	// assistant holds render-cache blocks keyed by message id so a
	// completed message's markdown is not re-rendered on every update.
	assistant map[string]*AssistantBlock

	ready bool
}

// New creates a TUI Model over sess. updates must be the channel paired
// with the notify function the session was built with.
func New(sess *session.Session, updates <-chan struct{}, theme cortex.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your business..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:     ti,
		sess:      sess,
		updates:   updates,
		theme:     theme,
		styles:    NewStyles(theme),
		assistant: make(map[string]*AssistantBlock),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForUpdate(m.updates))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionUpdatedMsg:
		m = m.syncSession()
		return m, listenForUpdate(m.updates)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.sess.Active() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	gapH := 2
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.sess.Active() {
			m.sess.StopStream()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.sess.ClearMessages()
		return m, nil

	case tea.KeyEnter:
		if m.sess.Active() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		m.sess.SendMessage(text)
		return m, nil
	}

	// When idle, pass keys to both the input (for typing) and the
	// viewport (for scrolling). Character keys go to the input only so
	// 'j'/'k' type instead of scrolling.
	if !m.sess.Active() {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// syncSession re-reads session state into the viewport and adjusts input
// focus to the exchange lifecycle.
func (m Model) syncSession() Model {
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	if m.sess.Active() {
		m.Input.Blur()
	} else if !m.Input.Focused() {
		m.Input.Focus()
	}
	return m
}

func (m Model) renderContent() string {
	msgs := m.sess.Messages()
	seen := make(map[string]bool, len(msgs))

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case cortex.RoleUser:
			b.WriteString(NewUserBlock(msg, m.styles).View(m.Viewport.Width))
		case cortex.RoleAssistant:
			seen[msg.ID] = true
			block, ok := m.assistant[msg.ID]
			if !ok {
				block = NewAssistantBlock(m.theme, m.styles)
				m.assistant[msg.ID] = block
			}
			block.SetMessage(msg)
			b.WriteString(block.View(m.Viewport.Width))
		}
	}

	// Drop cache entries for messages that no longer exist (clear).
	for id := range m.assistant {
		if !seen[id] {
			delete(m.assistant, id)
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	if err := m.sess.LastError(); err != nil {
		style := m.styles.Error
		if err.Security() {
			style = m.styles.Security
		}
		return style.Render(err.Message)
	}

	switch m.sess.Phase() {
	case cortex.PhaseMasking:
		return m.styles.Muted.Render("Shielding your message...")
	case cortex.PhaseFetching, cortex.PhaseThinking:
		if status := m.sess.StatusMessage(); status != "" {
			return m.styles.Muted.Render(status)
		}
		return m.styles.Muted.Render("Working...")
	case cortex.PhaseWriting:
		return m.styles.Muted.Render("Writing...")
	default:
		return m.styles.Muted.Render("Enter to send, Ctrl+C to quit, Ctrl+L to clear")
	}
}
