// Package bubbletea provides a Bubble Tea TUI for the cortex chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SessionUpdatedMsg signals that session state changed and the view must
// re-read it.
type SessionUpdatedMsg struct{}

// UpdateChannel returns a notify function for session.WithNotify and the
// channel the model listens on. The channel holds one pending signal;
// bursts coalesce, which is fine because the model re-reads the whole
// session on each signal.
func UpdateChannel() (notify func(), updates <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// listenForUpdate waits for the next session change signal.
func listenForUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return SessionUpdatedMsg{}
	}
}
