// Package goldmark renders assistant markdown to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/cortexhub/cortex"

// Render parses markdown source and returns ANSI-styled terminal output
// word-wrapped to width. Code blocks keep their original line breaks.
func Render(source string, width int, theme cortex.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
