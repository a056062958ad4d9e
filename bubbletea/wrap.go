package bubbletea

import (
	"strings"
	"unicode"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrapText word-wraps s to fit width, measuring in terminal cells so
// wide characters and emoji count correctly. Existing newlines are kept;
// words longer than a full line break mid-word.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if uniseg.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		lines   []string
		current strings.Builder
		word    strings.Builder
	)
	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		if uniseg.StringWidth(current.String())+uniseg.StringWidth(w) <= width {
			current.WriteString(w)
			return
		}
		if current.Len() > 0 {
			lines = append(lines, strings.TrimRight(current.String(), " "))
			current.Reset()
		}
		// A word wider than the line breaks at cell boundaries.
		for uniseg.StringWidth(w) > width {
			cut := 0
			cells := 0
			for _, r := range w {
				rwidth := rw.RuneWidth(r)
				if cells+rwidth > width {
					break
				}
				cells += rwidth
				cut += len(string(r))
			}
			if cut == 0 {
				break
			}
			lines = append(lines, w[:cut])
			w = w[cut:]
		}
		current.WriteString(w)
	}

	for _, r := range line {
		if unicode.IsSpace(r) {
			flushWord()
			if uniseg.StringWidth(current.String())+1 > width {
				lines = append(lines, strings.TrimRight(current.String(), " "))
				current.Reset()
			} else {
				current.WriteRune(r)
			}
			continue
		}
		word.WriteRune(r)
	}
	flushWord()
	if current.Len() > 0 || len(lines) == 0 {
		lines = append(lines, strings.TrimRight(current.String(), " "))
	}
	return lines
}
