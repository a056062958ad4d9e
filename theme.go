package cortex

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg  int // User message accent
	Receipt  int // Privacy receipt chips
	Error    int // Standard error banner
	Security int // Security-styled error banner
	Success  int // Completion indicators
	Muted    int // Status line, placeholders
	CodeBg   int // Code block background
	Accent   int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		Receipt:  6,
		Error:    1,
		Security: 5,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   3,
	}
}
