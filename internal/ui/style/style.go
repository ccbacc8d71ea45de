// Package style provides shared UI styling primitives, colors and icons,
// for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Log level colors.
var (
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
