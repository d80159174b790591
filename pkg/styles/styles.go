// Package styles defines the shared lipgloss color palette and text styles
// for terminal output. Colors are adaptive so output stays readable on both
// light and dark backgrounds.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette following the GitHub Primer scale.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#59636e", Dark: "#8b949e"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#a371f7"}
)

// Shared text styles.
var (
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Info    = lipgloss.NewStyle().Foreground(ColorInfo)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Accent  = lipgloss.NewStyle().Foreground(ColorAccent)
	Bold    = lipgloss.NewStyle().Bold(true)
)
