package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	colourPrimary   = lipgloss.Color("#7C3AED")
	colourSecondary = lipgloss.Color("#06B6D4")
	colourText      = lipgloss.Color("#CDD6F4")
	colourMuted     = lipgloss.Color("#6C7086")
	colourError     = lipgloss.Color("#F38BA8")
	colourBorder    = lipgloss.Color("#45475A")
)

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title    lipgloss.Style
	Spec     lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Input    lipgloss.Style
	Status   lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Spec:     lipgloss.NewStyle().Foreground(colourSecondary),
		Normal:   lipgloss.NewStyle().Foreground(colourText),
		Muted:    lipgloss.NewStyle().Foreground(colourMuted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colourText).Background(colourPrimary),
		Error:    lipgloss.NewStyle().Foreground(colourError),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colourBorder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(colourMuted).Padding(0, 1),
	}
}
