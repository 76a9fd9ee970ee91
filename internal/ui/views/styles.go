package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Prompt      lipgloss.Style
	KBadge      lipgloss.Style
	Confirm     lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	Highlight   lipgloss.Style
	Heading     lipgloss.Style
	SourceIndex lipgloss.Style
	SourceLink  lipgloss.Style
	StatusError lipgloss.Style
	HistoryBox  lipgloss.Style
	HelpBox     lipgloss.Style
	BubbleNear  lipgloss.Style
	BubbleMid   lipgloss.Style
	BubbleFar   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		KBadge:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:    lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2).
			MaxHeight(100), // Will be dynamically adjusted
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Heading:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		SourceIndex: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		SourceLink:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		HistoryBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			Width(64).
			BorderForeground(lipgloss.Color("241")),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			Width(56).
			BorderForeground(lipgloss.Color("241")),
		BubbleNear: lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		BubbleMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		BubbleFar:  lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
	}
}

// HealthColor returns the indicator color for a backend health state
func HealthColor(ok bool) string {
	if ok {
		return "78" // green
	}
	return "203" // red
}
