package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8B5CF6")
	muted  = lipgloss.Color("#6B7280")
	border = lipgloss.Color("#D1D5DB")
)

// Styles holds the lipgloss styles used by the feed view.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Author   lipgloss.Style
	Muted    lipgloss.Style
	Body     lipgloss.Style
	Counter  lipgloss.Style
	Picker   lipgloss.Style
	Comment  lipgloss.Style
	Prompt   lipgloss.Style
}

// DefaultStyles returns the feed's default look.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginBottom(1)

	return Styles{
		Header: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		Card:     card,
		Selected: card.BorderForeground(accent),
		Author:   lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Body:     lipgloss.NewStyle(),
		Counter:  lipgloss.NewStyle().Foreground(muted),
		Picker: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Comment: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(border),
		Prompt: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

// ReactionStyle colors an active reaction.
func ReactionStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}
