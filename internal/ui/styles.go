package ui

import "github.com/charmbracelet/lipgloss"

// --- Palette ---

var (
	ColorInk     = lipgloss.Color("#e4e1d6") // body text
	ColorFaint   = lipgloss.Color("#8c8a80") // secondary text
	ColorLink    = lipgloss.Color("#6fa8dc") // tags, crumbs, selection
	ColorHeading = lipgloss.Color("#c9a35b") // headings
	ColorProof   = lipgloss.Color("#9fbf7f") // proof labels
	ColorRule    = lipgloss.Color("#3a3f44") // separators
	ColorPaper   = lipgloss.Color("#1b1d1f") // badge text
)

// --- Styles ---

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorHeading).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorHeading).
			Bold(true).
			PaddingBottom(1)

	NormalStyle   = lipgloss.NewStyle().Foreground(ColorInk)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorFaint)
	AccentStyle   = lipgloss.NewStyle().Foreground(ColorLink)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorLink).Bold(true)

	// TypeBadgeStyle marks the kind of a tag: lemma, definition, section.
	TypeBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorPaper).
			Background(ColorFaint).
			Padding(0, 1)

	ProofLabelStyle = lipgloss.NewStyle().
			Foreground(ColorProof).
			Italic(true)

	CrumbStyle    = lipgloss.NewStyle().Foreground(ColorLink)
	CrumbSepStyle = lipgloss.NewStyle().Foreground(ColorRule)
)
