package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// lifeos palette: leafy greens for progress, warm ambers for partial days,
// ruby for misses.
var (
	Leaf     = lipgloss.Color("#50C878")
	Moss     = lipgloss.Color("#2E8B57")
	Amber    = lipgloss.Color("#FFBF00")
	Gold     = lipgloss.Color("#FFD700")
	Ruby     = lipgloss.Color("#E0115F")
	Sapphire = lipgloss.Color("#0F52BA")
	Stone    = lipgloss.Color("#8B8680")
	Dim      = lipgloss.Color("#666666")
	Faint    = lipgloss.Color("#3A3A3A")
	Bright   = lipgloss.Color("#FFFFFF")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Leaf)

	Subtitle = lipgloss.NewStyle().
			Foreground(Amber)

	Success = lipgloss.NewStyle().
		Foreground(Leaf)

	Error = lipgloss.NewStyle().
		Foreground(Ruby)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Sapphire)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Leaf).
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	// Heatmap cells.
	CellSuccess = lipgloss.NewStyle().Foreground(Leaf)
	CellFailure = lipgloss.NewStyle().Foreground(Ruby)
	CellPartial = lipgloss.NewStyle().Foreground(Amber)
	CellEmpty   = lipgloss.NewStyle().Foreground(Faint)
)

const (
	IconLeaf    = "🌱"
	IconFire    = "🔥"
	IconTarget  = "🎯"
	IconStar    = "⭐"
	IconJournal = "📓"
	IconSpark   = "✨"
	IconLock    = "🔑"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
)

// DisableColor strips ANSI styling from every lipgloss render, for
// --no-color and NO_COLOR.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorDisabled reports whether styling is currently off.
func ColorDisabled() bool {
	return lipgloss.ColorProfile() == termenv.Ascii
}
