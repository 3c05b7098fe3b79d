package theme

import "github.com/charmbracelet/lipgloss"

// Color constants for the agentdesk dark theme.
const (
	ColorBackground    = lipgloss.Color("#0c1116")
	ColorPanel         = lipgloss.Color("#131c24")
	ColorPrimary       = lipgloss.Color("#0f766e")
	ColorAccent        = lipgloss.Color("#e11d48")
	ColorTextPrimary   = lipgloss.Color("#e5e7eb")
	ColorTextSecondary = lipgloss.Color("#94a3b8")
	ColorBorderSoft    = lipgloss.Color("#25343f")
	ColorSuccess       = lipgloss.Color("#22c55e")
	ColorWarning       = lipgloss.Color("#f59e0b")
)

// Styles holds every lipgloss style used across the TUI.
type Styles struct {
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style

	Header lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style

	BadgeActive lipgloss.Style
	BadgeDraft  lipgloss.Style
	BadgePaused lipgloss.Style
	BadgeLive   lipgloss.Style

	TranscriptYou     lipgloss.Style
	TranscriptPartner lipgloss.Style
	TranscriptSystem  lipgloss.Style

	FieldLabel lipgloss.Style
	FieldError lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	HelpOverlay lipgloss.Style
	StatusBar   lipgloss.Style
}

// DefaultStyles returns the default set of styles for agentdesk.
// Callers receive a value copy, so mutations stay local.
func DefaultStyles() Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Background(ColorPanel).
			Foreground(ColorTextPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderSoft).
			Padding(1, 2),

		PanelFocused: lipgloss.NewStyle().
			Background(ColorPanel).
			Foreground(ColorTextPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 2),

		ListItem: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			PaddingLeft(2),

		ListItemSelected: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorTextPrimary).
			Bold(true).
			PaddingLeft(2),

		Button: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPanel).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderSoft).
			Padding(0, 3),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Bold(true).
			Padding(0, 3),

		ButtonDanger: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorAccent).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Bold(true).
			Padding(0, 3),

		BadgeActive: lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorSuccess).
			Bold(true).
			Padding(0, 1),

		BadgeDraft: lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorWarning).
			Bold(true).
			Padding(0, 1),

		BadgePaused: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorBorderSoft).
			Bold(true).
			Padding(0, 1),

		BadgeLive: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1),

		TranscriptYou: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true),

		TranscriptPartner: lipgloss.NewStyle().
			Foreground(ColorPrimary),

		TranscriptSystem: lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Italic(true),

		FieldLabel: lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Bold(true),

		FieldError: lipgloss.NewStyle().
			Foreground(ColorAccent),

		Input: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPanel).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderSoft).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPanel).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorAccent),

		TabInactive: lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Background(ColorPanel).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorBorderSoft),

		HelpOverlay: lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorPanel).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 3),

		StatusBar: lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Background(ColorBackground).
			Padding(0, 1),
	}
}
