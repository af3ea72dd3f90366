package style

import "github.com/charmbracelet/lipgloss"

var (
	// Primary colors
	Indigo  = lipgloss.Color("#6366F1") // Primary highlight / button
	Emerald = lipgloss.Color("#34D399") // Success, "Live" badge
	Red     = lipgloss.Color("#F87171") // Errors
	Yellow  = lipgloss.Color("#FBBF24") // Pending

	// Base colors
	Slate950 = lipgloss.Color("#020617") // Background
	Slate800 = lipgloss.Color("#1E293B") // Borders
	Slate400 = lipgloss.Color("#94A3B8") // Muted text
	Slate300 = lipgloss.Color("#CBD5E1") // Secondary text
	Slate50  = lipgloss.Color("#F8FAFC") // Primary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	Background    lipgloss.Color
	Border        lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color
}

// DefaultPalette returns the default color palette
func DefaultPalette() Palette {
	return Palette{
		Primary: Indigo,
		Success: Emerald,
		Error:   Red,
		Warning: Yellow,

		Background:    Slate950,
		Border:        Slate800,
		Text:          Slate50,
		TextMuted:     Slate400,
		TextSecondary: Slate300,
	}
}

// Styles – набор стилей экрана покупки.
type Styles struct {
	Card     lipgloss.Style
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
}

// NewStyles builds the purchase screen styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 3),
		Title: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(p.Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Success).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(p.TextMuted),
		Value: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true),
		Button: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Bold(true).
			Padding(0, 2),
		Disabled: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Background(p.Border).
			Padding(0, 2),
		Error: lipgloss.NewStyle().
			Foreground(p.Error),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		Pending: lipgloss.NewStyle().
			Foreground(p.Warning),
	}
}
