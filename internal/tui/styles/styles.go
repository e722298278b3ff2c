package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from
type Palette struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Dim     lipgloss.Color
	Surface lipgloss.Color
	Select  lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

var palettes = map[string]Palette{
	"light": {
		Accent:  lipgloss.Color("#B45309"),
		Text:    lipgloss.Color("#111827"),
		Muted:   lipgloss.Color("#374151"),
		Dim:     lipgloss.Color("#6B7280"),
		Surface: lipgloss.Color("#F3F4F6"),
		Select:  lipgloss.Color("#E5E7EB"),
		Error:   lipgloss.Color("#B91C1C"),
		Success: lipgloss.Color("#047857"),
	},
	"midnight": {
		Accent:  lipgloss.Color("#E5A00D"),
		Text:    lipgloss.Color("#F9FAFB"),
		Muted:   lipgloss.Color("#9CA3AF"),
		Dim:     lipgloss.Color("#6B7280"),
		Surface: lipgloss.Color("#1F2937"),
		Select:  lipgloss.Color("#374151"),
		Error:   lipgloss.Color("#EF4444"),
		Success: lipgloss.Color("#10B981"),
	},
	"solarized": {
		Accent:  lipgloss.Color("#B58900"),
		Text:    lipgloss.Color("#EEE8D5"),
		Muted:   lipgloss.Color("#93A1A1"),
		Dim:     lipgloss.Color("#586E75"),
		Surface: lipgloss.Color("#002B36"),
		Select:  lipgloss.Color("#073642"),
		Error:   lipgloss.Color("#DC322F"),
		Success: lipgloss.Color("#859900"),
	},
}

// DefaultTheme is used for unknown theme names
const DefaultTheme = "light"

// Styles are the rendered styles of one theme
type Styles struct {
	Theme string

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Item        lipgloss.Style
	SelectedRow lipgloss.Style
	Match       lipgloss.Style

	Spinner      lipgloss.Style
	FilterPrompt lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
}

// Names lists the known themes
func Names() []string {
	return []string{"light", "midnight", "solarized"}
}

// For builds the styles of the named theme
func For(name string) Styles {
	p, ok := palettes[name]
	if !ok {
		name = DefaultTheme
		p = palettes[DefaultTheme]
	}

	return Styles{
		Theme: name,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Success:  lipgloss.NewStyle().Foreground(p.Success),

		Tab: lipgloss.NewStyle().
			Foreground(p.Dim).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		SelectedRow: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Select).
			Padding(0, 1),
		Match: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Spinner: lipgloss.NewStyle().Foreground(p.Accent),
		FilterPrompt: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Background(p.Surface).
			Foreground(p.Text).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true).
			MarginBottom(1),
		HelpKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Dim),
	}
}

// Truncate shortens s to width cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
