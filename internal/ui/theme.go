package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Unfocused panels
	FocusBg    string // Focused panel

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps a sync state name, plus "delete-failed", to a color.
	StatusColors map[string]string
}

// palette is the raw color set a theme is derived from.
type palette struct {
	name                           string
	bg, surface, surfaceAlt, focus string
	selBg, selText                 string
	border, borderFocus            string
	text, muted, faint             string
	accent, success, warning       string
	danger, info                   string
	attention                      string // failed deletes, distinct from danger
}

func (p palette) theme() Theme {
	return Theme{
		Name:          p.name,
		Background:    p.bg,
		Surface:       p.surface,
		SurfaceAlt:    p.surfaceAlt,
		FocusBg:       p.focus,
		SelectionBg:   p.selBg,
		SelectionText: p.selText,
		Border:        p.border,
		BorderFocus:   p.borderFocus,
		Text:          p.text,
		Muted:         p.muted,
		Faint:         p.faint,
		Accent:        p.accent,
		Success:       p.success,
		Warning:       p.warning,
		Danger:        p.danger,
		Info:          p.info,
		StatusColors: map[string]string{
			"synced":         p.success,
			"pending-create": p.accent,
			"pending-update": p.info,
			"pending-delete": p.faint,
			"sync-failed":    p.danger,
			"delete-failed":  p.attention,
		},
	}
}

// Styles contains pre-built Lipgloss text styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	Logo        lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Logo:        fg(t.Warning).Bold(true),
	}
}

// WithBackground returns a copy of s with every style painted on bgColor, so
// spaces between segments keep the panel color.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),
		Logo:        s.Logo.Background(bg),
	}
}

var palettes = []palette{
	{
		// https://github.com/EdenEast/nightfox.nvim
		name: "Nightfox",
		bg:   "#131a24", surface: "#192330", surfaceAlt: "#212e3f", focus: "#29394f",
		selBg: "#2b3b51", selText: "#cdcecf",
		border: "#39506d", borderFocus: "#719cd6",
		text: "#cdcecf", muted: "#738091", faint: "#71839b",
		accent: "#719cd6", success: "#81b29a", warning: "#dbc074",
		danger: "#c94f6d", info: "#63cdcf", attention: "#f4a261",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		name: "Kanagawa",
		bg:   "#16161D", surface: "#1F1F28", surfaceAlt: "#2A2A37", focus: "#2A2A37",
		selBg: "#2D4F67", selText: "#DCD7BA",
		border: "#54546D", borderFocus: "#7E9CD8",
		text: "#DCD7BA", muted: "#C8C093", faint: "#727169",
		accent: "#7E9CD8", success: "#98BB6C", warning: "#E6C384",
		danger: "#E46876", info: "#7FB4CA", attention: "#FFA066",
	},
	{
		// Tailwind slate/sky
		name: "Slate",
		bg:   "#020617", surface: "#0f172a", surfaceAlt: "#1e293b", focus: "#283548",
		selBg: "#0284c7", selText: "#f8fafc",
		border: "#334155", borderFocus: "#38bdf8",
		text: "#f1f5f9", muted: "#94a3b8", faint: "#64748b",
		accent: "#38bdf8", success: "#22c55e", warning: "#f59e0b",
		danger: "#ef4444", info: "#06b6d4", attention: "#f97316",
	},
}

var themes = func() map[string]Theme {
	out := make(map[string]Theme, len(palettes))
	for _, p := range palettes {
		out[p.name] = p.theme()
	}
	return out
}()

// GetTheme returns a theme by name, falling back to the first palette.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return palettes[0].theme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, p := range palettes {
		if p.name == current {
			return palettes[(i+1)%len(palettes)].name
		}
	}
	return palettes[0].name
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.name
	}
	return names
}
