package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints segments on one background color. Adjacent lipgloss renders
// each end in a full reset, so a space that was not itself rendered with the
// background shows the terminal color through. Every segment and every gap
// goes through BgStyle instead.
type BgStyle struct {
	fill lipgloss.Style
}

// NewBgStyle creates a painter for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	return BgStyle{fill: lipgloss.NewStyle().Background(lipgloss.Color(bgColor))}
}

// Render paints text with style on the background. Runs of spaces are
// painted separately from words so padding keeps the background even when
// style carries underline or bold.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	word := style.Background(b.fill.GetBackground())

	var out strings.Builder
	for text != "" {
		i := strings.IndexByte(text, ' ')
		switch {
		case i < 0:
			out.WriteString(word.Render(text))
			text = ""
		case i == 0:
			n := len(text) - len(strings.TrimLeft(text, " "))
			out.WriteString(b.Spaces(n))
			text = text[n:]
		default:
			out.WriteString(word.Render(text[:i]))
			text = text[i:]
		}
	}
	return out.String()
}

// Space returns one painted space.
func (b BgStyle) Space() string {
	return b.Spaces(1)
}

// Spaces returns n painted spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Join joins parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// FillLine pads content to width on the background.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
