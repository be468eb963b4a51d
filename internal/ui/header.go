package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plantel/internal/notify"
)

// renderHeader renders the logo, the resource tabs and the sync counters of
// the active tab.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("plantel", styles.Logo)}

	tabs := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if compact {
			label = fmt.Sprintf("%d %s", i+1, truncate(t.Title(), 4))
		}
		if i == m.active && m.currentView == ViewRecords {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true).Underline(true)))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	if len(tabs) > 0 {
		parts = append(parts, strings.Join(tabs, bg.Spaces(1)+bg.Render("│", styles.FaintText)+bg.Spaces(1)))
	}
	if m.currentView == ViewLogs {
		parts = append(parts, bg.Render("Log", styles.AccentText.Bold(true).Underline(true)))
	}

	if len(m.tabs) > 0 {
		parts = append(parts, m.renderCounters(m.tabs[m.active].Status(), compact, styles, bg))
	}

	if m.session != nil && !m.signedIn {
		parts = append(parts, bg.Render("● signed out", styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, sep))
}

// renderCounters shows in-flight and failed syncs.
func (m Model) renderCounters(s TabStatus, compact bool, styles Styles, bg BgStyle) string {
	pendingStyle := styles.MutedText
	if s.Pending > 0 {
		pendingStyle = styles.InfoText
	}
	failedStyle := styles.MutedText
	if s.Failed+s.FailedDeletes > 0 {
		failedStyle = styles.DangerText
	}

	pendingLabel, failedLabel := "Syncing:", "Failed:"
	if compact {
		pendingLabel, failedLabel = "S:", "F:"
	}
	out := bg.Render(pendingLabel, styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", s.Pending), pendingStyle) +
		bg.Spaces(2) + bg.Render("•", styles.FaintText) + bg.Spaces(2) +
		bg.Render(failedLabel, styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", s.Failed+s.FailedDeletes), failedStyle)

	if m.width >= LayoutExtraWideWidth && !s.LastUpdated.IsZero() {
		out += bg.Spaces(2) + bg.Render("updated "+formatAgo(time.Since(s.LastUpdated)), styles.FaintText)
	}
	return out
}

// renderToast renders the notification line at the bottom of the screen.
func (m Model) renderToast() string {
	bg := NewBgStyle(m.theme.Background)
	if m.toast.text == "" {
		return bg.FillLine("", m.width)
	}
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	var icon string
	var style lipgloss.Style
	switch m.toast.kind {
	case notify.Error:
		icon, style = "✗", styles.DangerText
	case notify.Warning:
		icon, style = "!", styles.WarningText.Bold(true)
	default:
		icon, style = "✓", styles.SuccessText
	}
	text := truncate(m.toast.text, max(m.width-4, 10))
	return bg.FillLine(bg.Render(icon, style)+bg.Space()+bg.Render(text, style.Bold(false)), m.width)
}

// formatAgo renders a short relative duration.
func formatAgo(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
