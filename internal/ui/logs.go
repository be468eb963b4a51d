package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plantel/internal/logtail"
)

// logsMsg carries a fresh read of the log file.
type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// loadLogs reads the tail of the log file in the background.
func (m Model) loadLogs() tea.Cmd {
	path, level := m.logFile, m.logLevel
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLines, level)
		return logsMsg{entries: entries, err: err}
	}
}

// updateLogViewport re-renders the entries into the viewport.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	// Box inner height: header, cmdbar, toast and the two borders
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := fmt.Sprintf("Log · %s and above", m.logLevel)
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if m.logFile == "" {
		return bg.Render("No log file configured", styles.MutedText)
	}
	if m.logErr != nil {
		return bg.Render("Could not read "+m.logFile+": "+m.logErr.Error(), styles.DangerText)
	}
	if len(m.logEntries) == 0 {
		return bg.Render("Nothing logged at this level yet", styles.MutedText)
	}

	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL message key=value ...".
func (m Model) formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(fmt.Sprintf("%-5s", e.Level.String()), m.levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(a.Value, styles.AccentText))
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func (m Model) levelStyle(level slog.Level, styles Styles) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level >= slog.LevelInfo:
		return styles.SuccessText
	default:
		return styles.InfoText
	}
}

// nextLevel cycles debug, info, warn, error.
func nextLevel(l slog.Level) slog.Level {
	switch {
	case l < slog.LevelInfo:
		return slog.LevelInfo
	case l < slog.LevelWarn:
		return slog.LevelWarn
	case l < slog.LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.logLevel = nextLevel(m.logLevel)
		return m, m.loadLogs()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadLogs()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
	return m, nil
}
