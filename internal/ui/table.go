package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/state"
)

// reloadRows re-reads the active tab. Selection follows the record id when
// the record is still listed, which keeps it stable while a temporary id is
// swapped for the server's.
func (m *Model) reloadRows() {
	if len(m.tabs) == 0 {
		m.rows = nil
		return
	}
	prevID := m.selected[m.active]
	prevCursor := m.cursor[m.active]
	m.rows = m.tabs[m.active].Rows()

	if len(m.rows) == 0 {
		m.cursor[m.active] = 0
		m.selected[m.active] = ""
		return
	}
	for i, r := range m.rows {
		if prevID != "" && r.ID == prevID {
			m.cursor[m.active] = i
			return
		}
	}
	// Record gone: clamp to valid range
	m.cursor[m.active] = min(prevCursor, len(m.rows)-1)
	m.selected[m.active] = m.rows[m.cursor[m.active]].ID
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	c := m.cursor[m.active] + delta
	c = max(0, min(c, len(m.rows)-1))
	m.cursor[m.active] = c
	m.selected[m.active] = m.rows[c].ID
}

func (m Model) selectedRow() (Row, bool) {
	if len(m.rows) == 0 || len(m.tabs) == 0 {
		return Row{}, false
	}
	return m.rows[m.cursor[m.active]], true
}

// pageSize is the number of table rows visible at once.
func (m Model) pageSize() int {
	// borders, column header, error line
	return max(m.contentHeight()-4, 1)
}

// renderRecords renders the active tab as a bordered table.
func (m Model) renderRecords() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	if len(m.tabs) == 0 {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No resources configured"))
	}
	tab := m.tabs[m.active]
	status := tab.Status()

	var content string
	switch {
	case len(m.rows) == 0 && !status.Loaded && status.LastError != nil:
		content = styles.DangerText.Background(lipgloss.Color(m.theme.FocusBg)).
			Render("Could not load " + strings.ToLower(tab.Title()) + ": " + fault.UserMessage(status.LastError))
	case len(m.rows) == 0:
		content = styles.MutedText.Background(lipgloss.Color(m.theme.FocusBg)).
			Render("No records. Press a to add one, r to reload.")
	default:
		content = m.renderRecordTable(m.width-2, m.theme.FocusBg)
	}

	title := fmt.Sprintf("%s (%d)", tab.Title(), status.Count)
	return m.renderTitledBox(title, content, m.width, height, true)
}

// renderRecordTable renders the column header, the visible rows and the
// error of the selected row.
func (m Model) renderRecordTable(width int, bgColor string) string {
	cols := m.tabs[m.active].Columns()
	widths := columnWidths(cols, width, m.width < LayoutCompactWidth)
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	var lines []string

	header := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		header = append(header, padRight(truncate(c.Title, widths[i]), widths[i]))
	}
	header = append(header, padRight("Sync", widths[len(cols)]))
	lines = append(lines, bg.FillLine(bg.Render(strings.Join(header, " "), styles.MutedText.Bold(true)), width))

	visible := m.pageSize()
	cursor := m.cursor[m.active]
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(start+visible, len(m.rows))

	for i := start; i < end; i++ {
		row := m.rows[i]
		if i == cursor {
			content := m.formatRowContent(row, widths, m.theme.SelectionBg, true)
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Width(width).
				Render(content))
			continue
		}
		content := m.formatRowContent(row, widths, bgColor, false)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Width(width).
			Render(content))
	}

	if row, ok := m.selectedRow(); ok && row.Err != nil {
		detail := fmt.Sprintf("%s failed: %s", row.Op, fault.UserMessage(row.Err))
		lines = append(lines, bg.FillLine(bg.Render(truncate(detail, width), styles.DangerText), width))
	}

	return strings.Join(lines, "\n")
}

// formatRowContent formats one record with its sync badge. Selected rows use
// SelectionText for every cell to keep contrast.
func (m Model) formatRowContent(row Row, widths []int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	textStyle := styles.Text
	idStyle := styles.MutedText
	if row.Hidden || row.State == state.PendingCreate {
		textStyle = styles.FaintText
	}
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, idStyle = sel, sel
	}

	cells := make([]string, 0, len(row.Values)+1)
	for i, v := range row.Values {
		if i >= len(widths)-1 {
			break
		}
		style := textStyle
		if i == 0 {
			style = idStyle
		}
		cells = append(cells, bg.Render(padRight(truncate(v, widths[i]), widths[i]), style))
	}

	label := stateLabel(row)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForState(row)))
	if selected {
		statusStyle = statusStyle.Bold(true)
	}
	cells = append(cells, bg.Render(label, statusStyle))
	return strings.Join(cells, bg.Space())
}

// colorForState returns the theme color for a row's sync state.
func (m Model) colorForState(row Row) string {
	if color, ok := m.theme.StatusColors[stateKey(row)]; ok {
		return color
	}
	return m.theme.Text
}

// stateKey names the row's sync state; failed deletes get their own key.
func stateKey(row Row) string {
	if row.Hidden {
		return "delete-failed"
	}
	return row.State.String()
}

func stateLabel(row Row) string {
	switch {
	case row.Hidden:
		return "delete failed"
	case row.State == state.PendingCreate:
		return "saving…"
	case row.State == state.PendingUpdate:
		return "updating…"
	case row.State == state.SyncFailed && row.Op == state.OpCreate:
		return "not saved"
	case row.State == state.SyncFailed:
		return "update failed"
	default:
		return "✓"
	}
}

// columnWidths fits the declared widths into total. The last slot is the
// sync column; leftover space goes to the widest data column.
func columnWidths(cols []club.Column, total int, compact bool) []int {
	syncWidth := 14
	if compact {
		syncWidth = 10
	}
	widths := make([]int, len(cols)+1)
	used := syncWidth + len(cols) // separators
	widest := 0
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 12
		}
		if compact {
			w = max(w*2/3, 4)
		}
		widths[i] = w
		used += w
		if w > widths[widest] {
			widest = i
		}
	}
	widths[len(cols)] = syncWidth
	if len(cols) == 0 {
		return widths
	}
	if spare := total - used; spare > 0 {
		widths[widest] += spare
	} else {
		widths[widest] = max(widths[widest]+spare, 4)
	}
	return widths
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", max(innerWidth, 0)), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
