package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stevedore/internal/docker"
)

const dashboardTitle = "Docker Administration"

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	contentH := a.height - 1
	if contentH < 1 {
		contentH = 1
	}

	content := a.renderDashboard(a.width, contentH)

	if a.showHelp {
		content = helpOverlay(a.width, contentH, &a.theme)
	}
	if a.showActions {
		content = a.renderActionsModal(a.width, contentH)
	}

	return content + "\n" + a.renderFooter()
}

// renderDashboard paints the title rows and the workload grid into a block
// of exactly height lines.
func (a App) renderDashboard(width, height int) string {
	lines := make([]string, height)

	title := lipgloss.NewStyle().Foreground(a.theme.Accent).Bold(true)
	if height > 0 {
		lines[0] = title.Render(Truncate(dashboardTitle, width))
	}
	if height > 1 {
		lines[1] = title.Render(strings.Repeat("─", min(len(dashboardTitle), width)))
	}
	// Row 2 stays blank, the grid starts at gridTop.

	for row, text := range a.renderGridRows(width) {
		if gridTop+row < height {
			lines[gridTop+row] = text
		}
	}

	return strings.Join(lines, "\n")
}

// renderGridRows lays the visible window out into columns and returns one
// string per grid row. Cells are fixed-width; columns that would overflow
// the terminal are dropped.
func (a App) renderGridRows(width int) []string {
	rowsPer := a.cfg.Grid.RowsPerColumn
	if rowsPer > a.vp.MaxLines {
		rowsPer = a.vp.MaxLines
	}
	if rowsPer < 1 {
		rowsPer = 1
	}
	colWidth := a.cfg.Grid.ColumnWidth

	end := a.vp.Top + a.vp.MaxLines
	if end > len(a.workloads) {
		end = len(a.workloads)
	}

	rows := make([]string, rowsPer)
	for i := a.vp.Top; i < end; i++ {
		slot := Place(i-a.vp.Top, rowsPer, colWidth)
		if slot.Col+colWidth > width {
			continue
		}
		row := slot.Row - gridTop

		w := a.workloads[i]
		cell := padRight(" "+w.Name, colWidth)
		if i == a.vp.Absolute() {
			cell = lipgloss.NewStyle().Reverse(true).Bold(true).Render(cell)
		} else {
			color := a.theme.HealthColor(docker.ClassifyHealth(w.Health))
			cell = lipgloss.NewStyle().Foreground(color).Bold(true).Render(cell)
		}

		if pad := slot.Col - lipgloss.Width(rows[row]); pad > 0 {
			rows[row] += strings.Repeat(" ", pad)
		}
		rows[row] += cell
	}
	return rows
}

// healthCounts tallies workloads per health category.
type healthCounts struct {
	up       int
	starting int
	down     int
	absent   int
}

func countHealth(workloads []docker.Workload) healthCounts {
	var c healthCounts
	for _, w := range workloads {
		switch docker.ClassifyHealth(w.Health) {
		case docker.HealthUp:
			c.up++
		case docker.HealthStarting:
			c.starting++
		case docker.HealthDown:
			c.down++
		default:
			c.absent++
		}
	}
	return c
}

func (a App) renderFooter() string {
	t := &a.theme
	bold := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}

	c := countHealth(a.workloads)
	parts := []string{
		bold(t.Healthy).Render(fmt.Sprintf("%d UP", c.up)),
		bold(t.Warning).Render(fmt.Sprintf("%d RESTART", c.starting)),
		bold(t.Critical).Render(fmt.Sprintf("%d DOWN", c.down)),
		bold(t.Muted).Render(fmt.Sprintf("%d NONE", c.absent)),
	}
	footer := strings.Join(parts, "  ")

	if a.fetchFails >= fetchFailThreshold {
		footer += "  " + bold(t.Critical).Render(fmt.Sprintf("DOCKER UNREACHABLE (%d polls)", a.fetchFails))
	}

	if a.last != nil {
		sep := lipgloss.NewStyle().Foreground(t.Muted).Render(" | ")
		action := "LAST ACTION: RESTART INITIATED ON CONTAINER " + a.last.name
		style := bold(t.Fg)
		if a.last.failed {
			action = "LAST ACTION: RESTART FAILED FOR CONTAINER " + a.last.name
			style = bold(t.Critical)
		}
		footer += sep + style.Render(action)
	}

	hints := lipgloss.NewStyle().Foreground(t.Muted).Render("? Help")
	footer += "  " + hints

	return TruncateStyled(footer, a.width)
}

// Box renders a bordered panel with a title using rounded corners. Content
// is padded to fill width×height (including borders).
func Box(title, content string, width, height int, theme *Theme) string {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}

	innerW := width - 2

	var top string
	if title != "" {
		titleStr := " " + title + " "
		titleLen := lipgloss.Width(titleStr)
		if titleLen > innerW-2 {
			titleStr = Truncate(titleStr, innerW-2)
			titleLen = lipgloss.Width(titleStr)
		}
		styled := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(titleStr)
		trailing := innerW - 1 - titleLen
		if trailing < 0 {
			trailing = 0
		}
		top = "╭─" + styled + strings.Repeat("─", trailing) + "╮"
	} else {
		top = "╭" + strings.Repeat("─", innerW) + "╮"
	}

	lines := strings.Split(content, "\n")
	innerH := height - 2
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteByte('\n')
	for _, line := range lines {
		lineW := lipgloss.Width(line)
		pad := innerW - lineW
		if pad < 0 {
			pad = 0
			line = TruncateStyled(line, innerW)
		}
		b.WriteString("│")
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString("│\n")
	}
	b.WriteString("╰")
	b.WriteString(strings.Repeat("─", innerW))
	b.WriteString("╯")

	return b.String()
}

func helpOverlay(width, height int, theme *Theme) string {
	bindings := []struct{ key, label string }{
		{"↑/↓ ←/→", "move the cursor, wrap by column"},
		{"pgup/pgdn", "page by whole windows"},
		{"enter", "restart the selected container"},
		{"a", "recent restarts"},
		{"?", "toggle this help"},
		{"esc/q", "quit"},
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	var lines []string
	for _, b := range bindings {
		lines = append(lines, " "+keyStyle.Render(padRight(b.key, 11))+" "+b.label)
	}

	modalW := 48
	if modalW > width-4 {
		modalW = width - 4
	}
	modal := Box("Keys", strings.Join(lines, "\n"), modalW, len(lines)+2, theme)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) renderActionsModal(width, height int) string {
	muted := lipgloss.NewStyle().Foreground(a.theme.Muted)

	var lines []string
	if len(a.recent) == 0 {
		lines = append(lines, muted.Render(" no restarts recorded"))
	}
	for _, act := range a.recent {
		line := " " + muted.Render(act.Timestamp.Format("2006-01-02 15:04:05")) + "  " + act.Name
		if act.Outcome != "" {
			line += " " + lipgloss.NewStyle().Foreground(a.theme.Critical).Render("failed")
		}
		lines = append(lines, line)
	}

	modalW := 56
	if modalW > width-4 {
		modalW = width - 4
	}
	modalH := len(lines) + 2
	if modalH > height-2 {
		modalH = height - 2
	}
	modal := Box("Recent restarts", strings.Join(lines, "\n"), modalW, modalH, &a.theme)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
