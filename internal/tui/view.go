package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"colfm/internal/dirlist"
	"colfm/internal/tui/components"
	"colfm/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// rows is the height left for the columns after the header, the status line
// and the help block.
func (m *Model) rows() int {
	rows := m.height - 2
	if m.showHelp {
		rows -= lipgloss.Height(m.help.View(m.keys))
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// columnWidths splits the terminal width by the configured ratio. The last
// column takes the rounding remainder.
func (m *Model) columnWidths() (int, int, int) {
	ratio := m.ctx.Config.Display.ColumnRatio
	if len(ratio) != 3 {
		ratio = []int{1, 3, 3}
	}
	sum := ratio[0] + ratio[1] + ratio[2]
	if sum <= 0 || m.width <= 0 {
		return 0, 0, 0
	}
	p := m.width * ratio[0] / sum
	c := m.width * ratio[1] / sum
	return p, c, m.width - p - c
}

// layout sizes the columns and scrolls them so their cursors stay visible.
func (m *Model) layout() {
	if len(m.ctx.Tabs) == 0 {
		return
	}
	rows := m.rows()
	pw, cw, vw := m.columnWidths()
	// One cell of each column is padding.
	m.parent.SetSize(max(pw-1, 0), rows)
	m.current.SetSize(max(cw-1, 0), rows)
	m.preview.SetSize(max(vw-1, 0), rows)

	margin := m.ctx.Config.Display.ScrollOffset
	tab := m.ctx.CurrentTab()
	for _, col := range []*dirlist.Column{tab.Parent(), tab.Current(), tab.Preview()} {
		if col != nil {
			col.EnsureCursorVisible(rows, margin)
		}
	}
}

// refreshStatus fills the status bar. A notice stays until the next key
// press; otherwise the line describes the entry under the cursor.
func (m *Model) refreshStatus() {
	if len(m.ctx.Tabs) == 0 {
		return
	}
	tab := m.ctx.CurrentTab()
	col := tab.Current()
	if !m.notice {
		text := ""
		if entry, ok := tab.CurrentEntry(); ok {
			text = components.EntryInfo(entry)
		}
		m.status.SetText(text)
	}
	pos := ""
	if col != nil && col.Len() > 0 {
		pos = fmt.Sprintf("%d/%d", col.Cursor+1, col.Len())
		if sel := len(col.Selected()); sel > 0 {
			pos = fmt.Sprintf("%d sel  %s", sel, pos)
		}
	}
	m.status.SetRight(strings.TrimSpace(m.progress() + "  " + pos))
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 || len(m.ctx.Tabs) == 0 {
		return ""
	}

	sections := []string{m.header(), m.body()}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	sections = append(sections, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) header() string {
	var tabs []string
	for i, t := range m.ctx.Tabs {
		name := filepath.Base(t.Path)
		style := styles.Theme.Tab
		if i == m.ctx.CurrTab {
			style = styles.Theme.ActiveTab
		}
		tabs = append(tabs, style.Render(name))
	}
	bar := strings.Join(tabs, "")
	room := m.width - lipgloss.Width(bar) - 1
	path := ""
	if room > 0 {
		path = styles.Theme.Title.Render(runewidth.Truncate(m.ctx.CurrentTab().Path, room, "~"))
	}
	return path + " " + bar
}

func (m *Model) body() string {
	tab := m.ctx.CurrentTab()
	cols := []string{
		styles.Theme.Column.Render(m.parent.View(tab.Parent())),
		styles.Theme.Column.Render(m.current.View(tab.Current())),
	}

	var preview string
	if entry, ok := tab.CurrentEntry(); ok && !entry.IsDir() {
		preview = m.preview.Info(entry)
	} else {
		preview = m.preview.View(tab.Preview())
	}
	cols = append(cols, styles.Theme.Column.Render(preview))
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) footer() string {
	if m.mode == modeCommand {
		return styles.Theme.Prompt.Render(m.input.View())
	}
	return m.status.View(m.width)
}
