package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pipedeck/internal/present"
)

func (m Model) sidebarEntries() []present.SidebarEntry {
	return present.Sidebar(m.ctrl.Pipelines().Pipelines, m.ctrl.CurrentID())
}

// renderSidebar draws two lines per pipeline and scrolls to keep the cursor
// visible.
func (m Model) renderSidebar() string {
	styles := m.theme.Styles()
	pane := styles.Pane
	if m.focus == focusSidebar {
		pane = styles.PaneFocus
	}
	inner := sidebarWidth - 4
	height := max(m.bodyHeight()-2, 1)

	var b strings.Builder
	b.WriteString(styles.Title.Render("Pipelines"))
	b.WriteString("\n")

	entries := m.sidebarEntries()
	if len(entries) == 0 {
		b.WriteString(styles.FaintText.Render(present.EmptySidebar))
		return pane.Width(inner + 2).Height(height).Render(b.String())
	}

	visible := max((height-1)/2, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(entries))

	for i := start; i < end; i++ {
		e := entries[i]
		marker := "  "
		if e.Active {
			marker = styles.AccentText.Render("▌ ")
		}
		badge := ""
		if e.Badge != "" {
			badge = styles.Badge.Render(e.Badge)
		}
		nameWidth := inner - 2 - lipgloss.Width(badge) - 1
		name := truncate(e.Name, nameWidth)
		pad := max(inner-2-lipgloss.Width(name)-lipgloss.Width(badge), 1)

		line := name + strings.Repeat(" ", pad) + badge
		preview := truncate(e.Preview, inner-2)
		if i == m.cursor && m.focus == focusSidebar {
			line = styles.Selected.Render(line)
		} else if e.Active {
			line = styles.AccentText.Render(name) + strings.Repeat(" ", pad) + badge
		}
		b.WriteString(marker + line + "\n")
		b.WriteString("  " + styles.MutedText.Render(preview))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return pane.Width(inner + 2).Height(height).Render(b.String())
}
