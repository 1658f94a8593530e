package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pipedeck/internal/viewstate"
)

// renderMain renders header, sidebar plus active panel, and footer.
func (m Model) renderMain() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderPanel())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) bodyHeight() int {
	return max(m.height-2, 3)
}

func (m Model) panelWidth() int {
	return max(m.width-sidebarWidth, 20)
}

// panelInner returns the content size inside the panel border and padding.
func (m Model) panelInner() (int, int) {
	return max(m.panelWidth()-4, 10), max(m.bodyHeight()-2, 1)
}

func (m *Model) resize() {
	w, h := m.panelInner()
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.SetWidth(w)
	m.help.Width = m.width
	m.refreshDetails()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	left := styles.Title.Render("pipedeck") + " " + styles.MutedText.Render(m.apiURL)

	snap := m.ctrl.Pipelines()
	var status string
	switch {
	case snap.IsOffline():
		status = styles.DangerText.Render("offline")
	case !snap.Loaded && snap.LastError == nil:
		status = styles.MutedText.Render("connecting...")
	default:
		status = styles.MutedText.Render(fmt.Sprintf("%d pipelines", len(snap.Pipelines)))
	}
	if m.ctrl.Polling() {
		if n := m.ctrl.PollFailures(); n > 0 {
			status = styles.WarningText.Render(fmt.Sprintf("● retrying (%d)", n)) + "  " + status
		} else {
			status = styles.SuccessText.Render("● live") + "  " + status
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + status)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var content string
	switch {
	case m.confirmDelete:
		content = styles.WarningText.Render(fmt.Sprintf(
			"Are you sure you want to delete \"%s\"? This action cannot be undone. [y/N]", m.confirmName))
	case m.deleting:
		content = "Deleting..."
	case len(m.toasts) > 0:
		content = m.renderToasts()
	default:
		content = m.help.View(m.keys)
	}
	return styles.Footer.Width(m.width).Render(content)
}

func (m Model) renderPanel() string {
	styles := m.theme.Styles()
	pane := styles.Pane
	if m.focus == focusPanel {
		pane = styles.PaneFocus
	}
	w, h := m.panelInner()

	var content string
	switch m.ctrl.View() {
	case viewstate.ViewCreateForm:
		content = m.renderForm()
	case viewstate.ViewDetails:
		content = m.viewport.View()
	default:
		content = m.renderWelcome()
	}
	return pane.Width(w + 2).Height(h).Render(content)
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	h := m.help
	h.ShowAll = true
	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Press any key to close"))
	return styles.Pane.Width(max(m.width-2, 20)).Render(b.String())
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
