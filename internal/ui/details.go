package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/five82/pipedeck/internal/present"
	"github.com/five82/pipedeck/internal/viewstate"
)

// refreshDetails re-renders the details viewport from controller state.
func (m *Model) refreshDetails() {
	m.viewport.SetContent(m.detailsContent())
}

func (m Model) detailsContent() string {
	styles := m.theme.Styles()
	width := max(m.viewport.Width, 20)

	d := m.ctrl.Detail()
	if d == nil {
		if id := m.ctrl.CurrentID(); id != "" {
			return styles.MutedText.Render("Loading pipeline " + id + "...")
		}
		return ""
	}
	model := present.Details(*d)

	var b strings.Builder
	b.WriteString(styles.Title.Render(model.Name))
	b.WriteString("\n")
	idLine := model.ID
	if p, ok := m.ctrl.Pipelines().Find(d.ID); ok {
		if created := present.FormatCreated(p.CreatedAt, time.Now()); created != "" {
			idLine += " · created " + created
		}
	}
	b.WriteString(styles.FaintText.Render(idLine))
	b.WriteString("\n\n")

	count := present.FormatCount(m.ctrl.WriteCount())
	if m.pulse {
		count = styles.Pulse.Render(" " + count + " ")
	} else {
		count = styles.SuccessText.Render(count)
	}
	b.WriteString(styles.MutedText.Render("Writes  ") + count)
	b.WriteString("\n")
	b.WriteString(m.pollStatus())
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Render("Description"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(model.Description))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Render("Components"))
	b.WriteString("\n")
	if len(model.Components) == 0 {
		b.WriteString(styles.FaintText.Render("  none"))
		b.WriteString("\n")
	}
	for _, c := range model.Components {
		fmt.Fprintf(&b, "  %s %s\n", styles.MutedText.Render(fmt.Sprintf("%-18s", c.Kind)), c.Name)
	}

	if len(model.DDL) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render("DDL"))
		b.WriteString("\n")
	}
	for i, block := range model.DDL {
		arrow := "▸"
		if m.expanded[i] {
			arrow = "▾"
		}
		fmt.Fprintf(&b, "%s %s %s\n", styles.MutedText.Render(fmt.Sprintf("[%d]", i+1)), arrow, block.Title)
		if m.expanded[i] {
			b.WriteString(m.ddl.Render(block.Content, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) pollStatus() string {
	styles := m.theme.Styles()
	var parts []string
	if t := m.ctrl.LastRefresh(); !t.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+t.Format("15:04:05")))
	}
	if n := m.ctrl.PollFailures(); n > 0 {
		word := "failures"
		if n == 1 {
			word = "failure"
		}
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%d refresh %s", n, word)))
	}
	return strings.Join(parts, styles.FaintText.Render(" · "))
}

// copyDDL puts every DDL block of the open pipeline on the clipboard.
func (m *Model) copyDDL() tea.Cmd {
	d := m.ctrl.Detail()
	if m.ctrl.View() != viewstate.ViewDetails || d == nil {
		return nil
	}
	blocks := present.Details(*d).DDL
	if len(blocks) == 0 {
		return m.pushToast(toastError, "No DDL to copy")
	}
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, strings.TrimRight(block.Content, "\n"))
	}
	if err := m.copyText(strings.Join(parts, "\n\n")); err != nil {
		log.Warn().Err(err).Msg("clipboard write failed")
		return m.pushToast(toastError, "Clipboard unavailable")
	}
	return m.pushToast(toastSuccess, "DDL copied to clipboard")
}
