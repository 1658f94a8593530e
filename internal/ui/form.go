package ui

import "strings"

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Title.Render("Create a pipeline"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Describe the data you want generated and where it should go."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.spinner.View() + " Creating pipeline...")
	} else {
		b.WriteString(styles.FaintText.Render("ctrl+s create · esc cancel · tab focus sidebar"))
	}
	return b.String()
}
