package ui

import (
	"fmt"
	"strings"
)

var examplePrompts = []string{
	"Generate a stream of e-commerce orders and count orders per minute",
	"Simulate IoT temperature sensors and flag readings above 80 degrees",
	"Produce website click events and write them to a Kafka topic",
}

func (m Model) renderWelcome() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Title.Render("Welcome to pipedeck"))
	b.WriteString("\n\n")
	b.WriteString("Pipelines turn a plain-language question into a random stream,\n")
	b.WriteString("a Kafka external stream and a materialized view that writes to it.\n\n")
	b.WriteString(styles.AccentText.Render("Try an example"))
	b.WriteString("\n")
	for i, prompt := range examplePrompts {
		fmt.Fprintf(&b, "%s %s\n", styles.MutedText.Render(fmt.Sprintf("[%d]", i+1)), prompt)
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("ctrl+n new pipeline · enter open selected · ? help"))
	return b.String()
}
