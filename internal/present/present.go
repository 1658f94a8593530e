// Package present turns pipeline payloads into render models for the sidebar
// and the details panel. Nothing here does I/O.
package present

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"

	"github.com/five82/pipedeck/internal/pipelineapi"
)

// Component kinds as shown in the details panel.
const (
	KindRandomStream     = "Random Stream"
	KindKafkaStream      = "Kafka Stream"
	KindMaterializedView = "Materialized View"
)

// Fallback text for missing detail fields.
const (
	UnknownName   = "Unknown Pipeline"
	UnknownID     = "Unknown ID"
	NoDescription = "No description available"
	EmptySidebar  = "No pipelines yet"
)

// SidebarEntry is one row of the pipeline list.
type SidebarEntry struct {
	ID         string
	Name       string
	Preview    string
	WriteCount int64
	Badge      string // formatted count; empty when the count is zero
	Active     bool
}

// Sidebar keeps the list endpoint's order and marks the entry whose id is
// currentID.
func Sidebar(pipelines []pipelineapi.PipelineSummary, currentID string) []SidebarEntry {
	entries := make([]SidebarEntry, 0, len(pipelines))
	for _, p := range pipelines {
		entry := SidebarEntry{
			ID:         p.ID,
			Name:       p.Name,
			Preview:    p.Question,
			WriteCount: p.WriteCount,
			Active:     currentID != "" && p.ID == currentID,
		}
		if p.WriteCount > 0 {
			entry.Badge = FormatCount(p.WriteCount)
		}
		entries = append(entries, entry)
	}
	return entries
}

// ComponentRow names one generated component.
type ComponentRow struct {
	Name string
	Kind string
}

// DDLBlock is one collapsible block of DDL text.
type DDLBlock struct {
	Title   string
	Content string
}

// DetailsModel is everything the details panel renders.
type DetailsModel struct {
	ID          string
	Name        string
	Description string
	WriteCount  string
	Components  []ComponentRow
	DDL         []DDLBlock
}

type slot struct {
	component *pipelineapi.Component
	kind      string
	ddlTitle  string
}

// Details builds the details render model. Components need a name and DDL
// blocks need text; each is checked on its own, so a pipeline can list a
// component without DDL and the reverse.
func Details(d pipelineapi.PipelineDetail) DetailsModel {
	model := DetailsModel{
		ID:          fallback(d.ID, UnknownID),
		Name:        fallback(d.Name, UnknownName),
		Description: fallback(d.Question(), NoDescription),
		WriteCount:  FormatCount(d.WriteCount),
		Components:  []ComponentRow{},
		DDL:         []DDLBlock{},
	}
	if d.Pipeline == nil {
		return model
	}
	slots := []slot{
		{d.Pipeline.RandomStream, KindRandomStream, "Random Stream DDL"},
		{d.Pipeline.KafkaExternalStream, KindKafkaStream, "Kafka External Stream DDL"},
		{d.Pipeline.WriteToKafkaMV, KindMaterializedView, "Materialized View DDL"},
	}
	for _, s := range slots {
		if s.component == nil {
			continue
		}
		if s.component.Name != "" {
			model.Components = append(model.Components, ComponentRow{Name: s.component.Name, Kind: s.kind})
		}
		if s.component.DDL != "" {
			model.DDL = append(model.DDL, DDLBlock{Title: s.ddlTitle, Content: s.component.DDL})
		}
	}
	return model
}

// FormatCount renders a write count with thousands separators. Negative
// values render as 0.
func FormatCount(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Comma(n)
}

// FormatCreated renders a created_at stamp relative to now ("3 hours ago").
// The server stores UTC without a zone. Unparseable or empty input yields "".
func FormatCreated(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	created, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return ""
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
