package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pipedeck/internal/pipelineapi"
)

// Messages

type pipelinesLoadedMsg struct {
	seq       uint64
	pipelines []pipelineapi.PipelineSummary
	err       error
}

type createdMsg struct {
	question string
	resp     *pipelineapi.CreateResponse
	err      error
}

type deletedMsg struct {
	id   string
	name string
	err  error
}

type toastExpiredMsg struct{ id int }

type pulseDoneMsg struct{ seq int }

// Commands

// loadPipelines starts a list load. Only the most recently started load is
// applied when loads overlap.
func (m Model) loadPipelines() tea.Cmd {
	ctx, api, n := m.ctx, m.api, m.fetchN
	seq := m.ctrl.NextListLoad()
	return func() tea.Msg {
		items, err := pipelineapi.LoadSummaries(ctx, api, n)
		return pipelinesLoadedMsg{seq: seq, pipelines: items, err: err}
	}
}

func createCmd(ctx context.Context, api pipelineapi.API, question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.CreatePipeline(ctx, question)
		return createdMsg{question: question, resp: resp, err: err}
	}
}

func deleteCmd(ctx context.Context, api pipelineapi.API, id, name string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, name: name, err: api.DeletePipeline(ctx, id)}
	}
}

func toastExpiryCmd(id int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func pulseCmd(seq int) tea.Cmd {
	return tea.Tick(pulseDuration, func(time.Time) tea.Msg {
		return pulseDoneMsg{seq: seq}
	})
}
