package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/prefs"
	"github.com/five82/pipedeck/internal/present"
	"github.com/five82/pipedeck/internal/viewstate"
)

// handleKey processes keyboard input. While the create form has focus every
// key that is not a global binding goes to the text area.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.New):
		cmd := m.openForm("")
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		cmd := m.back()
		return m, cmd
	case key.Matches(msg, m.keys.Tab):
		cmd := m.toggleFocus()
		return m, cmd
	case key.Matches(msg, m.keys.Submit) && m.ctrl.View() == viewstate.ViewCreateForm:
		cmd := m.submit()
		return m, cmd
	}

	if m.typing() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadPipelines()
	case key.Matches(msg, m.keys.Delete):
		m.askDelete()
		return m, nil
	case key.Matches(msg, m.keys.CopyDDL):
		cmd := m.copyDDL()
		return m, cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	switch m.ctrl.View() {
	case viewstate.ViewWelcome:
		return m.handleWelcomeKey(msg)
	case viewstate.ViewDetails:
		return m.handleDetailsKey(msg)
	}
	return m, nil
}

func (m Model) typing() bool {
	return m.ctrl.View() == viewstate.ViewCreateForm && m.focus == focusPanel
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sidebarEntries()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor >= 0 && m.cursor < len(entries) {
			cmd := m.openDetails(entries[m.cursor].ID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.ToggleDDL):
		if m.ctrl.View() == viewstate.ViewWelcome {
			return m.handleWelcomeKey(msg)
		}
		return m.handleDetailsKey(msg)
	}
	return m, nil
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx, ok := digit(msg); ok && idx < len(examplePrompts) {
		cmd := m.openForm(examplePrompts[idx])
		return m, cmd
	}
	return m, nil
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if idx, ok := digit(msg); ok {
		m.toggleDDL(idx)
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if !m.ctrl.IsCurrent(m.confirmID) {
			m.clearConfirm()
			return m, nil
		}
		m.confirmDelete = false
		m.deleting = true
		return m, deleteCmd(m.ctx, m.api, m.confirmID, m.confirmName)
	case key.Matches(msg, m.keys.Cancel):
		m.clearConfirm()
	}
	return m, nil
}

// digit maps the keys 1-3 to 0-2.
func digit(msg tea.KeyMsg) (int, bool) {
	switch msg.String() {
	case "1":
		return 0, true
	case "2":
		return 1, true
	case "3":
		return 2, true
	}
	return 0, false
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusSidebar {
		m.focus = focusPanel
		if m.ctrl.View() == viewstate.ViewCreateForm {
			return m.input.Focus()
		}
		return nil
	}
	m.focus = focusSidebar
	m.input.Blur()
	return nil
}

func (m *Model) back() tea.Cmd {
	m.input.Blur()
	m.focus = focusSidebar
	cmd := m.ctrl.Back()
	m.dropStaleConfirm()
	return cmd
}

func (m *Model) clearConfirm() {
	m.confirmDelete = false
	m.confirmID, m.confirmName = "", ""
}

// dropStaleConfirm cancels a pending delete prompt once its pipeline is no
// longer the one on screen.
func (m *Model) dropStaleConfirm() {
	if m.confirmDelete && !m.ctrl.IsCurrent(m.confirmID) {
		m.clearConfirm()
	}
}

func (m *Model) openForm(prefill string) tea.Cmd {
	cmd := m.ctrl.ShowCreateForm()
	if prefill != "" {
		m.input.SetValue(prefill)
		m.input.CursorEnd()
	}
	m.focus = focusPanel
	return tea.Batch(cmd, m.input.Focus())
}

func (m *Model) openDetails(id string) tea.Cmd {
	m.input.Blur()
	cmd := m.ctrl.ShowDetails(id)
	m.expanded = make(map[int]bool)
	m.pulse = false
	m.refreshDetails()
	m.viewport.GotoTop()
	return cmd
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			log.Warn().Err(err).Msg("save prefs failed")
		}
	}
	m.refreshDetails()
}

func (m *Model) toggleDDL(idx int) {
	if m.ctrl.Detail() == nil {
		return
	}
	if idx >= len(present.Details(*m.ctrl.Detail()).DDL) {
		return
	}
	m.expanded[idx] = !m.expanded[idx]
	m.refreshDetails()
}

func (m *Model) askDelete() {
	if m.ctrl.View() != viewstate.ViewDetails || m.deleting {
		return
	}
	id := m.ctrl.CurrentID()
	name := id
	if d := m.ctrl.Detail(); d != nil {
		name = present.Details(*d).Name
	} else if p, ok := m.ctrl.Pipelines().Find(id); ok && p.Name != "" {
		name = p.Name
	}
	m.confirmDelete = true
	m.confirmID = id
	m.confirmName = name
}

// submit validates the question and sends it. Only one create runs at a time.
func (m *Model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m.pushToast(toastError, "Please fill in all required fields")
	}
	m.submitting = true
	return tea.Batch(createCmd(m.ctx, m.api, question), m.spinner.Tick)
}

func (m Model) handlePipelinesLoaded(msg pipelinesLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.SetPipelines(msg.seq, msg.pipelines, msg.err) {
		return m, nil
	}
	if n := len(m.ctrl.Pipelines().Pipelines); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if msg.err != nil {
		cmd := m.pushToast(toastError, "Error loading pipelines: "+pipelineapi.Detail(msg.err))
		return m, cmd
	}
	return m, nil
}

func (m Model) handleDetailLoaded(msg viewstate.DetailLoadedMsg) (tea.Model, tea.Cmd) {
	applied, cmd, err := m.ctrl.ApplyDetail(msg)
	if err != nil {
		m.dropStaleConfirm()
		m.expanded = make(map[int]bool)
		m.refreshDetails()
		toastCmd := m.pushToast(toastError, errorText("loading pipeline", err))
		return m, tea.Batch(cmd, toastCmd)
	}
	if !applied {
		return m, nil
	}
	m.expanded = make(map[int]bool)
	if m.prefs.ExpandDDL {
		for i := range present.Details(*m.ctrl.Detail()).DDL {
			m.expanded[i] = true
		}
	}
	m.refreshDetails()
	m.viewport.GotoTop()
	return m, nil
}

func (m Model) handleWriteCount(msg viewstate.WriteCountMsg) (tea.Model, tea.Cmd) {
	updated, next := m.ctrl.ApplyWriteCount(msg)
	if !updated {
		m.refreshDetails()
		return m, next
	}
	m.pulse = true
	m.pulseSeq++
	m.refreshDetails()
	return m, tea.Batch(next, pulseCmd(m.pulseSeq))
}

func (m Model) handleCreated(msg createdMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		cmd := m.pushToast(toastError, errorText("creating pipeline", msg.err))
		return m, cmd
	}
	name := msg.resp.Name
	if name == "" {
		name = msg.question
	}
	cmds := []tea.Cmd{
		m.pushToast(toastSuccess, fmt.Sprintf("Pipeline \"%s\" created successfully!", name)),
		m.loadPipelines(),
	}
	m.input.Reset()
	if msg.resp.ID != "" && m.ctrl.View() == viewstate.ViewCreateForm {
		cmds = append(cmds, m.openDetails(msg.resp.ID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	m.clearConfirm()
	if msg.err != nil {
		cmd := m.pushToast(toastError, errorText("deleting pipeline", msg.err))
		return m, cmd
	}
	cmds := []tea.Cmd{
		m.pushToast(toastSuccess, fmt.Sprintf("Pipeline \"%s\" deleted successfully!", msg.name)),
		m.loadPipelines(),
	}
	if m.ctrl.IsCurrent(msg.id) {
		cmds = append(cmds, m.ctrl.ShowWelcome())
	}
	return m, tea.Batch(cmds...)
}
