package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/viewstate"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// pushToast shows text and returns the command that dismisses it.
func (m *Model) pushToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	m.toasts = append(m.toasts, toast{id: m.toastSeq, kind: kind, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	if kind == toastError {
		log.Info().Str("toast", text).Msg("error shown")
	}
	return toastExpiryCmd(m.toastSeq)
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// errorText words a failed action for a toast. Server answers show their
// detail; transport failures name the action.
func errorText(action string, err error) string {
	if errors.Is(err, viewstate.ErrInvalidPipeline) {
		return "Invalid pipeline data received"
	}
	var remote *pipelineapi.RemoteError
	if errors.As(err, &remote) && remote.Status != pipelineapi.StatusNone {
		return "Error: " + remote.Detail
	}
	return fmt.Sprintf("Error %s: %s", action, pipelineapi.Detail(err))
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	parts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := styles.ToastInfo
		if t.kind == toastError {
			style = styles.ToastError
		}
		parts = append(parts, style.Render(t.text))
	}
	return strings.Join(parts, " ")
}
