package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/prefs"
	"github.com/five82/pipedeck/internal/viewstate"
)

const (
	sidebarWidth  = 34
	toastTTL      = 4 * time.Second
	maxToasts     = 3
	pulseDuration = 600 * time.Millisecond
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusPanel
)

// Options configures the UI.
type Options struct {
	Context          context.Context
	API              pipelineapi.API
	APIURL           string // shown in the header
	PollInterval     time.Duration
	PollBackoff      bool
	FetchConcurrency int
	Prefs            prefs.Prefs
	PrefsPath        string // empty disables saving preferences
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	api       pipelineapi.API
	apiURL    string
	ctrl      *viewstate.Controller
	prefs     prefs.Prefs
	prefsPath string
	fetchN    int

	keys     keyMap
	help     help.Model
	theme    Theme
	ddl      *ddlRenderer
	copyText func(string) error

	width  int
	height int
	ready  bool
	focus  focusArea

	cursor int

	// Create form
	input      textarea.Model
	spinner    spinner.Model
	submitting bool

	// Details
	viewport viewport.Model
	expanded map[int]bool
	pulse    bool
	pulseSeq int

	// Delete confirmation
	confirmDelete bool
	confirmID     string
	confirmName   string
	deleting      bool

	toasts   []toast
	toastSeq int

	showHelp bool
}

// New creates the root model. The controller starts on Welcome with no timer.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	fetchN := opts.FetchConcurrency
	if fetchN <= 0 {
		fetchN = pipelineapi.DefaultFetchConcurrency
	}

	input := textarea.New()
	input.Placeholder = "Describe the pipeline you want, e.g. \"count events per minute\""
	input.ShowLineNumbers = false
	input.CharLimit = 4096
	input.SetHeight(6)
	input.Blur()

	return Model{
		ctx:       ctx,
		api:       opts.API,
		apiURL:    opts.APIURL,
		ctrl:      viewstate.New(ctx, opts.API, viewstate.Options{PollInterval: opts.PollInterval, PollBackoff: opts.PollBackoff}),
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		fetchN:    fetchN,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.Prefs.Theme),
		ddl:       newDDLRenderer(opts.Prefs.PlainDDL),
		copyText:  clipboard.WriteAll,
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:  viewport.New(0, 0),
		expanded:  make(map[int]bool),
	}
}

// Controller exposes the view state, mainly for tests.
func (m Model) Controller() *viewstate.Controller {
	return m.ctrl
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadPipelines()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pipelinesLoadedMsg:
		return m.handlePipelinesLoaded(msg)

	case viewstate.DetailLoadedMsg:
		return m.handleDetailLoaded(msg)

	case viewstate.PollTickMsg:
		return m, m.ctrl.HandleTick(msg)

	case viewstate.WriteCountMsg:
		return m.handleWriteCount(msg)

	case pulseDoneMsg:
		if msg.seq == m.pulseSeq {
			m.pulse = false
			m.refreshDetails()
		}
		return m, nil

	case createdMsg:
		return m.handleCreated(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	}

	if m.ctrl.View() == viewstate.ViewCreateForm && m.focus == focusPanel {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// NewProgram builds the Bubble Tea program for opts. Extra options are
// appended after the alternate screen.
func NewProgram(opts Options, programOpts ...tea.ProgramOption) *tea.Program {
	all := append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	return tea.NewProgram(New(opts), all...)
}
