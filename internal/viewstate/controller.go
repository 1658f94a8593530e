package viewstate

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/five82/pipedeck/internal/pipelineapi"
	"github.com/five82/pipedeck/internal/state"
)

// ErrInvalidPipeline is returned when a details payload has no pipeline spec.
var ErrInvalidPipeline = errors.New("invalid pipeline data received")

// Fetcher is the part of the API the controller calls itself.
type Fetcher interface {
	GetPipeline(ctx context.Context, id string) (*pipelineapi.PipelineDetail, error)
}

// Options configure a Controller.
type Options struct {
	PollInterval time.Duration // zero uses DefaultPollInterval
	PollBackoff  bool
}

type location struct {
	view View
	id   string
}

// Controller owns which view is active, which pipeline is current, the
// details poller and the cached pipeline list. It is driven from a single
// goroutine (the Bubble Tea update loop) and needs no locking.
type Controller struct {
	ctx    context.Context
	api    Fetcher
	poller *Poller
	store  *state.Store

	view        View
	current     string
	prev        location
	loadSeq     uint64
	listSeq     uint64
	detail      *pipelineapi.PipelineDetail
	writeCount  int64
	lastRefresh time.Time

	transitions map[View]func(id string) tea.Cmd
}

// New builds a controller in its initial state: Welcome, nothing current,
// no timer.
func New(ctx context.Context, api Fetcher, opts Options) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Controller{
		ctx:    ctx,
		api:    api,
		poller: NewPoller(ctx, opts.PollInterval, opts.PollBackoff),
		store:  &state.Store{},
	}
	c.transitions = map[View]func(string) tea.Cmd{
		ViewWelcome:    func(string) tea.Cmd { return c.ShowWelcome() },
		ViewCreateForm: func(string) tea.Cmd { return c.ShowCreateForm() },
		ViewDetails:    c.ShowDetails,
	}
	c.Reset()
	return c
}

// View returns the active view.
func (c *Controller) View() View { return c.view }

// CurrentID returns the current pipeline id; empty unless Details is active.
func (c *Controller) CurrentID() string { return c.current }

// Detail returns the loaded details for the current pipeline, if any.
func (c *Controller) Detail() *pipelineapi.PipelineDetail { return c.detail }

// WriteCount returns the latest write count for the current pipeline.
func (c *Controller) WriteCount() int64 { return c.writeCount }

// LastRefresh returns when the write count last changed hands.
func (c *Controller) LastRefresh() time.Time { return c.lastRefresh }

// Polling reports whether the details timer is live.
func (c *Controller) Polling() bool { return c.poller.Running() }

// PollHandle exposes the live timer handle.
func (c *Controller) PollHandle() uint64 { return c.poller.Handle() }

// PollFailures returns consecutive refresh failures for the current pipeline.
func (c *Controller) PollFailures() int { return c.poller.Failures() }

// PollDelay returns the wait before the next poll tick.
func (c *Controller) PollDelay() time.Duration { return c.poller.Delay() }

// Store returns the pipeline cache.
func (c *Controller) Store() *state.Store { return c.store }

// Pipelines returns a snapshot of the pipeline cache.
func (c *Controller) Pipelines() state.Snapshot { return c.store.Snapshot() }

// NextListLoad reserves the sequence number for a new list load.
func (c *Controller) NextListLoad() uint64 {
	c.listSeq++
	return c.listSeq
}

// SetPipelines records the outcome of the list load issued as seq. Only the
// latest load is applied; an earlier one finishing late is dropped and false
// is returned.
func (c *Controller) SetPipelines(seq uint64, pipelines []pipelineapi.PipelineSummary, err error) bool {
	if seq != c.listSeq {
		return false
	}
	c.store.Update(pipelines, err)
	return true
}

// IsCurrent reports whether results for id may still be applied: Details is
// active and id is the current pipeline.
func (c *Controller) IsCurrent(id string) bool {
	return c.view == ViewDetails && id != "" && c.current == id
}

// Reset returns to the initial state and drops the pipeline cache.
func (c *Controller) Reset() {
	c.poller.Stop()
	c.view = ViewWelcome
	c.current = ""
	c.prev = location{view: ViewWelcome}
	c.clearDetail()
	c.store.Reset()
}

// Navigate runs the transition registered for v.
func (c *Controller) Navigate(v View, id string) tea.Cmd {
	transition, ok := c.transitions[v]
	if !ok {
		return nil
	}
	return transition(id)
}

// ShowWelcome activates Welcome and stops polling.
func (c *Controller) ShowWelcome() tea.Cmd {
	c.leaveTo(ViewWelcome)
	return nil
}

// ShowCreateForm activates the create form and stops polling.
func (c *Controller) ShowCreateForm() tea.Cmd {
	c.leaveTo(ViewCreateForm)
	return nil
}

// ShowDetails activates Details for id, starts the poller and returns the
// commands that load the details and wait out the first poll period. A blank
// id changes nothing.
func (c *Controller) ShowDetails(id string) tea.Cmd {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	c.prev = location{view: c.view, id: c.current}
	c.poller.Stop()
	c.view = ViewDetails
	c.current = id
	c.clearDetail()
	c.loadSeq++
	return tea.Batch(c.loadDetailCmd(c.loadSeq, id), c.poller.Start(id))
}

// Back goes up one level: the form and details both return to Welcome.
func (c *Controller) Back() tea.Cmd {
	switch c.view {
	case ViewCreateForm, ViewDetails:
		return c.ShowWelcome()
	default:
		return nil
	}
}

func (c *Controller) leaveTo(v View) {
	c.poller.Stop()
	c.view = v
	c.current = ""
	c.clearDetail()
}

func (c *Controller) clearDetail() {
	c.detail = nil
	c.writeCount = 0
	c.lastRefresh = time.Time{}
}

// ApplyDetail applies a details load. Results for a superseded load are
// dropped. A failed load undoes the navigation that issued it and returns the
// error for the user; the returned command belongs to that rollback.
func (c *Controller) ApplyDetail(msg DetailLoadedMsg) (bool, tea.Cmd, error) {
	if msg.Seq != c.loadSeq || !c.IsCurrent(msg.ID) {
		return false, nil, nil
	}
	err := msg.Err
	if err == nil && (msg.Detail == nil || msg.Detail.Pipeline == nil) {
		err = ErrInvalidPipeline
	}
	if err != nil {
		log.Warn().Err(err).Str("pipeline", msg.ID).Msg("details load failed")
		return false, c.rollback(msg.ID), err
	}
	c.detail = msg.Detail
	c.writeCount = msg.Detail.WriteCount
	c.lastRefresh = time.Now()
	return true, nil, nil
}

// rollback restores the location held before ShowDetails(failed). Returning
// to another pipeline's details is allowed once; a second failure lands on
// Welcome.
func (c *Controller) rollback(failed string) tea.Cmd {
	target := c.prev
	if target.view == ViewDetails && (target.id == "" || target.id == failed) {
		target = location{view: ViewWelcome}
	}
	if target.view != ViewDetails {
		return c.Navigate(target.view, "")
	}
	cmd := c.ShowDetails(target.id)
	c.prev = location{view: ViewWelcome}
	return cmd
}

// HandleTick runs one poll period. A tick whose pipeline is no longer current
// stops the poller instead of issuing a request. The next period is
// scheduled by ApplyWriteCount once the refresh outcome is known.
func (c *Controller) HandleTick(msg PollTickMsg) tea.Cmd {
	if !c.poller.Live(msg.Handle) {
		return nil
	}
	if !c.IsCurrent(msg.ID) {
		log.Debug().Str("pipeline", msg.ID).Msg("poll tick no longer relevant; stopping")
		c.poller.Stop()
		return nil
	}
	return c.refreshCmd(msg.Handle, msg.ID)
}

// ApplyWriteCount applies a poll refresh and returns the command that waits
// out the next period. Failures are logged and never surfaced. A body without
// write_count leaves the displayed count alone. The bool reports whether the
// displayed count was updated.
func (c *Controller) ApplyWriteCount(msg WriteCountMsg) (bool, tea.Cmd) {
	if !c.poller.Live(msg.Handle) {
		return false, nil
	}
	if !c.IsCurrent(msg.ID) {
		c.poller.Stop()
		return false, nil
	}
	c.poller.Observe(msg.Handle, msg.Err)
	next := c.poller.Next(msg.Handle)
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("pipeline", msg.ID).Int("failures", c.poller.Failures()).Msg("write count refresh failed")
		return false, next
	}
	if !msg.HasCount {
		log.Debug().Str("pipeline", msg.ID).Msg("refresh carried no write_count")
		return false, next
	}
	c.writeCount = msg.Count
	if c.detail != nil {
		c.detail.WriteCount = msg.Count
	}
	c.lastRefresh = time.Now()
	return true, next
}

func (c *Controller) loadDetailCmd(seq uint64, id string) tea.Cmd {
	ctx, api := c.ctx, c.api
	return func() tea.Msg {
		detail, err := api.GetPipeline(ctx, id)
		return DetailLoadedMsg{Seq: seq, ID: id, Detail: detail, Err: err}
	}
}

func (c *Controller) refreshCmd(handle uint64, id string) tea.Cmd {
	ctx, api := c.ctx, c.api
	return func() tea.Msg {
		detail, err := api.GetPipeline(ctx, id)
		if err != nil {
			return WriteCountMsg{Handle: handle, ID: id, Err: err}
		}
		return WriteCountMsg{Handle: handle, ID: id, Count: detail.WriteCount, HasCount: detail.HasWriteCount}
	}
}
