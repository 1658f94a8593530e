package viewstate

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultPollInterval is the write-count refresh period on the details view.
	DefaultPollInterval = 3 * time.Second
	maxBackoff          = 30 * time.Second
)

// PollTickMsg is delivered when a poll period elapses. Handle identifies the
// timer that produced it; ticks from a stopped timer are ignored.
type PollTickMsg struct {
	Handle uint64
	ID     string
	At     time.Time
}

// Poller owns at most one recurring timer. Each Start cancels the previous
// timer before creating a new handle, so two timers never deliver ticks
// together.
type Poller struct {
	parent   context.Context
	interval time.Duration
	backoff  bool

	seq      uint64
	handle   uint64 // zero when stopped
	id       string
	ctx      context.Context
	cancel   context.CancelFunc
	failures int
}

// NewPoller builds a stopped poller. Timers are children of parent, so
// cancelling parent stops any pending wait.
func NewPoller(parent context.Context, interval time.Duration, backoff bool) *Poller {
	if parent == nil {
		parent = context.Background()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{parent: parent, interval: interval, backoff: backoff}
}

// Start replaces any running timer with a new one for id and returns the
// command that waits out the first period.
func (p *Poller) Start(id string) tea.Cmd {
	p.Stop()
	p.seq++
	p.handle = p.seq
	p.id = id
	p.ctx, p.cancel = context.WithCancel(p.parent)
	return p.wait()
}

// Stop cancels the running timer. Calling it while stopped is a no-op.
func (p *Poller) Stop() {
	if p.handle == 0 {
		return
	}
	p.cancel()
	p.handle = 0
	p.id = ""
	p.ctx = nil
	p.cancel = nil
	p.failures = 0
}

// Running reports whether a timer is live.
func (p *Poller) Running() bool {
	return p.handle != 0
}

// Handle returns the live handle, or zero.
func (p *Poller) Handle() uint64 {
	return p.handle
}

// ID returns the pipeline the live timer polls.
func (p *Poller) ID() string {
	return p.id
}

// Live reports whether handle belongs to the running timer.
func (p *Poller) Live(handle uint64) bool {
	return handle != 0 && handle == p.handle
}

// Next schedules the period after a tick from handle. Stale handles get nil.
func (p *Poller) Next(handle uint64) tea.Cmd {
	if !p.Live(handle) {
		return nil
	}
	return p.wait()
}

// Observe records a refresh outcome for handle. It only affects the delay
// when backoff is enabled.
func (p *Poller) Observe(handle uint64, err error) {
	if !p.Live(handle) {
		return
	}
	if err != nil {
		p.failures++
		return
	}
	p.failures = 0
}

// Failures returns consecutive refresh failures for the running timer.
func (p *Poller) Failures() int {
	return p.failures
}

// Delay returns the wait before the next tick.
func (p *Poller) Delay() time.Duration {
	if !p.backoff {
		return p.interval
	}
	return calculateBackoff(p.failures, p.interval)
}

// wait captures the current handle so a later Start or Stop cannot be
// confused with this timer. A cancelled wait yields no message at all.
func (p *Poller) wait() tea.Cmd {
	ctx, handle, id, delay := p.ctx, p.handle, p.id, p.Delay()
	return func() tea.Msg {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case at := <-timer.C:
			if ctx.Err() != nil {
				return nil
			}
			return PollTickMsg{Handle: handle, ID: id, At: at}
		}
	}
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
