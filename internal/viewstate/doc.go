// Package viewstate tracks which panel the dashboard shows and keeps the
// details poller in step with it.
//
// The Controller is the single owner of the active View, the current pipeline
// id and the Poller. Every transition runs on the Bubble Tea update goroutine,
// so the controller carries no locks. Network work leaves the controller as a
// tea.Cmd and comes back as a message that names what it was issued for:
// DetailLoadedMsg carries a load sequence number, PollTickMsg and
// WriteCountMsg carry the poll handle. Results for a superseded load, a
// stopped handle or a pipeline that is no longer current are dropped.
//
// The Poller holds at most one timer. Start always stops the previous timer
// first; stopping cancels the timer's context, so a wait that is still pending
// returns no message at all. A period is only scheduled after the previous
// refresh has come back, so with poll_backoff enabled the failure it just
// recorded already lengthens the next wait. The delay doubles per consecutive
// refresh failure, capped at thirty seconds.
package viewstate
