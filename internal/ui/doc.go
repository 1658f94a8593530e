// Package ui implements the pipedeck terminal dashboard with Bubble Tea.
//
// # Layout
//
//	┌ header: api url, list status, live poll indicator ─────────────┐
//	│ sidebar (pipelines)  │ panel: welcome | create form | details  │
//	└ footer: toasts, delete confirmation or short help ─────────────┘
//
// The panel shows exactly one of three views. Which one, and which pipeline is
// current, belongs to viewstate.Controller; Model only renders it and turns
// keys and command results into controller calls.
//
// # Message Flow
//
// Every network call runs as a tea.Cmd:
//
//   - pipelinesLoadedMsg: list plus per-pipeline write counts, cached in the
//     controller's state.Store
//   - viewstate.DetailLoadedMsg, PollTickMsg, WriteCountMsg: passed straight
//     to the controller, which drops anything that is no longer relevant
//   - createdMsg, deletedMsg: user actions; failures become error toasts and
//     leave the view unchanged
//
// Toasts dismiss themselves after four seconds through toastExpiredMsg.
//
// # Focus
//
// Tab moves focus between the sidebar and the panel. While the create form
// has focus, keys other than ctrl+c, ctrl+n, ctrl+s, esc and tab are typed
// into the text area.
//
// # DDL Rendering
//
// DDL blocks start collapsed (or expanded with the expand_ddl preference) and
// toggle with 1-3. Expanded blocks are highlighted as SQL by glamour unless
// plain_ddl is set or glamour fails, in which case the raw text is shown.
package ui
