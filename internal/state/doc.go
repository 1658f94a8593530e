// Package state holds the dashboard's in-memory pipeline cache.
//
// # Overview
//
// The sidebar renders from a Store that is refreshed on start-up and after
// every create or delete. The cache is never persisted and never written
// back; each successful load replaces the whole list.
//
// # Update Semantics
//
//	// Success: replace the list
//	store.Update(pipelines, nil)
//	→ snapshot.Pipelines = pipelines (copied)
//	→ snapshot.Loaded = true
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the previous list
//	store.Update(nil, err)
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Two failed loads in a row mark the snapshot offline, which the header
// uses to show that the API cannot be reached.
//
// # Concurrency
//
// Bubble Tea funnels all updates through one goroutine, but the CLI and
// start-up path may touch the store from elsewhere, so access goes through a
// sync.RWMutex and Snapshot returns defensive copies.
package state
