package state

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/five82/pipedeck/internal/pipelineapi"
)

// Snapshot is the latest pipeline list the sidebar renders from.
type Snapshot struct {
	Pipelines           []pipelineapi.PipelineSummary
	Loaded              bool // at least one list load succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true once two list loads in a row have failed.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the cached summary for id.
func (s Snapshot) Find(id string) (pipelineapi.PipelineSummary, bool) {
	for _, p := range s.Pipelines {
		if p.ID == id {
			return p, true
		}
	}
	return pipelineapi.PipelineSummary{}, false
}

// Store holds the in-memory pipeline cache. Each successful load replaces it
// wholesale; nothing is written back to the server.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the cached list. When err is non-nil the previous list is
// kept and the failure is recorded.
func (s *Store) Update(pipelines []pipelineapi.PipelineSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Pipelines = clonePipelines(pipelines)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current cache.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Pipelines = clonePipelines(s.snapshot.Pipelines)
	if s.snapshot.LastError != nil {
		snap.LastError = errors.WithStack(s.snapshot.LastError)
	}
	return snap
}

// Reset drops everything, as on a fresh start.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

func clonePipelines(items []pipelineapi.PipelineSummary) []pipelineapi.PipelineSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]pipelineapi.PipelineSummary, len(items))
	copy(dup, items)
	return dup
}
