package pipelineapi

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds the per-pipeline requests LoadSummaries runs
// at once.
const DefaultFetchConcurrency = 8

// LoadSummaries lists pipelines and fills each WriteCount from the detail
// endpoint. Only the list call can fail the load; a pipeline whose detail
// fetch fails keeps a write count of zero. Order is the list endpoint's order.
func LoadSummaries(ctx context.Context, api API, concurrency int) ([]PipelineSummary, error) {
	pipelines, err := api.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}

	out := make([]PipelineSummary, len(pipelines))
	copy(out, pipelines)

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range out {
		g.Go(func() error {
			out[i].WriteCount = 0
			detail, err := api.GetPipeline(ctx, out[i].ID)
			if err != nil {
				log.Warn().Err(err).Str("pipeline", out[i].ID).Msg("write count fetch failed")
				return nil
			}
			if detail.WriteCount > 0 {
				out[i].WriteCount = detail.WriteCount
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}
