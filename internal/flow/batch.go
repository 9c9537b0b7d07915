package flow

import (
	"context"
	"errors"

	"github.com/metalagman/fitgenius/internal/schema"
	"golang.org/x/sync/errgroup"
)

// Job is one entry of a batch.
type Job struct {
	Flow  *Definition
	Input schema.Value
}

// Result is the outcome of one Job.
type Result struct {
	Output schema.Value
	Err    error
}

// Batch runs jobs with at most limit in flight and returns results in job
// order. A failed job does not cancel the others. limit <= 0 means unbounded.
func (o *Orchestrator) Batch(ctx context.Context, jobs []Job, limit int) []Result {
	results := make([]Result, len(jobs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		if job.Flow == nil {
			results[i] = Result{Err: errors.New("flow definition is nil")}
			continue
		}
		g.Go(func() error {
			out, err := o.Execute(ctx, job.Flow, job.Input)
			results[i] = Result{Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
