package minicon

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// WorkerPool runs independent jobs on a bounded number of goroutines.
// MCD formation (one job per seed) and the exhaustive search (one job per
// subset range) both go through it.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool
// workerCount: number of worker goroutines (0 = use NumCPU)
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// WorkerCount returns the number of worker goroutines
func (p *WorkerPool) WorkerCount() int {
	return p.workerCount
}

// ExecuteParallel executes operation on all inputs using the pool.
// Results are returned in the same order as inputs. If an operation fails,
// the first error is returned and the results are discarded.
func ExecuteParallel[In, Out any](
	p *WorkerPool,
	ctx Context,
	inputs []In,
	operation func(Context, In) (Out, error),
) ([]Out, error) {
	results := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(p.workerCount)
	for i := range inputs {
		i := i
		g.Go(func() error {
			result, err := operation(ctx, inputs[i])
			if err != nil {
				return errors.Wrapf(err, "parallel execution failed at index %d", i)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
