// Package simultaneously runs slice transformations in parallel on a bounded
// worker pool while keeping outputs in input order.
package simultaneously

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-sortby/errors"
)

// MapSlice transforms a slice of values in parallel by applying a function to each element.
// See MapSliceCtx for more information.
func MapSlice[Input, Output any](
	maxConcurrent int,
	values []Input,
	transform func(ctx context.Context, value Input) (Output, error),
) ([]Output, error) {
	return MapSliceCtx(context.Background(), maxConcurrent, values, transform)
}

// MapSliceCtx transforms a slice of values in parallel by applying a function to each element.
// It returns a new slice containing the transformed values in the same order as the input:
// outputs[i] corresponds to values[i].
//
// The maxConcurrent parameter limits the number of workers. If it is less than 1, or larger
// than the number of values, one worker per value is used. Values are split into contiguous
// chunks, one per worker, so small transformations do not pay per-element scheduling costs.
//
// If any transformation returns an error, remaining work is canceled (via the context passed
// to transform) and the first error is returned with a nil slice. Panics inside transform are
// recovered and returned as errors wrapping errors.ErrPanicRecovery.
//
// The pool is stopped before MapSliceCtx returns, so no goroutines outlive the call.
//
// Example:
//
//	numbers := []int{1, 2, 3, 4, 5}
//	doubled, err := MapSliceCtx(ctx, 2, numbers, func(ctx context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	// doubled = [2, 4, 6, 8, 10]
func MapSliceCtx[Input, Output any](
	ctx context.Context,
	maxConcurrent int,
	values []Input,
	transform func(ctx context.Context, value Input) (Output, error),
) ([]Output, error) {
	if len(values) == 0 {
		return nil, nil
	}

	if maxConcurrent < 1 || maxConcurrent > len(values) {
		maxConcurrent = len(values)
	}

	pool := pond.NewPool(maxConcurrent)
	defer pool.StopAndWait()

	return mapChunks(ctx, pool, maxConcurrent, values, transform)
}

// MapSliceCtxWithPool is MapSliceCtx on a caller-owned pool. The pool is not
// stopped, which allows reusing it across batches. Work is split into as many
// chunks as the pool's maximum concurrency.
func MapSliceCtxWithPool[Input, Output any](
	ctx context.Context,
	pool pond.Pool,
	values []Input,
	transform func(ctx context.Context, value Input) (Output, error),
) ([]Output, error) {
	if len(values) == 0 {
		return nil, nil
	}

	return mapChunks(ctx, pool, pool.MaxConcurrency(), values, transform)
}

func mapChunks[Input, Output any](
	ctx context.Context,
	pool pond.Pool,
	chunks int,
	values []Input,
	transform func(ctx context.Context, value Input) (Output, error),
) ([]Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if chunks < 1 {
		chunks = 1
	}

	var (
		mut      sync.Mutex
		firstErr error
	)

	// fail records the first real failure before canceling, so errors caused
	// by the cancellation itself never mask it.
	fail := func(err error) error {
		mut.Lock()
		defer mut.Unlock()

		if firstErr == nil {
			firstErr = err

			cancel()
		}

		return err
	}

	size := (len(values) + chunks - 1) / chunks
	outputs := make([]Output, len(values))
	group := pool.NewGroup()

	for start := 0; start < len(values); start += size {
		end := min(start+size, len(values))

		group.SubmitErr(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fail(panicError(r))
				}
			}()

			for idx := start; idx < end; idx++ {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}

				out, err := transform(ctx, values[idx])
				if err != nil {
					return fail(err)
				}

				// Each chunk owns a disjoint index range, no locking needed.
				outputs[idx] = out
			}

			return nil
		})
	}

	waitErr := group.Wait()

	mut.Lock()
	defer mut.Unlock()

	if firstErr != nil {
		return nil, firstErr
	}

	if waitErr != nil {
		return nil, waitErr
	}

	return outputs, nil
}

func panicError(r any) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("%w: %w\n%s", errors.ErrPanicRecovery, e, debug.Stack())
	}

	return fmt.Errorf("%w: %v\n%s", errors.ErrPanicRecovery, r, debug.Stack())
}
