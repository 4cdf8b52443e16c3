package sortby

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/amp-sortby/compare"
	errs "github.com/amp-labs/amp-sortby/errors"
	"github.com/amp-labs/amp-sortby/logger"
	"github.com/amp-labs/amp-sortby/optional"
	"github.com/amp-labs/amp-sortby/simultaneously"
	"github.com/amp-labs/amp-sortby/sortable"
)

// ErrKeyExtraction wraps every error returned by a fallible key extractor.
var ErrKeyExtraction = errors.New("sort key extraction failed")

// Key describes how to derive and compare one sort key of T. Build keys with
// By, ByFunc and friends; the key type itself is hidden inside the Key, which
// lets steps with different key types share one Builder.
//
// The zero Key treats all elements as equal.
type Key[T any] struct {
	prepare func(r *sortRun[T]) (compare.Func[int], error)
}

// Nulls places absent optional keys relative to present ones.
type Nulls int

const (
	NullsLast Nulls = iota
	NullsFirst
)

// By orders elements by a key with a natural order.
func By[T any, K cmp.Ordered](extract func(T) K) Key[T] {
	return ByFunc(extract, compare.Ordered[K])
}

// ByErr is By with a fallible extractor. Extraction errors abort the sort
// and are reported by SliceCtx wrapped in ErrKeyExtraction. Inputs with
// fewer than two elements are returned without extracting any key, so an
// extractor that would fail is never called for them.
func ByErr[T any, K cmp.Ordered](extract func(T) (K, error)) Key[T] {
	return ByFuncErr(extract, compare.Ordered[K])
}

// ByFunc orders elements by a key compared with fn. Whatever fn returns for
// keys it cannot order (for example, a partial order) is used as is.
func ByFunc[T, K any](extract func(T) K, fn compare.Func[K]) Key[T] {
	return ByFuncErr(infallible(extract), fn)
}

// ByFuncErr is ByFunc with a fallible extractor.
func ByFuncErr[T, K any](extract func(T) (K, error), fn compare.Func[K]) Key[T] {
	return newKey(extract, func() compare.Func[K] { return fn })
}

// BySortable orders elements by a key implementing sortable.Sortable.
func BySortable[T any, K sortable.Sortable[K]](extract func(T) K) Key[T] {
	return ByFunc(extract, sortable.Compare[K])
}

// ByTime orders elements chronologically.
func ByTime[T any](extract func(T) time.Time) Key[T] {
	return ByFunc(extract, func(a, b time.Time) int { return a.Compare(b) })
}

// ByOptional orders elements by a key that may be absent. Absent keys are
// equal to each other and placed according to nulls in ascending order; a
// descending step inverts their placement along with everything else.
func ByOptional[T any, K cmp.Ordered](extract func(T) optional.Value[K], nulls Nulls) Key[T] {
	return ByFunc(extract, func(a, b optional.Value[K]) int {
		return optional.Compare(a, b, compare.Ordered[K], nulls == NullsFirst)
	})
}

func infallible[T, K any](extract func(T) K) func(T) (K, error) {
	return func(item T) (K, error) {
		return extract(item), nil
	}
}

// newKey builds a Key from an extractor and a factory for its comparison.
// The factory runs once per sort, so comparisons holding mutable state (a
// collator, say) are never shared between concurrent sorts.
func newKey[T, K any](extract func(T) (K, error), newCompare func() compare.Func[K]) Key[T] {
	return Key[T]{
		prepare: func(r *sortRun[T]) (compare.Func[int], error) {
			fn := newCompare()

			if !r.cfg.cacheKeys {
				return lazyColumn(r, extract, fn), nil
			}

			keys, err := extractColumn(r, extract)
			if err != nil {
				return nil, err
			}

			return func(i, j int) int {
				return fn(keys[i], keys[j])
			}, nil
		},
	}
}

// sortRun is the state of one terminal operation.
type sortRun[T any] struct {
	ctx   context.Context //nolint:containedctx
	cfg   config
	items []T
	step  int

	// First error raised while comparing with re-extracted keys. Comparisons
	// run on a single goroutine.
	lazyErr error
}

func (r *sortRun[T]) fail(err error) {
	if r.lazyErr == nil {
		r.lazyErr = err
	}
}

func (r *sortRun[T]) parallel() bool {
	return r.cfg.parallelism > 1 && len(r.items) >= r.cfg.parallelThreshold
}

func extractionError(err error, step, index int) error {
	return logger.AnnotateError(
		fmt.Errorf("%w: step %d, element %d: %w", ErrKeyExtraction, step, index, err),
		"sort_step", step, "element_index", index)
}

// extractColumn extracts the current step's key for every element, in
// parallel when the run allows it. All extraction failures of a sequential
// pass are reported together.
func extractColumn[T, K any](r *sortRun[T], extract func(T) (K, error)) ([]K, error) {
	step := r.step

	if r.parallel() {
		positions := make([]int, len(r.items))
		for i := range positions {
			positions[i] = i
		}

		keys, err := simultaneously.MapSliceCtx(r.ctx, r.cfg.parallelism, positions,
			func(_ context.Context, idx int) (K, error) {
				key, err := extract(r.items[idx])
				if err != nil {
					keyExtractionErrors.WithLabelValues(r.cfg.name).Inc()

					return key, extractionError(err, step, idx)
				}

				return key, nil
			})
		if err != nil {
			return nil, err
		}

		return keys, nil
	}

	var coll errs.Collection

	keys := make([]K, len(r.items))

	for idx, item := range r.items {
		key, err := extract(item)
		if err != nil {
			coll.Add(extractionError(err, step, idx))

			continue
		}

		keys[idx] = key
	}

	if coll.HasError() {
		keyExtractionErrors.WithLabelValues(r.cfg.name).Add(float64(coll.Len()))

		return nil, coll.GetError()
	}

	return keys, nil
}

// lazyColumn compares by extracting both keys on every call. After the first
// failure every comparison reports equality so the sort winds down quickly.
func lazyColumn[T, K any](r *sortRun[T], extract func(T) (K, error), fn compare.Func[K]) compare.Func[int] {
	step := r.step

	return func(i, j int) int {
		if r.lazyErr != nil {
			return 0
		}

		a, err := extract(r.items[i])
		if err != nil {
			keyExtractionErrors.WithLabelValues(r.cfg.name).Inc()
			r.fail(extractionError(err, step, i))

			return 0
		}

		b, err := extract(r.items[j])
		if err != nil {
			keyExtractionErrors.WithLabelValues(r.cfg.name).Inc()
			r.fail(extractionError(err, step, j))

			return 0
		}

		return fn(a, b)
	}
}
