package sortby

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/amp-labs/amp-sortby/compare"
	"github.com/amp-labs/amp-sortby/logger"
)

type step[T any] struct {
	key       Key[T]
	direction Direction
}

// Builder accumulates sort steps over a source sequence. The first step is
// the primary key; each later step only breaks ties left by the ones before.
//
// A Builder is immutable: ThenBy and friends return a new Builder and never
// change the receiver, so a common prefix can be extended in several ways
// and a Builder may be shared between goroutines. Nothing is extracted or
// compared until a terminal method (Slice, SliceCtx or Seq) runs.
type Builder[T any] struct {
	source func() []T
	steps  []step[T]
	cfg    config
}

// SortBy starts a Builder ordering items ascending by extract.
func SortBy[T any, K cmp.Ordered](items []T, extract func(T) K, opts ...Option) *Builder[T] {
	return SortByKey(items, By(extract), opts...)
}

// SortByDesc starts a Builder ordering items descending by extract.
func SortByDesc[T any, K cmp.Ordered](items []T, extract func(T) K, opts ...Option) *Builder[T] {
	return SortByKeyDesc(items, By(extract), opts...)
}

// SortByKey starts a Builder ordering items ascending by key.
//
// items is read when a terminal method runs, not now, and is never modified.
func SortByKey[T any](items []T, key Key[T], opts ...Option) *Builder[T] {
	return newBuilder(sliceSource(items), key, Ascending, opts)
}

// SortByKeyDesc starts a Builder ordering items descending by key.
func SortByKeyDesc[T any](items []T, key Key[T], opts ...Option) *Builder[T] {
	return newBuilder(sliceSource(items), key, Descending, opts)
}

// SortSeqBy starts a Builder over an iterator, ordering ascending by key.
// The iterator is drained by every terminal call.
func SortSeqBy[T any](seq iter.Seq[T], key Key[T], opts ...Option) *Builder[T] {
	return newBuilder(seqSource(seq), key, Ascending, opts)
}

// SortSeqByDesc starts a Builder over an iterator, ordering descending by key.
func SortSeqByDesc[T any](seq iter.Seq[T], key Key[T], opts ...Option) *Builder[T] {
	return newBuilder(seqSource(seq), key, Descending, opts)
}

// ThenSortBy returns b extended with an ascending tie-breaker on extract.
func ThenSortBy[T any, K cmp.Ordered](b *Builder[T], extract func(T) K) *Builder[T] {
	return b.ThenBy(By(extract))
}

// ThenSortByDesc returns b extended with a descending tie-breaker on extract.
func ThenSortByDesc[T any, K cmp.Ordered](b *Builder[T], extract func(T) K) *Builder[T] {
	return b.ThenByDesc(By(extract))
}

func sliceSource[T any](items []T) func() []T {
	return func() []T {
		return slices.Clone(items)
	}
}

func seqSource[T any](seq iter.Seq[T]) func() []T {
	return func() []T {
		if seq == nil {
			return nil
		}

		return slices.Collect(seq)
	}
}

func newBuilder[T any](source func() []T, key Key[T], dir Direction, opts []Option) *Builder[T] {
	return &Builder[T]{
		source: source,
		steps:  []step[T]{{key: key, direction: dir}},
		cfg:    newConfig(opts),
	}
}

// ThenBy returns a new Builder with an ascending tie-breaker appended.
func (b *Builder[T]) ThenBy(key Key[T]) *Builder[T] {
	return b.then(key, Ascending)
}

// ThenByDesc returns a new Builder with a descending tie-breaker appended.
func (b *Builder[T]) ThenByDesc(key Key[T]) *Builder[T] {
	return b.then(key, Descending)
}

// With returns a new Builder with additional options applied on top of the
// existing ones.
func (b *Builder[T]) With(opts ...Option) *Builder[T] {
	cfg := b.cfg

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Builder[T]{source: b.source, steps: b.steps, cfg: cfg}
}

// Steps returns the number of sort steps.
func (b *Builder[T]) Steps() int {
	return len(b.steps)
}

func (b *Builder[T]) then(key Key[T], dir Direction) *Builder[T] {
	// Full copy: appending to a shared backing array would let two
	// extensions of the same Builder overwrite each other's last step.
	steps := make([]step[T], len(b.steps), len(b.steps)+1)
	copy(steps, b.steps)

	return &Builder[T]{
		source: b.source,
		steps:  append(steps, step[T]{key: key, direction: dir}),
		cfg:    b.cfg,
	}
}

// Slice returns the sorted elements. Panics raised by key extractors
// propagate unchanged; errors from fallible extractors, or from parallel
// extraction, are raised as a panic with the error value. Use SliceCtx to
// receive them as errors instead.
func (b *Builder[T]) Slice() []T {
	out, err := b.SliceCtx(context.Background())
	if err != nil {
		panic(err)
	}

	return out
}

// Seq returns an iterator over the sorted elements. The sort runs on the
// first iteration; the result is kept, so the iterator can be restarted.
func (b *Builder[T]) Seq() iter.Seq[T] {
	sorted := sync.OnceValue(b.Slice)

	return func(yield func(T) bool) {
		for _, item := range sorted() {
			if !yield(item) {
				return
			}
		}
	}
}

// SliceCtx stably sorts a private copy of the source and returns it. The
// source itself is never modified, including when an error is returned.
//
// Elements are ordered by the first step; elements whose keys are equal fall
// through to the next step, and elements equal under every step keep their
// original relative order.
//
// Empty and single-element inputs are copied without extracting keys, so
// they never report extraction errors.
func (b *Builder[T]) SliceCtx(ctx context.Context) (result []T, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()
	elements := 0

	ctx, span := startSortSpan(ctx, b.cfg, len(b.steps))

	defer func() {
		if r := recover(); r != nil {
			b.observe(ctx, elements, started, outcomePanic, fmt.Errorf("panic: %v", r))
			endSortSpan(span, elements, fmt.Errorf("panic: %v", r))

			panic(r)
		}

		b.observe(ctx, elements, started, outcomeOf(err), err)
		endSortSpan(span, elements, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := b.source()
	elements = len(items)

	if len(items) < 2 { //nolint:mnd
		out := make([]T, len(items))
		copy(out, items)

		return out, nil
	}

	run := &sortRun[T]{ctx: ctx, cfg: b.cfg, items: items}
	columns := make([]compare.Func[int], 0, len(b.steps))

	for idx, s := range b.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.key.prepare == nil {
			continue
		}

		run.step = idx

		column, err := s.key.prepare(run)
		if err != nil {
			return nil, err
		}

		if s.direction == Descending {
			column = compare.Reverse(column)
		}

		columns = append(columns, column)
	}

	// Sort positions rather than elements so cached keys stay addressable.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, compare.Chain(columns...))

	if run.lazyErr != nil {
		return nil, run.lazyErr
	}

	out := make([]T, len(items))
	for i, pos := range order {
		out[i] = items[pos]
	}

	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

func (b *Builder[T]) observe(ctx context.Context, elements int, started time.Time, outcome string, err error) {
	elapsed := time.Since(started)

	sortsTotal.WithLabelValues(b.cfg.name, outcome).Inc()
	sortElements.WithLabelValues(b.cfg.name).Observe(float64(elements))
	sortDuration.WithLabelValues(b.cfg.name).Observe(elapsed.Seconds())

	log := logger.Get(ctx).With(
		"sort", b.cfg.name,
		"elements", elements,
		"steps", len(b.steps),
		"duration", elapsed)

	if err != nil {
		log.Debug("sort failed", "outcome", outcome, "error", err)

		return
	}

	log.Debug("sorted sequence")
}
