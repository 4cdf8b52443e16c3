package sortby

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/amp-labs/amp-sortby/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Age  int
	Name string
}

var errNoName = errors.New("person has no name")

func people() []person {
	return []person{
		{Age: 18, Name: "Rich"},
		{Age: 9, Name: "Bob"},
		{Age: 21, Name: "Marc"},
		{Age: 18, Name: "Alice"},
	}
}

func age(p person) int     { return p.Age }
func name(p person) string { return p.Name }

func nameErr(p person) (string, error) {
	if p.Name == "" {
		return "", errNoName
	}

	return p.Name, nil
}

func TestSortByDesc_ThenSortBy(t *testing.T) {
	t.Parallel()

	sorted := ThenSortBy(SortByDesc(people(), age), name).Slice()

	assert.Equal(t, []person{
		{Age: 21, Name: "Marc"},
		{Age: 18, Name: "Alice"},
		{Age: 18, Name: "Rich"},
		{Age: 9, Name: "Bob"},
	}, sorted)
}

func TestSortBy_ThenSortBy(t *testing.T) {
	t.Parallel()

	sorted := SortBy(people(), age).ThenBy(By(name)).Slice()

	assert.Equal(t, []person{
		{Age: 9, Name: "Bob"},
		{Age: 18, Name: "Alice"},
		{Age: 18, Name: "Rich"},
		{Age: 21, Name: "Marc"},
	}, sorted)
}

func TestThenSortByDesc(t *testing.T) {
	t.Parallel()

	sorted := ThenSortByDesc(SortBy(people(), age), name).Slice()

	assert.Equal(t, []string{"Bob", "Rich", "Alice", "Marc"}, names(sorted))
}

func TestSortByKeyDesc_ThenByDesc(t *testing.T) {
	t.Parallel()

	sorted := SortByKeyDesc(people(), By(age)).ThenByDesc(By(name)).Slice()

	assert.Equal(t, []string{"Marc", "Rich", "Alice", "Bob"}, names(sorted))
}

func TestSortBy_EmptyAndSingle(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SortBy([]person{}, age).Slice())
	assert.Empty(t, SortBy[person](nil, age).ThenBy(By(name)).Slice())

	single := []person{{Age: 1, Name: "Solo"}}
	assert.Equal(t, single, SortByDesc(single, age).Slice())

	assert.Empty(t, SortSeqBy[person](nil, By(age)).Slice())
}

func TestSortBy_SingleElementNeverExtracts(t *testing.T) {
	t.Parallel()

	out, err := SortByKey([]person{{Name: ""}}, ByErr(nameErr)).SliceCtx(t.Context())
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = SortByKey([]person{}, ByErr(nameErr)).SliceCtx(t.Context())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSortBy_TwoElementsExtract(t *testing.T) {
	t.Parallel()

	_, err := SortByKey([]person{{Name: ""}, {Name: "Bob"}}, ByErr(nameErr)).SliceCtx(t.Context())
	require.ErrorIs(t, err, ErrKeyExtraction)
	require.ErrorIs(t, err, errNoName)
}

func TestSortBy_SourceNotMutated(t *testing.T) {
	t.Parallel()

	source := people()
	original := slices.Clone(source)

	sorted := SortBy(source, name).Slice()

	assert.Equal(t, original, source)
	assert.NotEqual(t, source, sorted)

	sorted[0].Name = "Changed"
	assert.Equal(t, original, source)
}

func TestBuilder_IsImmutable(t *testing.T) {
	t.Parallel()

	data := []person{
		{Age: 1, Name: "b"},
		{Age: 1, Name: "a"},
		{Age: 0, Name: "c"},
	}

	base := SortBy(data, age)
	asc := base.ThenBy(By(name))
	desc := base.ThenByDesc(By(name))

	assert.Equal(t, 1, base.Steps())
	assert.Equal(t, 2, asc.Steps())
	assert.Equal(t, 2, desc.Steps())

	assert.Equal(t, []string{"c", "b", "a"}, names(base.Slice()))
	assert.Equal(t, []string{"c", "a", "b"}, names(asc.Slice()))
	assert.Equal(t, []string{"c", "b", "a"}, names(desc.Slice()))

	// Re-running a terminal operation yields the same result.
	assert.Equal(t, asc.Slice(), asc.Slice())
}

func TestBuilder_MixedKeyTypes(t *testing.T) {
	t.Parallel()

	type row struct {
		group  string
		score  float64
		weight uint8
	}

	rows := []row{
		{"b", 1.5, 3},
		{"a", 2.5, 1},
		{"a", 2.5, 2},
		{"a", 0.5, 9},
	}

	sorted := SortByKey(rows, By(func(r row) string { return r.group })).
		ThenByDesc(By(func(r row) float64 { return r.score })).
		ThenBy(By(func(r row) uint8 { return r.weight })).
		Slice()

	assert.Equal(t, []row{
		{"a", 2.5, 1},
		{"a", 2.5, 2},
		{"a", 0.5, 9},
		{"b", 1.5, 3},
	}, sorted)
}

func TestSortSeqBy(t *testing.T) {
	t.Parallel()

	sorted := SortSeqByDesc(slices.Values(people()), By(age)).ThenBy(By(name)).Slice()

	assert.Equal(t, []string{"Marc", "Alice", "Rich", "Bob"}, names(sorted))

	asc := SortSeqBy(slices.Values([]int{3, 1, 2}), By(func(n int) int { return n })).Slice()
	assert.Equal(t, []int{1, 2, 3}, asc)
}

func TestSeq_Restartable(t *testing.T) {
	t.Parallel()

	calls := 0
	key := By(func(p person) int {
		calls++

		return p.Age
	})

	seq := SortByKey(people(), key).Seq()

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Bob", "Rich", "Alice", "Marc"}, names(first))
	assert.Equal(t, 4, calls, "keys extracted once, on first iteration only")

	for p := range seq {
		assert.Equal(t, "Bob", p.Name)

		break
	}
}

func TestSeq_Lazy(t *testing.T) {
	t.Parallel()

	called := false

	seq := SortByKey(people(), By(func(p person) int {
		called = true

		return p.Age
	})).Seq()

	assert.False(t, called)

	for range seq { //nolint:revive
	}

	assert.True(t, called)
}

func TestSortBy_Stability(t *testing.T) {
	t.Parallel()

	type item struct {
		key   int
		order int
	}

	data := []item{{2, 0}, {1, 1}, {2, 2}, {1, 3}, {2, 4}, {1, 5}}

	for _, desc := range []bool{false, true} {
		var sorted []item
		if desc {
			sorted = SortByDesc(data, func(i item) int { return i.key }).Slice()
		} else {
			sorted = SortBy(data, func(i item) int { return i.key }).Slice()
		}

		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].key == sorted[i].key {
				assert.Less(t, sorted[i-1].order, sorted[i].order)
			}
		}
	}
}

func TestSortBy_DescendingKeepsEqualKeysEqual(t *testing.T) {
	t.Parallel()

	data := []person{
		{Age: 5, Name: "z"},
		{Age: 5, Name: "m"},
		{Age: 5, Name: "a"},
	}

	ascAge := SortBy(data, age).ThenBy(By(name)).Slice()
	descAge := SortByDesc(data, age).ThenBy(By(name)).Slice()

	assert.Equal(t, []string{"a", "m", "z"}, names(ascAge))
	assert.Equal(t, ascAge, descAge)

	// With no further step the input order is kept in both directions.
	assert.Equal(t, data, SortBy(data, age).Slice())
	assert.Equal(t, data, SortByDesc(data, age).Slice())
}

func TestSortBy_ZeroKey(t *testing.T) {
	t.Parallel()

	data := people()

	assert.Equal(t, data, SortByKey(data, Key[person]{}).Slice())
	assert.Equal(t, []string{"Alice", "Bob", "Marc", "Rich"},
		names(SortByKey(data, Key[person]{}).ThenBy(By(name)).Slice()))
}

func TestSliceCtx_ExtractionError(t *testing.T) {
	t.Parallel()

	source := []person{
		{Age: 3, Name: "c"},
		{Age: 1, Name: ""},
		{Age: 2, Name: "b"},
		{Age: 4, Name: ""},
	}
	original := slices.Clone(source)

	out, err := SortBy(source, age).ThenBy(ByErr(nameErr)).SliceCtx(t.Context())

	require.Error(t, err)
	require.ErrorIs(t, err, ErrKeyExtraction)
	require.ErrorIs(t, err, errNoName)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "step 1, element 1")
	assert.Contains(t, err.Error(), "step 1, element 3")
	assert.Equal(t, original, source)
}

func TestSliceCtx_ExtractionErrorAnnotated(t *testing.T) {
	t.Parallel()

	_, err := SortByKey([]person{{Name: "a"}, {Name: ""}}, ByErr(nameErr)).SliceCtx(t.Context())
	require.Error(t, err)

	attrs := logger.ErrorAttrs(err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "sort_step", attrs[0].Key)
	assert.Equal(t, int64(0), attrs[0].Value.Int64())
	assert.Equal(t, "element_index", attrs[1].Key)
	assert.Equal(t, int64(1), attrs[1].Value.Int64())
}

func TestSliceCtx_ExtractionErrorWithoutCache(t *testing.T) {
	t.Parallel()

	data := []person{{Name: "b"}, {Name: ""}, {Name: "a"}}

	out, err := SortByKey(data, ByErr(nameErr), WithKeyCache(false)).SliceCtx(t.Context())

	require.ErrorIs(t, err, ErrKeyExtraction)
	require.ErrorIs(t, err, errNoName)
	assert.Nil(t, out)
}

func TestSliceCtx_ExtractionErrorParallel(t *testing.T) {
	t.Parallel()

	data := make([]person, 200)
	for i := range data {
		data[i] = person{Age: i, Name: strings.Repeat("x", i%5)}
	}

	_, err := SortByKey(data, ByErr(nameErr),
		WithParallelism(4), WithParallelThreshold(10)).SliceCtx(t.Context())

	require.ErrorIs(t, err, ErrKeyExtraction)
	require.ErrorIs(t, err, errNoName)
}

func TestSlice_PanicsWithExtractionError(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrKeyExtraction)
	}()

	SortByKey([]person{{Name: "a"}, {Name: ""}}, ByErr(nameErr)).Slice()
}

func TestSlice_ExtractorPanicPropagates(t *testing.T) {
	t.Parallel()

	boom := func(p person) int {
		if p.Name == "Marc" {
			panic("boom")
		}

		return p.Age
	}

	assert.PanicsWithValue(t, "boom", func() {
		SortBy(people(), boom).Slice()
	})

	assert.PanicsWithValue(t, "boom", func() {
		SortBy(people(), boom, WithKeyCache(false)).Slice()
	})
}

func TestSliceCtx_ExtractorPanicParallel(t *testing.T) {
	t.Parallel()

	data := make([]person, 64)
	for i := range data {
		data[i] = person{Age: i}
	}

	_, err := SortBy(data, func(p person) int {
		if p.Age == 42 {
			panic("boom")
		}

		return p.Age
	}, WithParallelism(4), WithParallelThreshold(1)).SliceCtx(t.Context())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSliceCtx_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	out, err := SortBy(people(), age).SliceCtx(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestBuilder_With(t *testing.T) {
	t.Parallel()

	base := SortBy(people(), age)
	tuned := base.With(WithName("tuned"), WithKeyCache(false), nil)

	assert.Equal(t, defaultName, base.cfg.name)
	assert.True(t, base.cfg.cacheKeys)
	assert.Equal(t, "tuned", tuned.cfg.name)
	assert.False(t, tuned.cfg.cacheKeys)
	assert.Equal(t, base.Slice(), tuned.Slice())
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := newConfig([]Option{
		WithName(""),
		WithParallelism(-3),
		WithParallelThreshold(-1),
	})

	assert.Equal(t, defaultName, cfg.name)
	assert.Equal(t, 1, cfg.parallelism)
	assert.Equal(t, 0, cfg.parallelThreshold)
	assert.True(t, cfg.cacheKeys)
}

func names(ps []person) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}

	return out
}
