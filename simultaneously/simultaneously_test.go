package simultaneously

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alitto/pond/v2"
	errs "github.com/amp-labs/amp-sortby/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errTransform = errors.New("transform failed")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func double(_ context.Context, n int) (int, error) {
	return n * 2, nil
}

func TestMapSlice_PreservesOrder(t *testing.T) {
	t.Parallel()

	values := make([]int, 1000)
	for i := range values {
		values[i] = i
	}

	for _, workers := range []int{-1, 0, 1, 3, 7, 1000, 5000} {
		out, err := MapSlice(workers, values, double)
		require.NoError(t, err)
		require.Len(t, out, len(values))

		for i, v := range out {
			assert.Equal(t, i*2, v)
		}
	}
}

func TestMapSlice_Empty(t *testing.T) {
	t.Parallel()

	out, err := MapSlice(4, []int{}, double)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMapSliceCtx_Error(t *testing.T) {
	t.Parallel()

	values := []int{1, 2, 3, 4, 5, 6, 7, 8}

	out, err := MapSliceCtx(t.Context(), 4, values, func(_ context.Context, n int) (int, error) {
		if n == 5 {
			return 0, errTransform
		}

		return n, nil
	})

	require.ErrorIs(t, err, errTransform)
	assert.Nil(t, out)
}

func TestMapSliceCtx_Panic(t *testing.T) {
	t.Parallel()

	out, err := MapSliceCtx(t.Context(), 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			panic("boom")
		}

		return n, nil
	})

	require.ErrorIs(t, err, errs.ErrPanicRecovery)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, out)
}

func TestMapSliceCtx_PanicWithError(t *testing.T) {
	t.Parallel()

	_, err := MapSliceCtx(t.Context(), 2, []int{1, 2}, func(_ context.Context, _ int) (int, error) {
		panic(errTransform)
	})

	require.ErrorIs(t, err, errs.ErrPanicRecovery)
	require.ErrorIs(t, err, errTransform)
}

func TestMapSliceCtx_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var calls atomic.Int32

	_, err := MapSliceCtx(ctx, 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		calls.Add(1)

		return n, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestMapSliceCtxWithPool(t *testing.T) {
	t.Parallel()

	pool := pond.NewPool(3)
	defer pool.StopAndWait()

	for range 3 {
		out, err := MapSliceCtxWithPool(t.Context(), pool, []int{1, 2, 3, 4, 5}, double)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 6, 8, 10}, out)
	}
}
