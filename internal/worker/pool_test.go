package worker

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, size int) *Pool {
	t.Helper()
	p, err := New(size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release(time.Second) })
	return p
}

func draw(r *rand.Rand, lo, hi int) ([]uint64, error) {
	out := make([]uint64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, uint64(i)<<32|uint64(r.IntN(1000)))
	}
	return out, nil
}

func TestPartition_KeepsChunkOrder(t *testing.T) {
	p := newPool(t, 4)

	out, err := Partition(context.Background(), p, 1000, 7, 42, "users", draw)
	require.NoError(t, err)
	require.Len(t, out, 1000)
	for i, v := range out {
		assert.Equal(t, uint64(i), v>>32)
	}
}

func TestPartition_DeterministicAcrossPoolSizes(t *testing.T) {
	small := newPool(t, 1)
	large := newPool(t, 8)

	a, err := Partition(context.Background(), small, 500, 32, 7, "swipe", draw)
	require.NoError(t, err)
	b, err := Partition(context.Background(), large, 500, 32, 7, "swipe", draw)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Partition(context.Background(), large, 500, 32, 8, "swipe", draw)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "a different seed gives a different stream")
}

func TestPartition_PropagatesErrorsAndPanics(t *testing.T) {
	p := newPool(t, 2)
	boom := errors.New("boom")

	_, err := Partition(context.Background(), p, 10, 3, 1, "x", func(_ *rand.Rand, lo, _ int) ([]int, error) {
		if lo == 3 {
			return nil, boom
		}
		return []int{lo}, nil
	})
	assert.ErrorIs(t, err, boom)

	_, err = Partition(context.Background(), p, 10, 3, 1, "x", func(_ *rand.Rand, lo, _ int) ([]int, error) {
		if lo == 6 {
			panic("bad index")
		}
		return nil, nil
	})
	assert.ErrorContains(t, err, "panicked")
}

func TestPartition_EmptyAndCanceled(t *testing.T) {
	p := newPool(t, 2)

	out, err := Partition(context.Background(), p, 0, 10, 1, "x", draw)
	require.NoError(t, err)
	assert.Empty(t, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Partition(ctx, p, 100, 10, 1, "x", draw)
	assert.ErrorIs(t, err, context.Canceled)
}
