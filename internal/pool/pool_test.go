package pool

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "github.com/Tysek64/DrugiTinder/internal/errors"
)

func rng() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestPick_EmptyPoolIsInvariantViolation(t *testing.T) {
	var p *Pool
	_, _, err := p.Pick(rng())

	var iv *perr.InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Nil(t, p.Optional(rng()))
}

func TestPick_SamplesFromPool(t *testing.T) {
	p := &Pool{IDs: []int64{10, 20, 30}}
	r := rng()
	for range 50 {
		id, i, err := p.Pick(r)
		require.NoError(t, err)
		assert.Equal(t, p.IDs[i], id)
		assert.Contains(t, p.IDs, p.Optional(r))
	}
}

func TestPickOther(t *testing.T) {
	p := &Pool{IDs: []int64{1, 2}}
	r := rng()
	for range 20 {
		id, err := p.PickOther(r, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
	}

	_, err := (&Pool{IDs: []int64{1}}).PickOther(r, 1)
	assert.Error(t, err)
}

func TestAttr(t *testing.T) {
	p := &Pool{IDs: []int64{1, 2}, Attrs: []any{"a", 7}}

	s, err := Attr[string](p, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", s)

	_, err = Attr[string](p, 1)
	assert.Error(t, err)
	_, err = Attr[string](p, 5)
	assert.Error(t, err)
}

func TestRegistry_AppendAndSet(t *testing.T) {
	r := NewRegistry()
	assert.Zero(t, r.Get(User).Len())
	assert.False(t, r.Has(User))

	require.NoError(t, r.Append(User, []int64{1, 2}, []any{"x", "y"}))
	require.NoError(t, r.Append(User, []int64{3}, []any{"z"}))
	assert.Equal(t, []int64{1, 2, 3}, r.Get(User).IDs)
	assert.Len(t, r.Get(User).Attrs, 3)

	assert.Error(t, r.Append(User, []int64{4}, nil), "attrs must stay aligned with ids")
	assert.Error(t, r.Set(Match, []int64{1}, []any{}))

	require.NoError(t, r.Set(Match, nil, nil))
	assert.True(t, r.Has(Match))
	assert.Equal(t, []string{"match=0", "user=3"}, r.Sizes())
}
