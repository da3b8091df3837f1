package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positive-area/internal/pyramid"
)

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(1, 4)
	require.Len(t, k, 9)

	var sum float64
	for _, w := range k {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, k[0], k[8])
	assert.InDelta(t, 0.3989434, k[4], 1e-6)
}

func TestReflect(t *testing.T) {
	n := 4
	got := []int{}
	for i := -5; i <= 8; i++ {
		got = append(got, reflect(i, n))
	}
	assert.Equal(t, []int{3, 3, 2, 1, 0, 0, 1, 2, 3, 3, 2, 1, 0, 0}, got)
	assert.Equal(t, 0, reflect(-3, 1))
}

func TestGaussianPreservesFlatPlane(t *testing.T) {
	g := NewGaussianFilter(1, 4)
	in := pyramid.Uniform(5, 3, 100)
	out, err := g.Smooth(context.Background(), in)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, float32(100), v)
	}
	assert.Equal(t, float32(100), in.At(0, 0))
	assert.Zero(t, Threshold(out, 100).Count())
	assert.Equal(t, out.Len(), Threshold(out, 99.999).Count())
}

func TestGaussianImpulse(t *testing.T) {
	in := pyramid.NewPlane(21, 21)
	in.Set(10, 10, 1)

	out, err := NewGaussianFilter(1, 4).Smooth(context.Background(), in)
	require.NoError(t, err)

	k := GaussianKernel(1, 4)
	assert.InDelta(t, k[4]*k[4], out.At(10, 10), 1e-7)
	assert.InDelta(t, k[4]*k[5], out.At(11, 10), 1e-7)
	assert.InDelta(t, out.At(9, 10), out.At(11, 10), 1e-9)

	var total float64
	for _, v := range out.Pix {
		total += float64(v)
	}
	assert.InDelta(t, 1.0, total, 1e-5)
}

func TestGaussianZeroSigmaCopies(t *testing.T) {
	in := pyramid.FromRows([][]float32{{1, 2}, {3, 4}})
	out, err := NewGaussianFilter(0, 4).Smooth(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Pix, out.Pix)
}

func TestGaussianCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGaussianFilter(1, 4).Smooth(ctx, pyramid.Uniform(2, 2, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMask(t *testing.T) {
	p := pyramid.FromRows([][]float32{
		{0, 5, 10},
		{10, 5, 0},
	})
	m := Threshold(p, 5)
	assert.Equal(t, 2, m.Count())
	assert.True(t, m.At(2, 0))
	assert.False(t, m.At(1, 0), "threshold is strict")

	other := Threshold(p, -1)
	n, err := m.CountAnd(other)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = m.CountAnd(Threshold(pyramid.Uniform(2, 2, 1), 0))
	assert.Error(t, err)
}
