package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrent(t *testing.T) {
	b := NewBrent()
	{ // Polynomial root
		x, err := b.FindRoot(func(x float64) float64 { return x*x - 2 }, 0, 2, 1e-12, 100)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, x, 1e-10)
		assert.True(t, b.Iterations < 20)
	}
	{ // Root at an end of the bracket
		x, err := b.FindRoot(func(x float64) float64 { return x - 3 }, 3, 5, 1e-12, 100)
		require.NoError(t, err)
		assert.Equal(t, 3., x)
	}
	{ // Flat saturated region, the shape of a valve-truncated objective
		f := func(x float64) float64 {
			if x > 10 {
				return -1
			}
			return 10 - x
		}
		x, err := b.FindRoot(f, 0.001, 1000, 1e-9, 200)
		require.NoError(t, err)
		assert.InDelta(t, 10, x, 1e-6)
	}
	{ // Decreasing transcendental function over a wide bracket
		x, err := b.FindRoot(func(x float64) float64 { return math.Exp(-x) - 0.5 }, 0.001, 50, 1e-12, 100)
		require.NoError(t, err)
		assert.InDelta(t, math.Ln2, x, 1e-9)
	}
	{ // No sign change
		_, err := b.FindRoot(func(x float64) float64 { return x*x + 1 }, -1, 1, 1e-12, 100)
		assert.True(t, errors.Is(err, ErrNoBracket))
		_, err = b.FindRoot(func(x float64) float64 { return math.NaN() }, -1, 1, 1e-12, 100)
		assert.True(t, errors.Is(err, ErrNoBracket))
	}
	{ // Iteration limit
		_, err := b.FindRoot(func(x float64) float64 { return math.Exp(x) - 2 }, 0, 10, 1e-15, 2)
		assert.True(t, errors.Is(err, ErrNonConvergence))
		assert.Equal(t, 2, b.Iterations)
	}
	{ // Any RootFinder will do
		var rf RootFinder = b
		x, err := rf.FindRoot(math.Sin, 3, 4, 1e-12, 100)
		require.NoError(t, err)
		assert.InDelta(t, math.Pi, x, 1e-10)
	}
}

func TestMathHelpers(t *testing.T) {
	assert.Equal(t, 32., POW(2, 5))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.InDelta(t, 1024., POW(2, 10), 1e-12)
	assert.Equal(t, 1., Clamp(3, 0, 1))
	assert.Equal(t, 0., Clamp(-3, 0, 1))
}

func TestMemUsage(t *testing.T) {
	assert.Contains(t, MemUsage(), "MiB")
}
