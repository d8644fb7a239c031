package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedWinProbability(t *testing.T) {
	t.Run("equal ratings are a coin flip", func(t *testing.T) {
		for _, r := range []float64{0, 1200, 9500} {
			assert.Equal(t, 0.5, ExpectedWinProbability(r, r))
		}
	})

	t.Run("400 points is ten to one", func(t *testing.T) {
		assert.InDelta(t, 10.0/11.0, ExpectedWinProbability(1600, 1200), 1e-12)
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]float64{{0, 0}, {1200, 1000}, {455, 8717}, {3000, 0}, {0, 20000}}
		for _, p := range pairs {
			sum := ExpectedWinProbability(p[0], p[1]) + ExpectedWinProbability(p[1], p[0])
			assert.InDelta(t, 1.0, sum, 1e-12, "pair %v", p)
		}
	})

	t.Run("stays inside the open interval", func(t *testing.T) {
		high := ExpectedWinProbability(1e6, 0)
		low := ExpectedWinProbability(0, 1e6)
		assert.Less(t, high, 1.0)
		assert.Greater(t, low, 0.0)
		assert.Greater(t, high, 0.99)
		assert.Less(t, low, 0.01)
	})

	t.Run("favourite is more likely to win", func(t *testing.T) {
		assert.Greater(t, ExpectedWinProbability(1300, 1200), ExpectedWinProbability(1200, 1300))
	})
}
