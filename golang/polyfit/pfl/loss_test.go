package pfl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestForwardBackwardReference(t *testing.T) {
	x, y, _, theta := GenerateDebugData()

	loss, gradient, err := ForwardBackward(x, y, theta)
	require.NoError(t, err)

	assert.InDelta(t, 140.09, loss, 1e-9)
	expected := []float64{12.8, 81.75, 554.25}
	require.Equal(t, len(expected), gradient.Len())
	for i, want := range expected {
		assert.InDelta(t, want, gradient.AtVec(i), 1e-9, "gradient[%d]", i)
	}
}

func TestForwardBackwardAtOptimum(t *testing.T) {
	x, y, thetaTrue, _ := GenerateDebugData()

	loss, gradient, err := ForwardBackward(x, y, thetaTrue)
	require.NoError(t, err)
	assert.InDelta(t, 0, loss, 1e-20)
	for i := 0; i < gradient.Len(); i++ {
		assert.InDelta(t, 0, gradient.AtVec(i), 1e-9)
	}
}

//The analytic gradient must agree with central differences of the loss.
func TestForwardBackwardMatchesFiniteDifferences(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		x, y, theta := GenerateRandomData(seed, 25, int(seed)+1)

		_, gradient, err := ForwardBackward(x, y, theta)
		require.NoError(t, err)

		for i := 0; i < theta.Len(); i++ {
			h := 1e-6
			plus, minus := Clone(theta), Clone(theta)
			plus.SetVec(i, theta.AtVec(i)+h)
			minus.SetVec(i, theta.AtVec(i)-h)

			lossPlus, _, err := ForwardBackward(x, y, plus)
			require.NoError(t, err)
			lossMinus, _, err := ForwardBackward(x, y, minus)
			require.NoError(t, err)

			numeric := (lossPlus - lossMinus) / (2 * h)
			tolerance := 1e-3 * math.Max(1, math.Abs(numeric))
			assert.InDelta(t, numeric, gradient.AtVec(i), tolerance, "seed %d coefficient %d", seed, i)
		}
	}
}

func TestForwardBackwardInvalidInput(t *testing.T) {
	theta := vec(1, 2)
	cases := map[string]struct {
		x, y, theta *mat.VecDense
	}{
		"empty samples":     {nil, nil, theta},
		"mismatched y":      {vec(1, 2, 3), vec(1, 2), theta},
		"no coefficients":   {vec(1, 2), vec(3, 4), nil},
		"empty x, filled y": {nil, vec(1), theta},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ForwardBackward(c.x, c.y, c.theta)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRmse(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2.5), Rmse(vec(0, 0), vec(1, 2)), 1e-12)
	assert.True(t, math.IsNaN(Rmse(vec(0), vec(1, 2))))
}
