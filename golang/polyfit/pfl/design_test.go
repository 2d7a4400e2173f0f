package pfl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignPowers(t *testing.T) {
	design, err := NewDesign(vec(2, -3), 4)
	require.NoError(t, err)

	n, k := design.Dims()
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, k)
	assert.Equal(t, []float64{1, 2, 4, 8}, []float64{design.Power(0, 0), design.Power(0, 1), design.Power(0, 2), design.Power(0, 3)})
	assert.Equal(t, []float64{1, -3, 9, -27}, []float64{design.Power(1, 0), design.Power(1, 1), design.Power(1, 2), design.Power(1, 3)})
}

//The cached table must reproduce the direct computation bit for bit.
func TestDesignMatchesDirectComputation(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		x, y, theta := GenerateRandomData(seed, 40, int(seed)+2)
		design, err := NewDesign(x, theta.Len())
		require.NoError(t, err)

		prediction, err := design.Forward(theta)
		require.NoError(t, err)
		assert.Equal(t, Forward(x, theta).RawVector().Data, prediction.RawVector().Data)

		loss, gradient, err := design.ForwardBackward(y, theta)
		require.NoError(t, err)
		directLoss, directGradient, err := ForwardBackward(x, y, theta)
		require.NoError(t, err)
		assert.Equal(t, directLoss, loss)
		assert.Equal(t, directGradient.RawVector().Data, gradient.RawVector().Data)
	}
}

func TestDesignReference(t *testing.T) {
	x, y, _, theta := GenerateDebugData()
	design, err := NewDesign(x, 3)
	require.NoError(t, err)

	loss, gradient, err := design.ForwardBackward(y, theta)
	require.NoError(t, err)
	assert.InDelta(t, 140.09, loss, 1e-9)
	assert.InDeltaSlice(t, []float64{12.8, 81.75, 554.25}, gradient.RawVector().Data, 1e-9)
}

func TestDesignInvalidInput(t *testing.T) {
	_, err := NewDesign(nil, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewDesign(vec(1), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	design, err := NewDesign(vec(1, 2, 3), 2)
	require.NoError(t, err)
	_, err = design.Forward(vec(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = design.ForwardBackward(vec(1, 2), vec(1, 2))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
