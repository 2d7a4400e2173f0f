package pfl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestForwardReferenceQuadratic(t *testing.T) {
	_, y, _, _ := GenerateDebugData()

	expected := []float64{10.8, 27.2, 52.6, 87.0, 130.4, 182.8, 244.2, 314.6}
	require.Equal(t, len(expected), y.Len())
	for j, want := range expected {
		assert.InDelta(t, want, y.AtVec(j), 1e-9, "yhat[%d]", j)
	}
}

func TestForwardConstantPolynomial(t *testing.T) {
	x := vec(-3, -0.5, 0, 0.25, 2, 100)
	for k := 1; k <= 5; k++ {
		theta := mat.NewVecDense(k, nil)
		theta.SetVec(0, 1.75)

		prediction := Forward(x, theta)
		require.Equal(t, x.Len(), prediction.Len())
		for j := 0; j < prediction.Len(); j++ {
			assert.Equal(t, 1.75, prediction.AtVec(j), "k=%d j=%d", k, j)
		}
	}
}

func TestForwardLengthFollowsSamples(t *testing.T) {
	x, _, _ := GenerateRandomData(7, 13, 2)
	assert.Equal(t, 13, Forward(x, vec(1, 2, 3, 4, 5, 6)).Len())
	assert.Equal(t, 13, Forward(x, vec(1)).Len())
}

func TestForwardPanicsWithoutCoefficients(t *testing.T) {
	assert.Panics(t, func() { Forward(vec(1, 2), nil) })
}
