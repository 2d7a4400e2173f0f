package pfl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitReducesLoss(t *testing.T) {
	x, y, _, theta := GenerateDebugData()

	result, err := Fit(FitParams{
		X:          x,
		Y:          y,
		Theta:      theta,
		Iterations: 1000,
		Adam:       referenceAdamConfig(),
	})
	require.NoError(t, err)

	require.Len(t, result.LearningCurve, 1000)
	assert.InDelta(t, 140.09, result.LearningCurve[0], 1e-9)
	assert.Less(t, result.LearningCurve[900], result.LearningCurve[0])
	assert.Less(t, result.Loss, result.LearningCurve[0])
	assert.Equal(t, int64(1000), result.Timestep)
	assert.Equal(t, []float64{3, 3, 5}, theta.RawVector().Data, "the initial coefficients are not modified")
}

func TestFitOnSymmetricRange(t *testing.T) {
	x, err := Linspace(-2.5, 2.5, 50)
	require.NoError(t, err)
	y := Forward(x, vec(3.4, 2.9, 4.5))

	result, err := Fit(FitParams{
		X:           x,
		Y:           y,
		Theta:       vec(3, 3, 5),
		Iterations:  1000,
		Adam:        referenceAdamConfig(),
		ReportEvery: 100,
		Description: "symmetric",
	})
	require.NoError(t, err)
	assert.Less(t, result.Loss, result.LearningCurve[0]/10)
}

//Fit must behave exactly like the plain loop over ForwardBackward and Adam.Update.
func TestFitMatchesManualLoop(t *testing.T) {
	x, y, theta := GenerateRandomData(5, 20, 4)
	config := AdamConfig{LR: 0.05, Beta1: 0.8, Beta2: 0.99}

	result, err := Fit(FitParams{X: x, Y: y, Theta: theta, Iterations: 30, Adam: config})
	require.NoError(t, err)

	adam, err := NewAdam(theta.Len(), config)
	require.NoError(t, err)
	manual := Clone(theta)
	for round := 0; round < 30; round++ {
		loss, gradient, err := ForwardBackward(x, y, manual)
		require.NoError(t, err)
		assert.Equal(t, loss, result.LearningCurve[round])
		step, err := adam.Update(gradient)
		require.NoError(t, err)
		manual.SubVec(manual, step)
	}
	assert.Equal(t, manual.RawVector().Data, result.Theta.RawVector().Data)
}

func TestFitInvalid(t *testing.T) {
	x, y, _, theta := GenerateDebugData()

	_, err := Fit(FitParams{X: x, Y: y, Theta: theta, Iterations: 0, Adam: referenceAdamConfig()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Fit(FitParams{X: x, Y: y, Theta: theta, Iterations: 10, Adam: AdamConfig{LR: 0.1, Beta1: 2}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = Fit(FitParams{X: x, Y: vec(1, 2), Theta: theta, Iterations: 10, Adam: referenceAdamConfig()})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Fit(FitParams{X: x, Y: y, Theta: theta, Iterations: 10, ReportEvery: -1, Adam: referenceAdamConfig()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
