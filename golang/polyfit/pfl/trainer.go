package pfl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//FitParams collect arguments required to fit a polynomial.
type FitParams struct {
	X, Y        *mat.VecDense
	Theta       *mat.VecDense // initial coefficients, left untouched
	Iterations  int
	Adam        AdamConfig
	ReportEvery int // log the loss every ReportEvery rounds, 0 disables progress messages
	Description string
}

//FitResult is the outcome of a training run.
type FitResult struct {
	Theta         *mat.VecDense
	LearningCurve []float64 // loss at the start of every round
	Loss          float64   // loss of the final coefficients
	Timestep      int64
}

//Fit trains the coefficients with Adam for a fixed number of rounds.
//Every round computes the loss and its gradient, asks the optimizer for a step and subtracts it.
func Fit(params FitParams) (*FitResult, error) {
	if params.Iterations < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "%d iterations", params.Iterations)
	}
	if params.ReportEvery < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "report period %d", params.ReportEvery)
	}
	if _, _, err := validateSamples(params.X, params.Y, params.Theta); err != nil {
		return nil, err
	}

	theta := Clone(params.Theta)
	design, err := NewDesign(params.X, theta.Len())
	if err != nil {
		return nil, err
	}
	adam, err := NewAdam(theta.Len(), params.Adam)
	if err != nil {
		return nil, err
	}

	result := &FitResult{LearningCurve: make([]float64, 0, params.Iterations)}
	for round := 0; round < params.Iterations; round++ {
		loss, gradient, err := design.ForwardBackward(params.Y, theta)
		if err != nil {
			return nil, err
		}
		step, err := adam.Update(gradient)
		if err != nil {
			return nil, err
		}
		theta.SubVec(theta, step)

		result.LearningCurve = append(result.LearningCurve, loss)
		if params.ReportEvery > 0 && round%params.ReportEvery == 0 {
			logger.Info("training", "description", params.Description, "round", round, "loss", loss)
		}
	}

	result.Loss, _, err = design.ForwardBackward(params.Y, theta)
	if err != nil {
		return nil, err
	}
	result.Theta = theta
	result.Timestep = adam.Timestep()
	logger.Debug("training finished", "description", params.Description, "loss", result.Loss, "timestep", result.Timestep)
	return result, nil
}

//Model converts the result into a persistable model.
func (result FitResult) Model(config AdamConfig) PolyModel {
	return PolyModel{
		Coefficients:  append([]float64(nil), result.Theta.RawVector().Data...),
		LearningCurve: append([]float64(nil), result.LearningCurve...),
		Adam:          config,
		Iterations:    len(result.LearningCurve),
	}
}
