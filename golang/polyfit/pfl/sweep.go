package pfl

import (
	"math"

	"github.com/pkg/errors"
)

//SweepParams describe a learning rate sweep. Base supplies the samples, the initial coefficients,
//the number of rounds and the decay rates; its learning rate is replaced by each entry of LearningRates.
type SweepParams struct {
	Base          FitParams
	LearningRates []float64
	ThreadsNum    int
}

//SweepResult is the outcome of one run of a sweep.
type SweepResult struct {
	LearningRate float64
	Fit          *FitResult
	Err          error
}

//TaskFit trains one run of a sweep and stores the outcome at its index.
type TaskFit struct {
	results []SweepResult
	index   int
	fit     func(index int) SweepResult
}

//Execute runs the task.
func (task *TaskFit) Execute() {
	task.results[task.index] = task.fit(task.index)
}

//Sweep trains one independent model per learning rate and returns the results in the order of
//params.LearningRates together with the index of the run with the smallest final loss.
//Runs share the samples read-only and each owns its optimizer. best is -1 when every run diverged to NaN.
func Sweep(params SweepParams) (results []SweepResult, best int, err error) {
	if len(params.LearningRates) == 0 {
		return nil, -1, errors.Wrap(ErrInvalidConfig, "no learning rates to sweep")
	}
	for _, lr := range params.LearningRates {
		config := params.Base.Adam
		config.LR = lr
		if err := config.Validate(); err != nil {
			return nil, -1, err
		}
	}

	results = make([]SweepResult, len(params.LearningRates))
	fit := func(index int) SweepResult {
		runParams := params.Base
		runParams.Adam.LR = params.LearningRates[index]
		runParams.ReportEvery = 0
		fitResult, err := Fit(runParams)
		if err == nil {
			logger.Info("sweep run finished", "learning_rate", runParams.Adam.LR, "loss", fitResult.Loss)
		}
		return SweepResult{LearningRate: runParams.Adam.LR, Fit: fitResult, Err: err}
	}

	taskPool := NewPool(params.ThreadsNum)
	for index := range params.LearningRates {
		taskPool.AddTask(&TaskFit{results, index, fit})
	}
	taskPool.Close()
	taskPool.WaitAll()

	best = -1
	minimalLoss := math.Inf(1)
	for index, result := range results {
		if result.Err != nil {
			return results, -1, errors.Wrapf(result.Err, "run with learning rate %g", result.LearningRate)
		}
		if !math.IsNaN(result.Fit.Loss) && (best == -1 || result.Fit.Loss < minimalLoss) {
			best = index
			minimalLoss = result.Fit.Loss
		}
	}
	return results, best, nil
}
