package pfl

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//Report summarizes how well a polynomial describes a sample set.
type Report struct {
	Loss float64 // halved mean squared error, the training objective
	RMSE float64
	R2   float64 // coefficient of determination
}

//Evaluate measures the polynomial theta on the samples (x, y).
func Evaluate(x, y, theta *mat.VecDense) (Report, error) {
	loss, _, err := ForwardBackward(x, y, theta)
	if err != nil {
		return Report{}, err
	}
	prediction := Forward(x, theta)
	return Report{
		Loss: loss,
		RMSE: Rmse(y, prediction),
		R2:   stat.RSquaredFrom(prediction.RawVector().Data, rawData(y), nil),
	}, nil
}

func rawData(v *mat.VecDense) []float64 {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}
