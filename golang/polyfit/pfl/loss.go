package pfl

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//validateSamples checks that x and y form a non-empty paired sample set and that theta has coefficients.
//It returns the number of samples and the number of coefficients.
func validateSamples(x, y, theta *mat.VecDense) (n, k int, err error) {
	n = Length(x)
	if n == 0 {
		return 0, 0, errors.Wrap(ErrInvalidInput, "empty sample set")
	}
	if yLen := Length(y); yLen != n {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "x has %d samples, y has %d", n, yLen)
	}
	k = Length(theta)
	if k == 0 {
		return 0, 0, errors.Wrap(ErrInvalidInput, "polynomial without coefficients")
	}
	return n, k, nil
}

//ForwardBackward computes the halved mean squared error of the polynomial theta on the samples (x, y)
//and its analytic gradient with respect to every coefficient:
//
//	loss       = 0.5 * mean((yhat - y)^2)
//	gradient_i = mean((yhat - y) * x^i)
func ForwardBackward(x, y, theta *mat.VecDense) (loss float64, gradient *mat.VecDense, err error) {
	n, k, err := validateSamples(x, y, theta)
	if err != nil {
		return 0, nil, err
	}

	denom := 1.0 / float64(n)
	residual := mat.NewVecDense(n, nil)
	residual.SubVec(Forward(x, theta), y)

	squares := 0.0
	for j := 0; j < n; j++ {
		r := residual.AtVec(j)
		squares += r * r
	}
	loss = squares * denom * 0.5

	gradient = mat.NewVecDense(k, nil)
	power := make([]float64, n)
	for j := range power {
		power[j] = 1
	}
	for i := 0; i < k; i++ {
		s := 0.0
		for j := 0; j < n; j++ {
			s += residual.AtVec(j) * power[j]
			power[j] *= x.AtVec(j)
		}
		gradient.SetVec(i, s*denom)
	}
	return loss, gradient, nil
}

//Rmse returns the root mean squared error between the prediction and the target.
func Rmse(target, prediction *mat.VecDense) float64 {
	n := Length(target)
	if n == 0 || n != Length(prediction) {
		return math.NaN()
	}
	s := 0.0
	for j := 0; j < n; j++ {
		d := prediction.AtVec(j) - target.AtVec(j)
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}
