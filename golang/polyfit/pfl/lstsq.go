package pfl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//LeastSquares returns the coefficients of the polynomial of the given degree minimizing the squared error
//on (x, y), regularized by regLambda * |theta|^2. It solves the normal equations of the Vandermonde design.
func LeastSquares(x, y *mat.VecDense, degree int, regLambda float64) (*mat.VecDense, error) {
	if degree < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "negative degree %d", degree)
	}
	if regLambda < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "negative regularization %g", regLambda)
	}
	k := degree + 1
	design, err := NewDesign(x, k)
	if err != nil {
		return nil, err
	}
	n, _ := design.Dims()
	if yLen := Length(y); yLen != n {
		return nil, errors.Wrapf(ErrInvalidInput, "x has %d samples, y has %d", n, yLen)
	}

	vandermonde := mat.NewDense(n, k, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < k; i++ {
			vandermonde.Set(j, i, design.Power(j, i))
		}
	}

	hess := mat.NewDense(k, k, nil)
	hess.Mul(vandermonde.T(), vandermonde)
	for i := 0; i < k; i++ {
		hess.Set(i, i, hess.At(i, i)+regLambda)
	}
	grad := mat.NewVecDense(k, nil)
	grad.MulVec(vandermonde.T(), y)

	theta := mat.NewVecDense(k, nil)
	if err := theta.SolveVec(hess, grad); err != nil {
		var condition mat.Condition
		if !errors.As(err, &condition) {
			return nil, errors.Wrap(err, "solve normal equations")
		}
		logger.Warn("normal equations are ill-conditioned", "condition", float64(condition))
	}
	return theta, nil
}
