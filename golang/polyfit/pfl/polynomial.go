package pfl

import (
	"gonum.org/v1/gonum/mat"
)

//Forward evaluates the polynomial with coefficients theta at every point of x.
//theta[i] is the coefficient of x^i. The result has the length of x whatever the length of theta is.
//Forward panics when theta is empty.
func Forward(x, theta *mat.VecDense) *mat.VecDense {
	k := Length(theta)
	if k == 0 {
		panic(ErrInvalidInput.Error() + ": polynomial without coefficients")
	}
	n := Length(x)
	if n == 0 {
		return &mat.VecDense{}
	}
	prediction := mat.NewVecDense(n, nil)

	for j := 0; j < n; j++ {
		xj := x.AtVec(j)
		result := theta.AtVec(0)
		power := xj
		for i := 1; i < k; i++ {
			result += theta.AtVec(i) * power
			power *= xj
		}
		prediction.SetVec(j, result)
	}
	return prediction
}
