package pfl

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

//GenerateDebugData returns the eight integer samples of the reference quadratic 3.4 + 2.9x + 4.5x^2
//and the starting point used to check the gradient.
func GenerateDebugData() (x, y, thetaTrue, thetaStart *mat.VecDense) {
	x = vec(1, 2, 3, 4, 5, 6, 7, 8)
	thetaTrue = vec(3.4, 2.9, 4.5)
	thetaStart = vec(3, 3, 5)
	y = Forward(x, thetaTrue)
	return
}

//GenerateRandomData returns n samples in [-2, 2] of a random polynomial with k coefficients.
func GenerateRandomData(seed int64, n, k int) (x, y, theta *mat.VecDense) {
	rnd := rand.New(rand.NewSource(seed))
	x = mat.NewVecDense(n, nil)
	y = mat.NewVecDense(n, nil)
	theta = mat.NewVecDense(k, nil)
	for j := 0; j < n; j++ {
		x.SetVec(j, 4*rnd.Float64()-2)
		y.SetVec(j, 10*rnd.Float64()-5)
	}
	for i := 0; i < k; i++ {
		theta.SetVec(i, 2*rnd.Float64()-1)
	}
	return
}
