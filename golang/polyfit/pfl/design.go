package pfl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//Design caches the powers x[j]^i of a fixed sample vector for polynomials with k coefficients.
//The samples do not change during training, so the table is built once and reused on every step.
//Results are identical to Forward and ForwardBackward for the same x.
type Design struct {
	n, k   int
	powers *tensor.Dense // n x k, powers[j, i] = x[j]^i
}

//NewDesign builds the power table of x for k coefficients.
func NewDesign(x *mat.VecDense, k int) (*Design, error) {
	n := Length(x)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty sample set")
	}
	if k < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "%d coefficients requested", k)
	}

	powers := tensor.New(tensor.WithShape(n, k), tensor.Of(tensor.Float64))
	for j := 0; j < n; j++ {
		xj := x.AtVec(j)
		power := 1.0
		for i := 0; i < k; i++ {
			if err := powers.SetAt(power, j, i); err != nil {
				return nil, errors.Wrap(err, "fill power table")
			}
			power *= xj
		}
	}
	return &Design{n: n, k: k, powers: powers}, nil
}

//Dims returns the number of samples and the number of coefficients of the design.
func (d *Design) Dims() (n, k int) {
	return d.n, d.k
}

//Power returns x[j]^i.
func (d *Design) Power(j, i int) float64 {
	return d.table()[j*d.k+i]
}

func (d *Design) table() []float64 {
	return d.powers.Data().([]float64)
}

func (d *Design) checkTheta(theta *mat.VecDense) error {
	if k := Length(theta); k != d.k {
		return errors.Wrapf(ErrInvalidInput, "design built for %d coefficients, got %d", d.k, k)
	}
	return nil
}

//Forward evaluates the polynomial theta on the cached samples.
func (d *Design) Forward(theta *mat.VecDense) (*mat.VecDense, error) {
	if err := d.checkTheta(theta); err != nil {
		return nil, err
	}
	table := d.table()
	prediction := mat.NewVecDense(d.n, nil)
	for j := 0; j < d.n; j++ {
		row := table[j*d.k : (j+1)*d.k]
		result := theta.AtVec(0)
		for i := 1; i < d.k; i++ {
			result += theta.AtVec(i) * row[i]
		}
		prediction.SetVec(j, result)
	}
	return prediction, nil
}

//ForwardBackward is ForwardBackward over the cached samples and the targets y.
func (d *Design) ForwardBackward(y, theta *mat.VecDense) (loss float64, gradient *mat.VecDense, err error) {
	if yLen := Length(y); yLen != d.n {
		return 0, nil, errors.Wrapf(ErrInvalidInput, "design has %d samples, y has %d", d.n, yLen)
	}
	prediction, err := d.Forward(theta)
	if err != nil {
		return 0, nil, err
	}

	denom := 1.0 / float64(d.n)
	residual := mat.NewVecDense(d.n, nil)
	residual.SubVec(prediction, y)

	squares := 0.0
	for j := 0; j < d.n; j++ {
		r := residual.AtVec(j)
		squares += r * r
	}
	loss = squares * denom * 0.5

	table := d.table()
	gradient = mat.NewVecDense(d.k, nil)
	for i := 0; i < d.k; i++ {
		s := 0.0
		for j := 0; j < d.n; j++ {
			s += residual.AtVec(j) * table[j*d.k+i]
		}
		gradient.SetVec(i, s*denom)
	}
	return loss, gradient, nil
}
