package pfl

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//adamEpsilon keeps the step finite when the second moment is zero.
const adamEpsilon = 1e-8

//AdamConfig holds the hyperparameters of an Adam optimizer.
type AdamConfig struct {
	LR    float64 `json:"learning_rate"`
	Beta1 float64 `json:"beta1"`
	Beta2 float64 `json:"beta2"`
}

//DefaultAdamConfig returns the usual Adam hyperparameters lr=0.001, b1=0.9, b2=0.999.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{LR: 0.001, Beta1: 0.9, Beta2: 0.999}
}

//Validate reports ErrInvalidConfig unless lr > 0 and both decays lie in [0, 1).
func (config AdamConfig) Validate() error {
	if !(config.LR > 0) || math.IsInf(config.LR, 1) {
		return errors.Wrapf(ErrInvalidConfig, "learning rate %g must be positive", config.LR)
	}
	if !(config.Beta1 >= 0 && config.Beta1 < 1) {
		return errors.Wrapf(ErrInvalidConfig, "beta1 %g is outside [0, 1)", config.Beta1)
	}
	if !(config.Beta2 >= 0 && config.Beta2 < 1) {
		return errors.Wrapf(ErrInvalidConfig, "beta2 %g is outside [0, 1)", config.Beta2)
	}
	return nil
}

//Adam is the Adam optimizer bound to a parameter vector of a fixed length.
//
//Every Update performs
//
//	t     = t + 1
//	m     = b1*m + (1-b1)*g
//	v     = b2*v + (1-b2)*g^2
//	m_hat = m / (1 - b1^t)
//	v_hat = v / (1 - b2^t)
//	step  = lr * m_hat / (sqrt(v_hat) + eps)
//
//and returns step. The caller subtracts the step from its parameters, Adam never touches them.
//
//An Adam value is not safe for concurrent use: Update calls on one instance must be serialized.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	t     int64 // number of Update calls so far
	m     *mat.VecDense
	v     *mat.VecDense
}

//NewAdam creates an optimizer for parameter vectors of length shape with zero moments and t = 0.
func NewAdam(shape int, config AdamConfig) (*Adam, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if shape < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "parameter shape %d must be at least 1", shape)
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Beta1,
		beta2: config.Beta2,
		m:     mat.NewVecDense(shape, nil),
		v:     mat.NewVecDense(shape, nil),
	}, nil
}

//Update advances the moment estimates with gradient and returns the step to subtract from the parameters.
func (a *Adam) Update(gradient *mat.VecDense) (*mat.VecDense, error) {
	k := a.m.Len()
	if gLen := Length(gradient); gLen != k {
		return nil, errors.Wrapf(ErrShapeMismatch, "gradient of length %d, optimizer bound to %d", gLen, k)
	}

	a.t++
	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	step := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		g := gradient.AtVec(i)
		m := a.beta1*a.m.AtVec(i) + (1.0-a.beta1)*g
		v := a.beta2*a.v.AtVec(i) + (1.0-a.beta2)*g*g
		a.m.SetVec(i, m)
		a.v.SetVec(i, v)

		mHat := m / biasCorrection1
		vHat := v / biasCorrection2
		step.SetVec(i, mHat/(math.Sqrt(vHat)+adamEpsilon)*a.lr)
	}
	return step, nil
}

//Timestep returns the number of updates performed so far.
func (a *Adam) Timestep() int64 {
	return a.t
}

//Shape returns the length of the parameter vector the optimizer is bound to.
func (a *Adam) Shape() int {
	return a.m.Len()
}

//LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

//SetLR changes the learning rate, for example from a schedule. The moments are kept.
func (a *Adam) SetLR(lr float64) error {
	if err := (AdamConfig{LR: lr, Beta1: a.beta1, Beta2: a.beta2}).Validate(); err != nil {
		return err
	}
	a.lr = lr
	return nil
}

//Moments returns copies of the first and the second moment estimates.
func (a *Adam) Moments() (m, v *mat.VecDense) {
	return Clone(a.m), Clone(a.v)
}
