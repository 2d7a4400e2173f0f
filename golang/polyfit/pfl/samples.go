package pfl

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Samples is a paired set of points (X[j], Y[j]).
type Samples struct {
	X, Y        *mat.VecDense
	Description string
}

//Validate checks that the samples are non-empty and paired.
func (s Samples) Validate() error {
	n := Length(s.X)
	if n == 0 {
		return errors.Wrap(ErrInvalidInput, "empty sample set")
	}
	if yLen := Length(s.Y); yLen != n {
		return errors.Wrapf(ErrInvalidInput, "x has %d samples, y has %d", n, yLen)
	}
	return nil
}

//ReadSamples reads x and y from two 1-D npy files.
func ReadSamples(fileNameX, fileNameY string) (s Samples, err error) {
	logger.Debug("load samples", "x", fileNameX, "y", fileNameY)
	if s.X, err = ReadNpy(fileNameX); err != nil {
		return s, err
	}
	if s.Y, err = ReadNpy(fileNameY); err != nil {
		return s, err
	}
	return s, s.Validate()
}

//ReadNpy reads a float64 npy array of any shape and returns its elements as a vector.
func ReadNpy(fileName string) (*mat.VecDense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read npy header of %s", fileName)
	}

	var data []float64
	if err := r.Read(&data); err != nil {
		return nil, errors.Wrapf(err, "read npy data of %s", fileName)
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "%s holds no values", fileName)
	}
	return mat.NewVecDense(len(data), data), nil
}

//WriteNpy writes the vector as a 1-D npy array.
func WriteNpy(fileName string, v *mat.VecDense) (err error) {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	defer func() {
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
	}()

	data := make([]float64, Length(v))
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return errors.Wrapf(npyio.Write(dst, data), "write %s", fileName)
}

//Linspace returns n evenly spaced points from lo to hi inclusive.
func Linspace(lo, hi float64, n int) (*mat.VecDense, error) {
	if n < 2 {
		return nil, errors.Wrapf(ErrInvalidInput, "linspace needs at least 2 points, got %d", n)
	}
	return mat.NewVecDense(n, floats.Span(make([]float64, n), lo, hi)), nil
}
