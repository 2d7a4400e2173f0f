package pfl

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//PolyModel is a fitted polynomial together with the history of its training.
type PolyModel struct {
	Coefficients  []float64
	LearningCurve []float64
	Adam          AdamConfig
	Iterations    int
}

//Theta returns the coefficients as a vector.
func (model PolyModel) Theta() (*mat.VecDense, error) {
	if len(model.Coefficients) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "model without coefficients")
	}
	return mat.NewVecDense(len(model.Coefficients), append([]float64(nil), model.Coefficients...)), nil
}

//Predict evaluates the model at every point of x.
func (model PolyModel) Predict(x *mat.VecDense) (*mat.VecDense, error) {
	theta, err := model.Theta()
	if err != nil {
		return nil, err
	}
	return Forward(x, theta), nil
}

//Save writes the model as indented JSON.
func (model PolyModel) Save(filename string) (err error) {
	dest, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "can't open file %s to write", filename)
	}
	defer func() {
		if closeErr := dest.Close(); err == nil {
			err = closeErr
		}
	}()

	modelByteRepr, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal model")
	}
	_, err = dest.Write(modelByteRepr)
	return errors.Wrapf(err, "write %s", filename)
}

//LoadModel reads a model written by Save.
func LoadModel(filename string) (model PolyModel, err error) {
	source, err := os.Open(filename)
	if err != nil {
		return model, errors.Wrapf(err, "open model %s", filename)
	}
	defer source.Close()

	if err := json.NewDecoder(source).Decode(&model); err != nil {
		return model, errors.Wrapf(err, "decode model %s", filename)
	}
	return model, nil
}

//DumpLearningCurve writes the per-round losses as a 1-D npy array.
func (model PolyModel) DumpLearningCurve(filename string) error {
	if len(model.LearningCurve) == 0 {
		return errors.Wrap(ErrInvalidInput, "empty learning curve")
	}
	return WriteNpy(filename, mat.NewVecDense(len(model.LearningCurve), model.LearningCurve))
}
