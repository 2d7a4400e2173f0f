package pfl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//curvePoints is the number of points used to draw a fitted polynomial.
const curvePoints = 200

//plotterXY provides a plotter.XYs value based on the given x and y data.
func plotterXY(x, y *mat.VecDense) plotter.XYs {
	xy := make(plotter.XYs, Length(x))
	for i := range xy {
		xy[i].X = x.AtVec(i)
		xy[i].Y = y.AtVec(i)
	}
	return xy
}

//plotToFile creates a plot with the given titles, lets draw fill it and saves it.
//The image format follows the extension of filename.
func plotToFile(filename, title, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	if err := draw(p); err != nil {
		return errors.Wrap(err, "could not draw plot contents")
	}
	return errors.Wrap(p.Save(15*vg.Centimeter, 15*vg.Centimeter, filename), "could not save plot")
}

//PlotFit draws the samples as a scatter and the polynomial theta as a line over the range of the samples.
func PlotFit(samples Samples, theta *mat.VecDense, filename string) error {
	if err := samples.Validate(); err != nil {
		return err
	}
	if Length(theta) == 0 {
		return errors.Wrap(ErrInvalidInput, "polynomial without coefficients")
	}
	xs := rawData(samples.X)
	curveX, err := Linspace(floats.Min(xs), floats.Max(xs), curvePoints)
	if err != nil {
		return err
	}
	curveY := Forward(curveX, theta)

	return plotToFile(filename, samples.Description, "x", "y", func(p *plot.Plot) error {
		scatter, err := plotter.NewScatter(plotterXY(samples.X, samples.Y))
		if err != nil {
			return err
		}
		line, err := plotter.NewLine(plotterXY(curveX, curveY))
		if err != nil {
			return err
		}
		p.Add(scatter, line)
		p.Legend.Add("samples", scatter)
		p.Legend.Add("fit", line)
		return nil
	})
}

//PlotLearningCurve draws the loss of every training round.
func PlotLearningCurve(curve []float64, title, filename string) error {
	if len(curve) == 0 {
		return errors.Wrap(ErrInvalidInput, "empty learning curve")
	}
	xy := make(plotter.XYs, len(curve))
	for i, loss := range curve {
		xy[i].X = float64(i)
		xy[i].Y = loss
	}
	return plotToFile(filename, title, "round", "loss", func(p *plot.Plot) error {
		line, err := plotter.NewLine(xy)
		if err != nil {
			return err
		}
		p.Add(line)
		return nil
	})
}
