package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/charmbracelet/log"
	"github.com/tarstars/adam_polyfit/golang/polyfit/pfl"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation limits.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	pfl.HandleError(err)
	defer func() { pfl.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	pfl.HandleError(decoder.Decode(out))
}

func vector(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), append([]float64(nil), values...))
}

//SamplesConfig selects the samples: either two npy files or points generated from known coefficients.
type SamplesConfig struct {
	FileNameX        string    `json:"filename_x"`
	FileNameY        string    `json:"filename_y"`
	TrueCoefficients []float64 `json:"true_coefficients"`
	RangeLo          float64   `json:"range_lo"`
	RangeHi          float64   `json:"range_hi"`
	Points           int       `json:"points"`
	Description      string    `json:"description"`
}

func (config SamplesConfig) load() pfl.Samples {
	if config.FileNameX != "" {
		samples, err := pfl.ReadSamples(config.FileNameX, config.FileNameY)
		pfl.HandleError(err)
		samples.Description = config.Description
		return samples
	}

	trueCoefficients := config.TrueCoefficients
	if len(trueCoefficients) == 0 {
		trueCoefficients = []float64{3.4, 2.9, 4.5}
	}
	lo, hi, points := config.RangeLo, config.RangeHi, config.Points
	if lo == 0 && hi == 0 {
		lo, hi = -2.5, 2.5
	}
	if points == 0 {
		points = 50
	}
	x, err := pfl.Linspace(lo, hi, points)
	pfl.HandleError(err)
	pfl.Logger().Info("generated samples", "points", points, "lo", lo, "hi", hi, "coefficients", trueCoefficients)
	return pfl.Samples{X: x, Y: pfl.Forward(x, vector(trueCoefficients)), Description: config.Description}
}

type TrainConfig struct {
	Samples               SamplesConfig  `json:"samples"`
	InitialCoefficients   []float64      `json:"initial_coefficients"`
	Iterations            int            `json:"iterations"`
	Adam                  pfl.AdamConfig `json:"adam"`
	ReportEvery           int            `json:"report_every"`
	FileNameModel         string         `json:"filename_model"`
	FileNameLearningCurve string         `json:"filename_learning_curve"`
	FileNameCoefficients  string         `json:"filename_coefficients"`
}

//defaultTrainConfig returns the values used for every key a train config leaves out.
func defaultTrainConfig() TrainConfig {
	return TrainConfig{Adam: pfl.DefaultAdamConfig()}
}

func train(srcConfig string) {
	trainConfig := defaultTrainConfig()
	decodeConfig(srcConfig, &trainConfig)

	samples := trainConfig.Samples.load()
	result, err := pfl.Fit(pfl.FitParams{
		X:           samples.X,
		Y:           samples.Y,
		Theta:       vector(trainConfig.InitialCoefficients),
		Iterations:  trainConfig.Iterations,
		Adam:        trainConfig.Adam,
		ReportEvery: trainConfig.ReportEvery,
		Description: samples.Description,
	})
	pfl.HandleError(err)

	report, err := pfl.Evaluate(samples.X, samples.Y, result.Theta)
	pfl.HandleError(err)
	pfl.Logger().Info("final parameters",
		"coefficients", result.Theta.RawVector().Data,
		"loss", report.Loss, "rmse", report.RMSE, "r2", report.R2)

	model := result.Model(trainConfig.Adam)
	if trainConfig.FileNameModel != "" {
		pfl.HandleError(model.Save(trainConfig.FileNameModel))
	}
	if trainConfig.FileNameLearningCurve != "" {
		pfl.HandleError(model.DumpLearningCurve(trainConfig.FileNameLearningCurve))
	}
	if trainConfig.FileNameCoefficients != "" {
		pfl.HandleError(pfl.WriteNpy(trainConfig.FileNameCoefficients, result.Theta))
	}
}

type PredictConfig struct {
	DataFileName       string `json:"filename_x"`
	ModelFileName      string `json:"filename_model"`
	PredictionFileName string `json:"filename_prediction"`
}

func predict(srcConfig string) {
	var predictConfig PredictConfig
	decodeConfig(srcConfig, &predictConfig)

	x, err := pfl.ReadNpy(predictConfig.DataFileName)
	pfl.HandleError(err)
	model, err := pfl.LoadModel(predictConfig.ModelFileName)
	pfl.HandleError(err)

	prediction, err := model.Predict(x)
	pfl.HandleError(err)
	pfl.HandleError(pfl.WriteNpy(predictConfig.PredictionFileName, prediction))
}

type LcurveConfig struct {
	ModelFileName         string `json:"filename_model"`
	LearningCurveFileName string `json:"filename_learning_curve"`
	PlotFileName          string `json:"filename_plot"`
}

func lcurve(srcConfig string) {
	var lcurveConfig LcurveConfig
	decodeConfig(srcConfig, &lcurveConfig)

	model, err := pfl.LoadModel(lcurveConfig.ModelFileName)
	pfl.HandleError(err)
	if lcurveConfig.LearningCurveFileName != "" {
		pfl.HandleError(model.DumpLearningCurve(lcurveConfig.LearningCurveFileName))
	}
	if lcurveConfig.PlotFileName != "" {
		pfl.HandleError(pfl.PlotLearningCurve(model.LearningCurve, "learning curve", lcurveConfig.PlotFileName))
	}
}

type GraphConfig struct {
	ModelFileName  string `json:"filename_model"`
	FigureType     string `json:"figure_type"`
	FigureFileName string `json:"filename_figure"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	model, err := pfl.LoadModel(graphConfig.ModelFileName)
	pfl.HandleError(err)
	theta, err := model.Theta()
	pfl.HandleError(err)
	pfl.HandleError(pfl.RenderGraph(theta, graphConfig.FigureType, graphConfig.FigureFileName))
}

type PlotConfig struct {
	Samples       SamplesConfig `json:"samples"`
	ModelFileName string        `json:"filename_model"`
	PlotFileName  string        `json:"filename_plot"`
}

func plotFit(srcConfig string) {
	var plotConfig PlotConfig
	decodeConfig(srcConfig, &plotConfig)

	model, err := pfl.LoadModel(plotConfig.ModelFileName)
	pfl.HandleError(err)
	theta, err := model.Theta()
	pfl.HandleError(err)
	pfl.HandleError(pfl.PlotFit(plotConfig.Samples.load(), theta, plotConfig.PlotFileName))
}

type SweepConfig struct {
	Samples             SamplesConfig `json:"samples"`
	InitialCoefficients []float64     `json:"initial_coefficients"`
	Iterations          int           `json:"iterations"`
	Beta1               float64       `json:"beta1"`
	Beta2               float64       `json:"beta2"`
	LearningRates       []float64     `json:"learning_rates"`
	ThreadsNum          int           `json:"threads_num"`
	FileNameModel       string        `json:"filename_model"`
}

//defaultSweepConfig returns the values used for every key a sweep config leaves out.
func defaultSweepConfig() SweepConfig {
	defaults := pfl.DefaultAdamConfig()
	return SweepConfig{Beta1: defaults.Beta1, Beta2: defaults.Beta2}
}

func sweep(srcConfig string) {
	sweepConfig := defaultSweepConfig()
	decodeConfig(srcConfig, &sweepConfig)

	samples := sweepConfig.Samples.load()
	adamConfig := pfl.AdamConfig{Beta1: sweepConfig.Beta1, Beta2: sweepConfig.Beta2}
	results, best, err := pfl.Sweep(pfl.SweepParams{
		Base: pfl.FitParams{
			X:          samples.X,
			Y:          samples.Y,
			Theta:      vector(sweepConfig.InitialCoefficients),
			Iterations: sweepConfig.Iterations,
			Adam:       adamConfig,
		},
		LearningRates: sweepConfig.LearningRates,
		ThreadsNum:    sweepConfig.ThreadsNum,
	})
	pfl.HandleError(err)

	for _, result := range results {
		pfl.Logger().Info("sweep", "learning_rate", result.LearningRate, "loss", result.Fit.Loss)
	}
	if best < 0 {
		pfl.Logger().Warn("every run diverged")
		return
	}
	pfl.Logger().Info("best run", "learning_rate", results[best].LearningRate, "coefficients", results[best].Fit.Theta.RawVector().Data)
	if sweepConfig.FileNameModel != "" {
		adamConfig.LR = results[best].LearningRate
		pfl.HandleError(results[best].Fit.Model(adamConfig).Save(sweepConfig.FileNameModel))
	}
}

type LstsqConfig struct {
	Samples              SamplesConfig `json:"samples"`
	Degree               int           `json:"degree"`
	RegLambda            float64       `json:"reg_lambda"`
	FileNameCoefficients string        `json:"filename_coefficients"`
}

func lstsq(srcConfig string) {
	var lstsqConfig LstsqConfig
	decodeConfig(srcConfig, &lstsqConfig)

	samples := lstsqConfig.Samples.load()
	theta, err := pfl.LeastSquares(samples.X, samples.Y, lstsqConfig.Degree, lstsqConfig.RegLambda)
	pfl.HandleError(err)
	report, err := pfl.Evaluate(samples.X, samples.Y, theta)
	pfl.HandleError(err)
	pfl.Logger().Info("closed form solution", "coefficients", theta.RawVector().Data, "loss", report.Loss, "r2", report.R2)
	if lstsqConfig.FileNameCoefficients != "" {
		pfl.HandleError(pfl.WriteNpy(lstsqConfig.FileNameCoefficients, theta))
	}
}

func setupLogging(level, logFile string) {
	var out io.Writer = os.Stderr
	if logFile != "" {
		fileLog := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		out = io.MultiWriter(os.Stderr, fileLog)
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "polyfit"})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	pfl.SetLogger(logger)
}

func main() {
	runMode := flag.String("mode", "train", "you can select either 'train', 'predict', 'lcurve', 'graph', 'plot', 'sweep' or 'lstsq' modes")
	config := flag.String("config", "polyfit_config.json", "a config file for the run of the program")
	logLevel := flag.String("log_level", "info", "debug, info, warn or error")
	logFile := flag.String("log_file", "", "also write logs to this rotated `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()
	setupLogging(*logLevel, *logFile)

	modes := map[string]func(string){
		"train":   train,
		"predict": predict,
		"lcurve":  lcurve,
		"graph":   graph,
		"plot":    plotFit,
		"sweep":   sweep,
		"lstsq":   lstsq,
	}
	run, ok := modes[*runMode]
	if !ok {
		pfl.Logger().Fatal("unknown mode", "mode", *runMode)
	}
	run(*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		pfl.HandleError(err)
		defer func() { pfl.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			pfl.Logger().Fatal("could not write memory profile", "err", err)
		}
	}
}
