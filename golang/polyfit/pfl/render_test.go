package pfl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGraph(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "poly.dot")
	require.NoError(t, RenderGraph(vec(3.4, 2.9, 4.5), "dot", filename))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(content), "term_2")
	assert.Contains(t, string(content), "sum")

	assert.ErrorIs(t, RenderGraph(vec(1), "bmp", filename), ErrInvalidConfig)
	assert.ErrorIs(t, RenderGraph(nil, "dot", filename), ErrInvalidInput)
}

func TestPlots(t *testing.T) {
	x, y, _, theta := GenerateDebugData()
	dir := t.TempDir()

	fitFile := filepath.Join(dir, "fit.png")
	require.NoError(t, PlotFit(Samples{X: x, Y: y, Description: "reference"}, theta, fitFile))
	assert.FileExists(t, fitFile)

	curveFile := filepath.Join(dir, "lcurve.svg")
	require.NoError(t, PlotLearningCurve([]float64{3, 2, 1}, "loss", curveFile))
	assert.FileExists(t, curveFile)

	assert.ErrorIs(t, PlotLearningCurve(nil, "loss", curveFile), ErrInvalidInput)
	assert.ErrorIs(t, PlotFit(Samples{X: x, Y: vec(1)}, theta, fitFile), ErrInvalidInput)
}
