package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positive-area/internal/config"
	"positive-area/internal/logger"
	"positive-area/internal/opencv"
	"positive-area/internal/opencv/memory"
	"positive-area/internal/processing/filters"
	"positive-area/internal/pyramid"
	"positive-area/internal/testfixtures"
)

func TestNewWiresDefaults(t *testing.T) {
	a, err := New(config.DefaultConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Shutdown()

	assert.ElementsMatch(t, []string{"image", "opencv"}, a.Openers.Names())
	assert.Equal(t, "image", a.Runner.ReaderName)
	assert.Equal(t, "_processed", a.Runner.Writer.Suffix)
	assert.Equal(t, 1.3, a.Runner.Engine.PixelSize)
	assert.NoError(t, a.Context().Err())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Processing.Smoothing = "median"
	_, err := New(cfg, logger.NewNop())
	assert.ErrorContains(t, err, "median")
}

func TestNewSmoother(t *testing.T) {
	cfg := config.DefaultConfig()
	mm := memory.NewManager(logger.NewNop())

	s, err := NewSmoother(cfg, mm)
	require.NoError(t, err)
	assert.IsType(t, &filters.GaussianFilter{}, s)

	cfg.Processing.Smoothing = config.SmoothingOpenCV
	s, err = NewSmoother(cfg, mm)
	require.NoError(t, err)
	assert.IsType(t, &opencv.GaussianFilter{}, s)
}

func TestCancelAndShutdown(t *testing.T) {
	a, err := New(config.DefaultConfig(), logger.NewNop())
	require.NoError(t, err)

	a.Cancel()
	assert.ErrorIs(t, a.Context().Err(), context.Canceled)
	a.Shutdown()
	a.Shutdown()
	assert.Zero(t, a.MemoryStats().ActiveMats)
}

func TestEndToEndWithImageReader(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Processing.PyramidLevel = 1
	cfg.Processing.BasePixelSize = 0.5

	a, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Shutdown()

	testfixtures.WriteRGBTIFF(t, filepath.Join(dir, "slide.tif"),
		pyramid.Uniform(8, 8, 10),
		pyramid.Uniform(8, 8, 3000),
		pyramid.Uniform(8, 8, 0),
	)
	spec := filepath.Join(dir, "S1.xlsx")
	testfixtures.WriteSpec(t, spec, testfixtures.Spec{
		SlideName:  "S1",
		ImagePath:  "slide.tif",
		Thresholds: [][]interface{}{{2, 1000}, {1, 5}, {3, 1}},
	})

	out, err := a.Runner.ProcessSingle(a.Context(), spec, filepath.Join(dir, "results"))
	require.NoError(t, err)
	assert.FileExists(t, out)

	res, err := a.Runner.GenerateReport(filepath.Join(dir, "results"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Groups)
}
