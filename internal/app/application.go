// Package app builds the processing stack from configuration. The CLI and
// the GUI both start here.
package app

import (
	"context"
	"fmt"

	"positive-area/internal/config"
	"positive-area/internal/logger"
	"positive-area/internal/metrics"
	"positive-area/internal/opencv"
	"positive-area/internal/opencv/memory"
	"positive-area/internal/pipeline"
	"positive-area/internal/processing/filters"
	"positive-area/internal/pyramid"
	"positive-area/internal/report"
	"positive-area/internal/results"
	"positive-area/internal/shutdown"
	"positive-area/internal/validation"
)

const (
	AppName    = "Positive Area"
	AppID      = "com.positivearea.toolkit"
	AppVersion = "1.0.0"
)

type Application struct {
	Config  *config.Config
	Logger  logger.Logger
	Openers *pyramid.Registry
	Runner  *pipeline.Runner

	memoryManager *memory.Manager
	lifecycle     *shutdown.Manager
}

func New(cfg *config.Config, log logger.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	memoryManager := memory.NewManager(log)
	openers := NewRegistry(memoryManager)

	smoother, err := NewSmoother(cfg, memoryManager)
	if err != nil {
		return nil, err
	}

	p := cfg.Processing
	runner := pipeline.NewRunner(pipeline.Components{
		Validator:    validation.NewValidator(p.PyramidLevel, p.Reader, openers, log),
		Engine:       metrics.NewEngine(p.PyramidLevel, p.BasePixelSize, smoother, log),
		Writer:       results.NewWriter(cfg.Output.Suffix, log),
		Builder:      report.NewBuilder(cfg.Report.SummaryMaxWidth, cfg.Report.SheetMaxWidth, log),
		Openers:      openers,
		ReaderName:   p.Reader,
		ReportPrefix: cfg.Report.Prefix,
	}, log)

	lifecycle := shutdown.NewManager(log)
	lifecycle.Register(memoryManager)

	log.Debug("Application", "processing stack ready", map[string]interface{}{
		"version":       AppVersion,
		"pyramid_level": p.PyramidLevel,
		"pixel_size_um": cfg.PixelSize(),
		"smoother":      smoother.Name(),
		"reader":        p.Reader,
		"readers":       openers.Names(),
	})

	return &Application{
		Config:        cfg,
		Logger:        log,
		Openers:       openers,
		Runner:        runner,
		memoryManager: memoryManager,
		lifecycle:     lifecycle,
	}, nil
}

// NewRegistry registers the pure-Go image reader as "image" and the OpenCV
// multi-page reader as "opencv".
func NewRegistry(tracker *memory.Manager) *pyramid.Registry {
	reg := pyramid.NewRegistry()
	reg.Register(config.ReaderImage, pyramid.OpenImage)
	reg.Register(config.ReaderOpenCV, opencv.NewOpener(tracker))
	return reg
}

func NewSmoother(cfg *config.Config, tracker *memory.Manager) (filters.Smoother, error) {
	p := cfg.Processing
	switch p.Smoothing {
	case config.SmoothingNative:
		return filters.NewGaussianFilter(p.GaussianSigma, p.GaussianTruncate), nil
	case config.SmoothingOpenCV:
		return opencv.NewGaussianFilter(p.GaussianSigma, p.GaussianTruncate, tracker), nil
	default:
		return nil, fmt.Errorf("unknown smoothing backend %q", p.Smoothing)
	}
}

// Context is cancelled on interrupt or shutdown.
func (a *Application) Context() context.Context {
	return a.lifecycle.Context()
}
