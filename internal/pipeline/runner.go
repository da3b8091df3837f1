// Package pipeline runs the single-file, batch and report workflows on top
// of validation, metrics, results and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"positive-area/internal/logger"
	"positive-area/internal/metrics"
	"positive-area/internal/pyramid"
	"positive-area/internal/report"
	"positive-area/internal/results"
	"positive-area/internal/timing"
	"positive-area/internal/validation"
)

var (
	ErrNoSpecs       = errors.New("no specification files found")
	ErrNoProcessed   = errors.New("no processed files found")
	ErrInvalidSpecs  = errors.New("specification files failed validation")
	ErrNotConfigured = errors.New("runner is not configured")
)

// ValidationError carries the problems that kept a specification from
// being processed.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s failed validation: %s", e.Path, strings.Join(e.Problems, "; "))
}

// Components are the already-built pieces a Runner drives.
type Components struct {
	Validator    *validation.Validator
	Engine       *metrics.Engine
	Writer       *results.Writer
	Builder      *report.Builder
	Openers      *pyramid.Registry
	ReaderName   string
	ReportPrefix string
}

type Runner struct {
	Components

	logger  logger.Logger
	timings *timing.Tracker
	now     func() time.Time
}

func NewRunner(c Components, log logger.Logger) *Runner {
	return &Runner{Components: c, logger: log, timings: timing.NewTracker(), now: time.Now}
}

// Timings exposes the per-stage durations recorded by ProcessSingle.
func (r *Runner) Timings() *timing.Tracker {
	return r.timings
}

func (r *Runner) ready() error {
	if r == nil || r.Validator == nil || r.Engine == nil || r.Writer == nil || r.Builder == nil || r.Openers == nil {
		return ErrNotConfigured
	}
	return nil
}

// Validate returns the problems found in one specification.
func (r *Runner) Validate(path string) []string {
	return r.Validator.Validate(path)
}

// ProcessSingle validates path, computes its metrics and writes the
// processed workbook into outDir. Validation problems come back as a
// *ValidationError.
func (r *Runner) ProcessSingle(ctx context.Context, path, outDir string) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	start := time.Now()

	span := r.timings.Start("validate")
	problems := r.Validator.Validate(path)
	if len(problems) > 0 {
		span.Stop()
		return "", &ValidationError{Path: path, Problems: problems}
	}
	spec, err := validation.LoadSpec(path)
	span.Stop()
	if err != nil {
		return "", err
	}

	open, err := r.Openers.Opener(r.ReaderName)
	if err != nil {
		return "", err
	}
	reader, err := open(spec.Slide.ImagePath)
	if err != nil {
		return "", fmt.Errorf("open image %s: %w", spec.Slide.ImagePath, err)
	}
	defer reader.Close()

	span = r.timings.Start("compute")
	res, err := r.Engine.Compute(ctx, reader, spec.Thresholds)
	span.Stop()
	if err != nil {
		return "", fmt.Errorf("compute metrics for %s: %w", spec.Slide.SlideName, err)
	}

	span = r.timings.Start("write")
	out, err := r.Writer.Write(spec, outDir, res)
	span.Stop()
	if err != nil {
		return "", err
	}

	r.logger.Info("PipelineRunner", "slide processed", map[string]interface{}{
		"slide":       spec.Slide.SlideName,
		"output":      out,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}
