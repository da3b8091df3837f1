package pipeline

import (
	"context"
	"fmt"

	"positive-area/internal/results"
)

// FileValidation is the outcome of validating one specification.
type FileValidation struct {
	Path     string
	Problems []string
}

func (f FileValidation) Valid() bool {
	return len(f.Problems) == 0
}

type BatchValidation struct {
	Files []FileValidation
}

func (b *BatchValidation) Invalid() []FileValidation {
	var bad []FileValidation
	for _, f := range b.Files {
		if !f.Valid() {
			bad = append(bad, f)
		}
	}
	return bad
}

func (b *BatchValidation) Valid() bool {
	return len(b.Invalid()) == 0
}

// ValidateBatch validates every path without touching any output.
func (r *Runner) ValidateBatch(paths []string, progress ProgressFunc) *BatchValidation {
	out := &BatchValidation{}
	for i, path := range paths {
		problems := r.Validator.Validate(path)
		out.Files = append(out.Files, FileValidation{Path: path, Problems: problems})
		kind := EventValidated
		if len(problems) > 0 {
			kind = EventInvalid
		}
		emit(progress, Event{Kind: kind, Path: path, Index: i + 1, Total: len(paths), Problems: problems})
	}
	return out
}

type BatchFailure struct {
	Path string
	Err  error
}

// BatchSummary is the end-of-run account of a batch.
type BatchSummary struct {
	Total      int
	Outputs    []string
	Failures   []BatchFailure
	Validation *BatchValidation
	DryRun     bool
	// Cancelled is set when the context ended before every slide ran.
	Cancelled bool
}

func (s *BatchSummary) Successful() int {
	return len(s.Outputs)
}

func (s *BatchSummary) Failed() int {
	return len(s.Failures)
}

// RunBatch validates every specification up front and stops with
// ErrInvalidSpecs if any fails. Otherwise, unless dryRun is set, slides are
// processed one at a time; a failing slide is recorded and the batch moves
// on. ctx is checked between slides.
func (r *Runner) RunBatch(ctx context.Context, paths []string, outDir string, dryRun bool, progress ProgressFunc) (*BatchSummary, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoSpecs
	}

	summary := &BatchSummary{Total: len(paths), DryRun: dryRun}
	summary.Validation = r.ValidateBatch(paths, progress)
	if invalid := summary.Validation.Invalid(); len(invalid) > 0 {
		r.logger.Warning("PipelineRunner", "batch validation failed", map[string]interface{}{
			"files":   len(paths),
			"invalid": len(invalid),
		})
		return summary, fmt.Errorf("%w: %d of %d", ErrInvalidSpecs, len(invalid), len(paths))
	}
	if dryRun {
		return summary, nil
	}

	if err := results.EnsureWritable(outDir); err != nil {
		return summary, err
	}

	r.logger.Info("PipelineRunner", "batch started", map[string]interface{}{
		"files":      len(paths),
		"output_dir": outDir,
	})
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			r.logger.Warning("PipelineRunner", "batch cancelled", map[string]interface{}{
				"processed": i,
				"remaining": len(paths) - i,
			})
			break
		}

		ev := Event{Path: path, Index: i + 1, Total: len(paths)}
		ev.Kind = EventStarted
		emit(progress, ev)

		out, err := r.ProcessSingle(ctx, path, outDir)
		if err != nil {
			summary.Failures = append(summary.Failures, BatchFailure{Path: path, Err: err})
			r.logger.Error("PipelineRunner", err, map[string]interface{}{
				"path": path,
			})
			ev.Kind, ev.Err = EventFailed, err
			emit(progress, ev)
			continue
		}
		summary.Outputs = append(summary.Outputs, out)
		ev.Kind, ev.Output = EventCompleted, out
		emit(progress, ev)
	}

	r.logger.Info("PipelineRunner", "batch finished", map[string]interface{}{
		"successful": summary.Successful(),
		"failed":     summary.Failed(),
		"cancelled":  summary.Cancelled,
	})
	r.timings.Log(r.logger, "PipelineRunner")
	return summary, nil
}
