package gui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"positive-area/internal/logger"
	"positive-area/internal/pipeline"
)

// Presenter is the part of the view the controller drives. Calls are made
// on the UI goroutine.
type Presenter interface {
	AppendLog(line string)
	SetBusy(busy bool)
	SetProgress(current, total int)
}

// Controller runs one job at a time on a background goroutine and reports
// back to the presenter through fyne.Do.
type Controller struct {
	runner    *pipeline.Runner
	presenter Presenter
	logger    logger.Logger
	ctx       context.Context

	// post hands work to the UI goroutine
	post func(func())
	now  func() time.Time

	mu   sync.Mutex
	busy bool
	wg   sync.WaitGroup
}

func NewController(ctx context.Context, runner *pipeline.Runner, log logger.Logger) *Controller {
	return &Controller{
		runner: runner,
		logger: log,
		ctx:    ctx,
		post:   fyne.Do,
		now:    time.Now,
	}
}

func (c *Controller) SetPresenter(p Presenter) {
	c.presenter = p
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Wait blocks until the running job, if any, has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) ValidateSingle(input string) {
	if input == "" {
		c.logLine("ERROR: No input file selected.")
		return
	}
	c.start("validate", func(log func(string)) error {
		log(fmt.Sprintf("Validating %s...", filepath.Base(input)))
		problems := c.runner.Validate(input)
		if len(problems) > 0 {
			return validationFailed(problems)
		}
		log("Validation passed.")
		return nil
	})
}

func (c *Controller) ProcessSingle(input, outDir string) {
	switch {
	case input == "":
		c.logLine("ERROR: No input file selected.")
		return
	case outDir == "":
		c.logLine("ERROR: No output directory specified.")
		return
	}
	c.start("process", func(log func(string)) error {
		log(fmt.Sprintf("Processing %s...", filepath.Base(input)))
		out, err := c.runner.ProcessSingle(c.ctx, input, outDir)
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			return validationFailed(verr.Problems)
		}
		if err != nil {
			return fmt.Errorf("processing failed: %w", err)
		}
		log(fmt.Sprintf("Successfully processed: %s", out))
		return nil
	})
}

func (c *Controller) RunBatch(inputDir, outDir string, dryRun bool) {
	switch {
	case inputDir == "":
		c.logLine("ERROR: No input directory selected.")
		return
	case outDir == "":
		c.logLine("ERROR: No output directory specified.")
		return
	}
	c.start("batch", func(log func(string)) error {
		paths, err := pipeline.FindSpecs(inputDir, c.runner.Writer.Suffix)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no Excel files found in %s", inputDir)
		}
		log(fmt.Sprintf("Found %d Excel file(s). Validating...", len(paths)))

		summary, err := c.runner.RunBatch(c.ctx, paths, outDir, dryRun, func(e pipeline.Event) {
			switch e.Kind {
			case pipeline.EventValidated:
				log("OK: " + filepath.Base(e.Path))
			case pipeline.EventInvalid:
				log(fmt.Sprintf("FAILED: %s\n%s", filepath.Base(e.Path), bullet(e.Problems)))
			case pipeline.EventStarted:
				if e.Index == 1 {
					log("All files passed validation.")
				}
				c.postProgress(e.Index, e.Total)
				log(e.String())
			case pipeline.EventCompleted:
				log("  Created: " + filepath.Base(e.Output))
			case pipeline.EventFailed:
				log(fmt.Sprintf("  Failed: %v", e.Err))
			}
		})
		if errors.Is(err, pipeline.ErrInvalidSpecs) {
			return errors.New("validation failed, fix errors before processing")
		}
		if err != nil {
			return err
		}
		if summary.DryRun {
			log("All files passed validation.")
			log("Dry run complete. No files were processed.")
			return nil
		}
		msg := fmt.Sprintf("Batch complete. %d succeeded, %d failed.", summary.Successful(), summary.Failed())
		if summary.Cancelled {
			msg += " Cancelled before all files were processed."
		}
		log(msg)
		return nil
	})
}

func (c *Controller) GenerateReport(dir, output string) {
	if dir == "" {
		c.logLine("ERROR: No processed directory selected.")
		return
	}
	c.start("report", func(log func(string)) error {
		log("Generating report...")
		res, err := c.runner.GenerateReport(dir, output)
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}
		for _, f := range res.Grouping.Failures {
			log(fmt.Sprintf("Skipped %s: %v", filepath.Base(f.Path), f.Err))
		}
		for _, g := range res.Grouping.Groups {
			log(fmt.Sprintf("%s: Channels %s (%d file(s))", g.Label(), g.Signature, len(g.Results)))
		}
		log(fmt.Sprintf("Report created: %s", res.Summary.Path))
		return nil
	})
}

// start runs job on a goroutine unless another job is still running.
func (c *Controller) start(name string, job func(log func(string)) error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.logLine("A job is already running.")
		return
	}
	c.busy = true
	c.wg.Add(1)
	c.mu.Unlock()

	c.post(func() {
		if c.presenter != nil {
			c.presenter.SetBusy(true)
		}
	})

	go func() {
		defer c.wg.Done()
		started := time.Now()

		err := job(c.logLine)

		if err != nil {
			c.logger.Error("GUIController", err, map[string]interface{}{
				"job": name,
			})
			c.logLine("ERROR: " + err.Error())
		} else {
			c.logger.Debug("GUIController", "job finished", map[string]interface{}{
				"job":         name,
				"duration_ms": time.Since(started).Milliseconds(),
			})
		}

		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		c.post(func() {
			if c.presenter != nil {
				c.presenter.SetBusy(false)
			}
		})
	}()
}

// logLine timestamps line and appends it on the UI goroutine.
func (c *Controller) logLine(line string) {
	stamped := fmt.Sprintf("[%s] %s", c.now().Format("15:04:05"), line)
	c.post(func() {
		if c.presenter != nil {
			c.presenter.AppendLog(stamped)
		}
	})
}

func (c *Controller) postProgress(current, total int) {
	c.post(func() {
		if c.presenter != nil {
			c.presenter.SetProgress(current, total)
		}
	})
}

func validationFailed(problems []string) error {
	return fmt.Errorf("validation failed:\n%s", bullet(problems))
}

func bullet(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  - " + l
	}
	return strings.Join(out, "\n")
}
