package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"positive-area/internal/pipeline"
)

var rule = strings.Repeat("=", 60)

func (c *cli) batchCommand() *cobra.Command {
	var (
		outputDir string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "batch <input-dir>",
		Short: "Validate, then process every specification workbook in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir := args[0]
			outDir := c.outputDir(cmd, outputDir)
			runner := c.app.Runner

			paths, err := pipeline.FindSpecs(inputDir, runner.Writer.Suffix)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				c.printf("No Excel files found in %s\n", inputDir)
				return nil
			}
			c.infof("Found %d Excel file(s) in %s\n", len(paths), inputDir)
			c.infof("\n%s\nPRE-FLIGHT VALIDATION - Checking %d file(s)\n%s\n\n", rule, len(paths), rule)

			processing := false
			summary, err := runner.RunBatch(c.app.Context(), paths, outDir, dryRun, func(e pipeline.Event) {
				switch e.Kind {
				case pipeline.EventValidated:
					c.debugf("%s\n", e)
				case pipeline.EventInvalid:
					c.printf("\n%s:\n", filepath.Base(e.Path))
					c.printProblems(e.Problems)
				case pipeline.EventStarted:
					if !processing {
						processing = true
						c.infof("All %d file(s) passed validation\n", e.Total)
						c.infof("\n%s\nPROCESSING %d FILE(S)\n%s\n\n", rule, e.Total, rule)
					}
					c.infof("%s\n", e)
				case pipeline.EventCompleted:
					c.infof("   Created: %s\n", filepath.Base(e.Output))
				case pipeline.EventFailed:
					c.printf("   Failed: %v\n", e.Err)
				}
			})
			if errors.Is(err, pipeline.ErrInvalidSpecs) {
				c.printf("\n%s\n%d file(s) failed validation\n", rule, len(summary.Validation.Invalid()))
				c.printf("\nPlease fix the issues above before processing.\n")
				c.printf("You can either:\n  1. Fix the errors in the Excel files\n  2. Remove problematic files from the input directory\n%s\n", rule)
				return errReported
			}
			if err != nil {
				return err
			}

			if summary.DryRun {
				c.infof("All %d file(s) passed validation\n", len(paths))
				c.printf("Dry run complete. No files were processed.\n")
				return nil
			}

			c.printf("\n%s\nBATCH PROCESSING COMPLETE\n%s\n", rule, rule)
			c.printf("Successful: %d\n", summary.Successful())
			c.printf("Failed: %d\n", summary.Failed())
			if summary.Cancelled {
				c.printf("Cancelled: %d file(s) not processed\n", summary.Total-summary.Successful()-summary.Failed())
			}
			c.printf("Output directory: %s\n%s\n", outDir, rule)
			if summary.Failed() > 0 || summary.Cancelled {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "results", "output directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, do not process")
	return cmd
}
