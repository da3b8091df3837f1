package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"positive-area/internal/pipeline"
)

func (c *cli) singleCommand() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "single <spec.xlsx>",
		Short: "Process a single specification workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			outDir := c.outputDir(cmd, outputDir)

			c.infof("Processing %s...\n", filepath.Base(input))
			out, err := c.app.Runner.ProcessSingle(c.app.Context(), input, outDir)
			var verr *pipeline.ValidationError
			if errors.As(err, &verr) {
				c.printf("Validation failed:\n")
				c.printProblems(verr.Problems)
				return errReported
			}
			if err != nil {
				return err
			}
			c.infof("Successfully processed: %s\n", filepath.Base(out))
			c.infof("   Output: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "results", "output directory")
	return cmd
}
