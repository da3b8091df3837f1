package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"positive-area/internal/pipeline"
)

func (c *cli) reportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report <processed-dir>",
		Short: "Group processed workbooks by channel set and write a summary workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			c.infof("\nGenerating summary report...\n")

			res, err := c.app.Runner.GenerateReport(dir, output)
			if errors.Is(err, pipeline.ErrNoProcessed) {
				c.printf("%v\n", err)
				return nil
			}
			if res != nil && res.Grouping != nil {
				for _, f := range res.Grouping.Failures {
					c.debugf("   Skipping %s: %v\n", filepath.Base(f.Path), f.Err)
				}
			}
			if err != nil {
				return err
			}

			c.infof("   Found %d group(s):\n", len(res.Grouping.Groups))
			for _, g := range res.Grouping.Groups {
				c.infof("      %s: Channels %s (%d file(s))\n", g.Label(), g.Signature, len(g.Results))
			}
			s := res.Summary
			c.infof("\nReport summary:\n")
			c.infof("   Total files: %d\n", s.Files)
			c.infof("   Groups: %d\n", s.Groups)
			c.infof("   Sheets created: %d (1 summary + %d slides)\n", len(s.Sheets), len(s.Sheets)-1)
			c.infof("\nSummary report created: %s\n", s.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output file (default <processed-dir>/Summary-<timestamp>.xlsx)")
	return cmd
}
