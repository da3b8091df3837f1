package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec.xlsx>...",
		Short: "Check specification workbooks without processing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validation := c.app.Runner.ValidateBatch(args, nil)
			for _, f := range validation.Files {
				if f.Valid() {
					c.infof("%s: OK\n", filepath.Base(f.Path))
					continue
				}
				c.printf("%s:\n", filepath.Base(f.Path))
				c.printProblems(f.Problems)
			}
			if !validation.Valid() {
				return errReported
			}
			return nil
		},
	}
}
