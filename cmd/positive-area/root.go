package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"positive-area/internal/app"
	"positive-area/internal/config"
	"positive-area/internal/logger"
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("command failed")

const skipAppAnnotation = "skip-app"

type cli struct {
	verbose    bool
	quiet      bool
	configPath string

	cfg *config.Config
	app *app.Application
	out io.Writer
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "positive-area",
		Short: "Positive area metrics for multi-channel microscopy slides",
		Long: `positive-area reads one spreadsheet per slide (a Files sheet naming the image
and a Thresholds sheet with per-channel intensity thresholds), measures the
positive area of every channel inside and outside the tissue defined by
channel 2, and aggregates processed slides into a summary workbook.`,
		Version:           app.AppVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "detailed progress output")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "minimal output")
	flags.StringVar(&c.configPath, "config", "", "YAML configuration file")

	root.AddCommand(
		c.singleCommand(),
		c.batchCommand(),
		c.reportCommand(),
		c.validateCommand(),
		c.configCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.out = cmd.OutOrStdout()

	level, err := logger.LevelForFlags(c.verbose, c.quiet)
	if err != nil {
		return err
	}
	if cmd.Annotations[skipAppAnnotation] != "" {
		return nil
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(level)
	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	a.ListenForInterrupts()
	c.cfg, c.app = cfg, a
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) {
	if c.app != nil {
		c.app.Shutdown()
	}
}

// outputDir is the --output-dir flag when given, else the configured
// default.
func (c *cli) outputDir(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("output-dir") {
		return flag
	}
	return c.cfg.Output.Directory
}

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// infof prints unless --quiet is set.
func (c *cli) infof(format string, args ...interface{}) {
	if !c.quiet {
		c.printf(format, args...)
	}
}

// debugf prints only with --verbose.
func (c *cli) debugf(format string, args ...interface{}) {
	if c.verbose {
		c.printf(format, args...)
	}
}

func (c *cli) printProblems(problems []string) {
	for _, p := range problems {
		c.printf("   - %s\n", p)
	}
}
