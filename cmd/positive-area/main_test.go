package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positive-area/internal/config"
	"positive-area/internal/pyramid"
	"positive-area/internal/testfixtures"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// levelZeroConfig writes a config that analyses the base level so small
// test images work.
func levelZeroConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Processing.PyramidLevel = 0
	cfg.Processing.BasePixelSize = 1
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, path))
	return path
}

func writeSlide(t *testing.T, dir, name string, thresholds [][]interface{}) string {
	t.Helper()
	testfixtures.WriteRGBTIFF(t, filepath.Join(dir, name+".tif"),
		pyramid.Uniform(4, 4, 10),
		pyramid.Uniform(4, 4, 200),
		pyramid.Uniform(4, 4, 0),
	)
	path := filepath.Join(dir, name+".xlsx")
	testfixtures.WriteSpec(t, path, testfixtures.Spec{
		SlideName:  name,
		ImagePath:  name + ".tif",
		Thresholds: thresholds,
	})
	return path
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "positive-area.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = run(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, "config", "init", "--force", path)
	assert.NoError(t, err)
}

func TestVerboseAndQuietConflict(t *testing.T) {
	_, err := run(t, "--verbose", "--quiet", "validate", "x.xlsx")
	assert.ErrorContains(t, err, "--verbose and --quiet")
}

func TestValidateReportsProblems(t *testing.T) {
	dir := t.TempDir()
	cfgPath := levelZeroConfig(t, dir)
	good := writeSlide(t, dir, "S1", [][]interface{}{{2, 100}})
	missing := filepath.Join(dir, "missing.xlsx")

	out, err := run(t, "--config", cfgPath, "validate", good, missing)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "S1.xlsx: OK")
	assert.Contains(t, out, "File does not exist")
}

func TestSingleAndReport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := levelZeroConfig(t, dir)
	spec := writeSlide(t, dir, "S1", [][]interface{}{{2, 100}, {3, 50}})
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--config", cfgPath, "single", spec, "--output-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully processed: S1_processed.xlsx")
	assert.FileExists(t, filepath.Join(outDir, "S1_processed.xlsx"))

	summary := filepath.Join(dir, "summary.xlsx")
	out, err = run(t, "--config", cfgPath, "report", outDir, "--output", summary)
	require.NoError(t, err)
	assert.Contains(t, out, "Group 1: Channels [2, 3] (1 file(s))")
	assert.FileExists(t, summary)
}

func TestSingleValidationFailure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := levelZeroConfig(t, dir)
	spec := writeSlide(t, dir, "S1", [][]interface{}{{3, 50}})

	out, err := run(t, "--config", cfgPath, "single", spec, "--output-dir", filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, "Channel #2")
}

func TestBatchDryRunAndProcess(t *testing.T) {
	dir := t.TempDir()
	cfgPath := levelZeroConfig(t, dir)
	in := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(in, 0o755))
	writeSlide(t, in, "A", [][]interface{}{{2, 100}})
	writeSlide(t, in, "B", [][]interface{}{{2, 100}, {1, 5}})
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "--config", cfgPath, "batch", in, "--output-dir", outDir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run complete")
	assert.NoDirExists(t, outDir)

	out, err = run(t, "--config", cfgPath, "batch", in, "--output-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successful: 2")
	assert.Contains(t, out, "Failed: 0")
	assert.FileExists(t, filepath.Join(outDir, "B_processed.xlsx"))
}

func TestBatchAbortsOnInvalidSpec(t *testing.T) {
	dir := t.TempDir()
	cfgPath := levelZeroConfig(t, dir)
	writeSlide(t, dir, "A", [][]interface{}{{2, 100}, {9, 1}})

	out, err := run(t, "--config", cfgPath, "batch", dir, "--output-dir", filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Channel # 9 is invalid")
	assert.Contains(t, out, "1 file(s) failed validation")
}

func TestReportWithoutProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--config", levelZeroConfig(t, dir), "report", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no processed files found")
}
