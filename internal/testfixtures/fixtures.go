// Package testfixtures builds specification workbooks and images for tests.
package testfixtures

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/tiff"

	"positive-area/internal/pyramid"
)

// Spec describes a specification workbook. A nil Header means
// {"Channel #", "Threshold"}.
type Spec struct {
	SlideName   string
	ImagePath   string
	Header      []string
	Thresholds  [][]interface{}
	FilesSheet  string
	ExtraSheets []string
	// ThresholdsFirst puts the thresholds sheet before the files sheet.
	ThresholdsFirst bool
}

func (s Spec) filesSheet() string {
	if s.FilesSheet != "" {
		return s.FilesSheet
	}
	return "Files"
}

// WriteSpec saves s as an xlsx file at path.
func WriteSpec(tb testing.TB, path string, s Spec) {
	tb.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := s.Header
	if header == nil {
		header = []string{"Channel #", "Threshold"}
	}

	first, second := s.filesSheet(), "Thresholds"
	if s.ThresholdsFirst {
		first, second = second, first
	}
	require.NoError(tb, f.SetSheetName("Sheet1", first))
	_, err := f.NewSheet(second)
	require.NoError(tb, err)
	for _, extra := range s.ExtraSheets {
		_, err := f.NewSheet(extra)
		require.NoError(tb, err)
		require.NoError(tb, f.SetCellStr(extra, "A1", "notes"))
	}

	files := s.filesSheet()
	require.NoError(tb, f.SetSheetRow(files, "A1", &[]interface{}{"Slide Name", "File Path"}))
	require.NoError(tb, f.SetSheetRow(files, "A2", &[]interface{}{s.SlideName, s.ImagePath}))

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	require.NoError(tb, f.SetSheetRow("Thresholds", "A1", &row))
	for i, r := range s.Thresholds {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(tb, err)
		vals := r
		require.NoError(tb, f.SetSheetRow("Thresholds", cell, &vals))
	}

	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tb, f.SaveAs(path))
}

// WriteRGBTIFF encodes three equally sized planes as a 16-bit RGB TIFF.
func WriteRGBTIFF(tb testing.TB, path string, r, g, b *pyramid.Plane) {
	tb.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(r.At(x, y)),
				G: uint16(g.At(x, y)),
				B: uint16(b.At(x, y)),
				A: 0xffff,
			})
		}
	}
	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()
	require.NoError(tb, tiff.Encode(f, img, nil))
}

// MemoryRegistry returns a registry whose "memory" reader serves m for any
// existing path.
func MemoryRegistry(m *pyramid.Memory) *pyramid.Registry {
	reg := pyramid.NewRegistry()
	reg.Register("memory", func(path string) (pyramid.Reader, error) {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return m.Reopen(), nil
	})
	return reg
}

// Touch creates an empty file standing in for an image.
func Touch(tb testing.TB, path string) {
	tb.Helper()
	require.NoError(tb, os.WriteFile(path, nil, 0o644))
}
