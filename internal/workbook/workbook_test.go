package workbook

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"positive-area/internal/models"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "files"))
	_, err := f.NewSheet("Thresholds")
	require.NoError(t, err)
	_, err = f.NewSheet("Notes")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Thresholds", "A1", &[]interface{}{"Channel #", "Threshold", "Marker"}))
	require.NoError(t, f.SetSheetRow("Thresholds", "A2", &[]interface{}{2, 120.5, "DAPI"}))
	require.NoError(t, f.SetSheetRow("Thresholds", "A4", &[]interface{}{"3", 80}))

	path := filepath.Join(t.TempDir(), "spec.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTable(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	name, ok := wb.FindSheet("thresholds")
	require.True(t, ok)
	assert.Equal(t, "Thresholds", name)

	table, err := wb.ReadTable("THRESHOLDS")
	require.NoError(t, err)
	assert.Equal(t, []string{"Channel #", "Threshold", "Marker"}, table.Header)
	require.Len(t, table.Rows, 2, "blank row 3 is dropped")
	assert.Equal(t, []int{2, 4}, table.Lines)

	first := table.Rows[0]
	assert.Equal(t, models.Cell{Value: "2", Numeric: true}, first[0])
	assert.Equal(t, models.Cell{Value: "120.5", Numeric: true}, first[1])
	assert.Equal(t, models.TextCell("DAPI"), first[2])

	second := table.Rows[1]
	assert.False(t, second[0].Numeric, "text cell stays text")
	assert.True(t, second[2].IsEmpty(), "short rows are padded")

	assert.Equal(t, 1, table.Column("Threshold"))
	assert.Equal(t, -1, table.Column("threshold"))
}

func TestReadTableMissingSheet(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.ReadTable("Summary")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestReplaceAndMoveAfter(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	require.NoError(t, wb.ReplaceSheet("Thresholds"))
	assert.Equal(t, []string{"files", "Notes", "Thresholds"}, wb.SheetNames())

	require.NoError(t, wb.MoveAfter("Thresholds", "files"))
	assert.Equal(t, []string{"files", "Thresholds", "Notes"}, wb.SheetNames())

	require.NoError(t, wb.MoveAfter("files", "Notes"))
	assert.Equal(t, []string{"Thresholds", "Notes", "files"}, wb.SheetNames())

	assert.ErrorIs(t, wb.MoveAfter("files", "missing"), ErrSheetNotFound)
}

func TestWriteTableRoundTrip(t *testing.T) {
	wb, err := New("Out")
	require.NoError(t, err)

	header := []string{"Channel #", "Area (µm^2)", "Note"}
	rows := [][]models.Cell{
		{models.IntCell(2), models.NumberCell(27.04), models.TextCell("ok")},
		{models.IntCell(3), models.NumberCell(math.NaN()), {}},
	}
	require.NoError(t, wb.WriteTable("Out", header, rows))
	require.NoError(t, wb.BoldRow("Out", 1, len(header)))
	require.NoError(t, wb.FillRow("Out", 2, len(header), "1F77B4"))
	require.NoError(t, wb.SetTabColor("Out", "FF7F0E"))
	require.NoError(t, wb.FitColumns("Out", 30))

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	back, err := Open(path)
	require.NoError(t, err)
	defer back.Close()

	table, err := back.ReadTable("Out")
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "27.04", table.Rows[0][1].Value)
	assert.True(t, table.Rows[0][1].Numeric)

	nan, ok := table.Rows[1][1].Float()
	require.True(t, ok)
	assert.True(t, math.IsNaN(nan))

	width, err := back.file.GetColWidth("Out", "B")
	require.NoError(t, err)
	assert.Equal(t, 13.0, width)

	props, err := back.file.GetSheetProps("Out")
	require.NoError(t, err)
	require.NotNil(t, props.TabColorRGB)
	assert.Contains(t, *props.TabColorRGB, "FF7F0E")
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 7.0, ColumnWidth(5, 50))
	assert.Equal(t, 50.0, ColumnWidth(80, 50))
	assert.Equal(t, 2.0, ColumnWidth(0, 30))
}
