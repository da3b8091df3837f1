package report

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"positive-area/internal/logger"
	"positive-area/internal/models"
	"positive-area/internal/testfixtures"
)

func result(slide string, channels ...int) *models.ProcessedResult {
	rows := make([][]models.Cell, len(channels))
	for i, c := range channels {
		rows[i] = []models.Cell{models.IntCell(c), models.NumberCell(10), models.NumberCell(1.5)}
	}
	return &models.ProcessedResult{
		Source:   filepath.Join("results", slide+"_processed.xlsx"),
		Slide:    models.SlideSpec{SlideName: slide},
		Channels: channels,
		Header:   []string{models.ChannelColumn, models.ThresholdColumn, models.AreaColumn},
		Rows:     rows,
	}
}

func slideNames(g *Group) []string {
	var names []string
	for _, r := range g.Results {
		names = append(names, r.Slide.SlideName)
	}
	return names
}

func TestPalette(t *testing.T) {
	assert.Len(t, Tab10, 10)
	assert.Equal(t, "1F77B4", Tab10.ForRank(1).Hex())
	assert.Equal(t, "17BECF", Tab10.ForRank(10).Hex())
	assert.Equal(t, Tab10.ForRank(1), Tab10.ForRank(11))
	assert.Equal(t, Tab10.ForRank(3), Tab10.ForRank(23))
	assert.Equal(t, Color{}, Palette(nil).ForRank(1))
}

func TestAssignPartitionsBySignature(t *testing.T) {
	items := []*models.ProcessedResult{
		result("S3", 1, 2, 3),
		result("S1", 3, 2, 1),
		result("S2", 1, 2),
		result("S0", 2, 5),
	}
	groups := Assign(items, Tab10)
	require.Len(t, groups, 3)

	assert.Equal(t, models.ChannelSignature{1, 2}, groups[0].Signature)
	assert.Equal(t, models.ChannelSignature{1, 2, 3}, groups[1].Signature)
	assert.Equal(t, models.ChannelSignature{2, 5}, groups[2].Signature)

	assert.Equal(t, []string{"S2"}, slideNames(groups[0]))
	assert.Equal(t, []string{"S1", "S3"}, slideNames(groups[1]))

	total := 0
	for i, g := range groups {
		assert.Equal(t, i+1, g.Rank)
		assert.Equal(t, Tab10.ForRank(i+1), g.Color)
		total += len(g.Results)
	}
	assert.Equal(t, len(items), total)
	assert.Equal(t, "Group 2", groups[1].Label())
}

func TestAssignSortIsCaseSensitiveAndStable(t *testing.T) {
	first := result("b", 2)
	second := result("b", 2)
	groups := Assign([]*models.ProcessedResult{first, result("B", 2), second, result("a", 2)}, Tab10)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"B", "a", "b", "b"}, slideNames(groups[0]))
	assert.Same(t, first, groups[0].Results[2])
	assert.Same(t, second, groups[0].Results[3])
}

func TestAssignColorsCycle(t *testing.T) {
	var items []*models.ProcessedResult
	for c := 1; c <= 12; c++ {
		items = append(items, result("S", 2, c+2))
	}
	groups := Assign(items, Tab10)
	require.Len(t, groups, 12)
	assert.Equal(t, groups[0].Color, groups[10].Color)
	assert.NotEqual(t, groups[0].Rank, groups[10].Rank)
}

func TestAssignGroupsCollectsFailures(t *testing.T) {
	boom := errors.New("missing thresholds sheet")
	read := func(path string) (*models.ProcessedResult, error) {
		if strings.HasPrefix(filepath.Base(path), "bad") {
			return nil, boom
		}
		return result(strings.TrimSuffix(filepath.Base(path), ".xlsx"), 1, 2), nil
	}
	grouping := AssignGroups([]string{"a.xlsx", "bad.xlsx", "b.xlsx"}, read)
	require.Len(t, grouping.Groups, 1)
	assert.Equal(t, 2, grouping.Files())
	require.Len(t, grouping.Failures, 1)
	assert.Equal(t, "bad.xlsx", grouping.Failures[0].Path)
	assert.ErrorIs(t, grouping.Failures[0].Err, boom)
}

func TestAssignGroupsReadsWorkbooks(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "S1_processed.xlsx")
	testfixtures.WriteSpec(t, good, testfixtures.Spec{
		SlideName:  "S1",
		Thresholds: [][]interface{}{{3, 50}, {2, 100}},
	})
	broken := filepath.Join(dir, "S2_processed.xlsx")
	testfixtures.WriteSpec(t, broken, testfixtures.Spec{
		SlideName:  "S2",
		FilesSheet: "Slides",
		Thresholds: [][]interface{}{{2, 100}},
	})

	grouping := AssignGroups([]string{good, broken}, nil)
	require.Len(t, grouping.Groups, 1)
	assert.Equal(t, models.ChannelSignature{2, 3}, grouping.Groups[0].Signature)
	require.Len(t, grouping.Failures, 1)
	assert.Equal(t, broken, grouping.Failures[0].Path)
}

func TestSheetNamer(t *testing.T) {
	long := strings.Repeat("x", 40)
	names := NewSheetNamer(SummarySheet)

	assert.Equal(t, "summary_1", names.Next("summary"))
	assert.Equal(t, "Summary_2", names.Next("Summary"))
	assert.Equal(t, strings.Repeat("x", 31), names.Next(long))
	assert.Equal(t, strings.Repeat("x", 29)+"_1", names.Next(long))
	assert.Equal(t, strings.Repeat("x", 29)+"_2", names.Next(long))
	assert.Equal(t, "S1", names.Next("S1"))
	assert.Equal(t, "s1_1", names.Next("s1"))
	assert.Equal(t, "a_b_c_d_", names.Next("a/b:c?d*"))
}

func TestSheetNamerTruncatedCollision(t *testing.T) {
	reserved := strings.Repeat("y", 31)
	names := NewSheetNamer(SummarySheet, reserved)

	assert.Equal(t, strings.Repeat("y", 29)+"_1", names.Next(strings.Repeat("y", 35)))
	assert.Equal(t, "SUMMARY_1", names.Next("SUMMARY"))
	assert.Equal(t, "Summary_2", names.Next(" Summary "))
}

func TestSanitizeSheetName(t *testing.T) {
	cases := map[string]string{
		"plain":      "plain",
		"[x]\\y":     "_x__y",
		"'quoted'":   "_quoted_",
		"   ":        "Slide",
		"  padded  ": "padded",
		"ünïcödé/7":  "ünïcödé_7",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeSheetName(in), in)
	}
}

func TestBuildSummaryWorkbook(t *testing.T) {
	items := []*models.ProcessedResult{
		result("Slide B", 1, 2),
		result("Slide A", 1, 2),
		result("summary", 2, 3),
	}
	grouping := &Grouping{Groups: Assign(items, Tab10)}
	out := filepath.Join(t.TempDir(), "reports", "Summary-test.xlsx")

	summary, err := NewBuilder(50, 30, logger.NewNop()).Build(grouping, out)
	require.NoError(t, err)
	assert.Equal(t, out, summary.Path)
	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Groups)
	assert.Equal(t, []string{"Summary", "Slide A", "Slide B", "summary_1"}, summary.Sheets)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, summary.Sheets, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Slide Name", "File Path", "Group"}, rows[0])
	assert.Equal(t, []string{"Slide A", items[1].Source, "Group 1"}, rows[1])
	assert.Equal(t, "Group 2", rows[3][2])

	styleID, err := f.GetCellStyle("Summary", "C4")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Equal(t, Tab10.ForRank(2).Hex(), strings.TrimPrefix(strings.ToUpper(style.Fill.Color[0]), "#"))

	props, err := f.GetSheetProps("summary_1")
	require.NoError(t, err)
	require.NotNil(t, props.TabColorRGB)
	assert.Contains(t, strings.ToUpper(*props.TabColorRGB), Tab10.ForRank(2).Hex())

	detail, err := f.GetRows("Slide A")
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, []string{"Channel #", "Threshold", "Area (µm^2)"}, detail[0])
	assert.Equal(t, "1.5", detail[1][2])

	headStyle, err := f.GetCellStyle("Slide A", "A1")
	require.NoError(t, err)
	head, err := f.GetStyle(headStyle)
	require.NoError(t, err)
	require.NotNil(t, head.Font)
	assert.True(t, head.Font.Bold)
}

func TestBuildWithoutGroups(t *testing.T) {
	b := NewBuilder(50, 30, logger.NewNop())
	_, err := b.Build(&Grouping{Failures: []Failure{{Path: "x", Err: errors.New("bad")}}}, filepath.Join(t.TempDir(), "s.xlsx"))
	assert.ErrorIs(t, err, ErrNoGroups)
	_, err = b.Build(nil, filepath.Join(t.TempDir(), "s.xlsx"))
	assert.ErrorIs(t, err, ErrNoGroups)
}
