package charts_test

import (
	"strings"
	"testing"

	"github.com/datadash-io/datadash/internal/dash/charts"
	"github.com/stretchr/testify/require"
)

func TestSeriesFromTable(t *testing.T) {
	input := "Label,Value\nA,3\n,x\n"

	series, err := charts.SeriesFromTable(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"A", "Row 2"}, series.Labels)
	require.Len(t, series.Datasets, 1)
	require.Equal(t, []float64{3, 0}, series.Datasets[0].Data)
}

func TestParseTableSkipsBlankRows(t *testing.T) {
	input := "Label,Value\nA,1\n,\nB,2\n"

	rows, err := charts.ParseTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "A", rows[0]["Label"])
	require.Equal(t, "B", rows[1]["Label"])
}

func TestParseTableToleratesRaggedRows(t *testing.T) {
	input := "Label,Value\nA\nB,2,extra\n"

	rows, err := charts.ParseTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	series := charts.BuildSeries(rows)
	require.Equal(t, []string{"A", "B"}, series.Labels)
	require.Equal(t, []float64{0, 2}, series.Datasets[0].Data)
}

func TestParseTableEmptyInput(t *testing.T) {
	_, err := charts.ParseTable(strings.NewReader(""))
	require.ErrorIs(t, err, charts.ErrEmptyTable)
}

func TestPaletteCycles(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Label,Value\n")
	for range 8 {
		sb.WriteString("x,1\n")
	}

	series, err := charts.SeriesFromTable(strings.NewReader(sb.String()))
	require.NoError(t, err)

	colors := series.Datasets[0].BackgroundColor
	require.Len(t, colors, 8)
	require.Equal(t, charts.Palette[0], colors[0])
	require.Equal(t, charts.Palette[5], colors[5])
	require.Equal(t, charts.Palette[0], colors[6]) // wraps at 6
	require.Equal(t, charts.Palette[1], colors[7])
}

func TestBuildSeriesConstantBorder(t *testing.T) {
	series, err := charts.SeriesFromTable(strings.NewReader("Label,Value\nA,1\n"))
	require.NoError(t, err)
	require.Equal(t, "#ddd", series.Datasets[0].BorderColor)
	require.Equal(t, 1, series.Datasets[0].BorderWidth)
}

func TestValueCoercion(t *testing.T) {
	input := "Label,Value\nneg,-2.5\nsci,1e3\nsuffixed,12abc\nbad,abc\nmissing,\nnan,NaN\n"

	series, err := charts.SeriesFromTable(strings.NewReader(input))
	require.NoError(t, err)
	// A numeric prefix counts; anything else, including non-finite values,
	// charts as 0.
	require.Equal(t, []float64{-2.5, 1000, 12, 0, 0, 0}, series.Datasets[0].Data)
}
