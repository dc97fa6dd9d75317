package aggregate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

type row struct {
	year   int64
	weight float64 // negative means missing
	value  float64 // negative means missing
	race   string
}

func table(t *testing.T, rows []row) *frame.Table {
	t.Helper()
	years := make([]frame.Value, len(rows))
	weights := make([]frame.Value, len(rows))
	values := make([]frame.Value, len(rows))
	races := make([]frame.Value, len(rows))
	for i, r := range rows {
		years[i] = frame.Int(r.year)
		if r.weight >= 0 {
			weights[i] = frame.Float(r.weight)
		}
		if r.value >= 0 {
			values[i] = frame.Float(r.value)
		}
		if r.race != "" {
			races[i] = frame.Str(r.race)
		}
	}
	mk := func(name string, typ frame.Type, vals []frame.Value) *frame.Column {
		c, err := frame.NewColumn(name, typ, vals)
		require.NoError(t, err)
		return c
	}
	tbl, err := frame.NewTable(
		mk("year", frame.Integer, years),
		mk("weight", frame.Numeric, weights),
		mk("therm", frame.Numeric, values),
		mk("race", frame.Text, races),
	)
	require.NoError(t, err)
	return tbl
}

func TestUnitWeightsGiveArithmeticMean(t *testing.T) {
	tbl := table(t, []row{
		{2020, 1, 10, "White"}, {2020, 1, 20, "Black"}, {2020, 1, 60, "White"}, {2020, 1, -1, "White"},
	})
	m, err := WeightedMean(tbl, "therm", "weight")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, m, 1e-12)
}

func TestWeightedMeanUsesWeights(t *testing.T) {
	tbl := table(t, []row{{2020, 3, 10, "White"}, {2020, 1, 50, "White"}, {2020, -1, 1000, "White"}})
	m, err := WeightedMean(tbl, "therm", "weight")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m, 1e-12)
}

func TestWeightedMeanWithoutPairsIsMissingData(t *testing.T) {
	tbl := table(t, []row{{2020, -1, 10, "White"}, {2020, 2, -1, "White"}})
	_, err := WeightedMean(tbl, "therm", "weight")
	var md *frame.MissingDataError
	require.True(t, errors.As(err, &md))

	zero := table(t, []row{{2020, 0, 10, "White"}})
	_, err = WeightedMean(zero, "therm", "weight")
	require.True(t, errors.As(err, &md))
}

func TestWeightedMeanRejectsText(t *testing.T) {
	tbl := table(t, []row{{2020, 1, 10, "White"}})
	_, err := WeightedMean(tbl, "race", "weight")
	require.Error(t, err)
}

func TestGroupedMeansPivotByRace(t *testing.T) {
	tbl := table(t, []row{
		{2024, 1, 40, "White"}, {2024, 1, 60, "White"}, {2024, 2, 90, "Black"},
		{2020, 1, 30, "White"}, {2020, 1, 70, "Black"}, {2020, 5, 99, ""},
	})
	opt := DefaultOptions()
	opt.By = []string{"race"}
	g, err := GroupedMeans(tbl, "therm", opt)
	require.NoError(t, err)
	require.Len(t, g.Groups, 4)
	assert.Equal(t, []frame.Value{frame.Int(2020), frame.Str("Black")}, g.Groups[0].Keys)
	assert.Equal(t, []frame.Value{frame.Int(2024), frame.Str("White")}, g.Groups[3].Keys)
	assert.InDelta(t, 50.0, g.Groups[3].Mean, 1e-12)

	p := g.Pivot()
	assert.Equal(t, []frame.Value{frame.Int(2020), frame.Int(2024)}, p.Times)
	require.Len(t, p.Series, 2)
	assert.Equal(t, "Black", p.Series[0].Label)
	m, ok := p.At(1, frame.Int(2024))
	require.True(t, ok)
	assert.InDelta(t, 50.0, m, 1e-12)

	md := p.Markdown()
	assert.True(t, strings.HasPrefix(md, "[WEIGHTED TREND]"))
	assert.Contains(t, md, "| year | Black | White |")

	var buf bytes.Buffer
	require.NoError(t, p.WriteCSV(&buf))
	assert.Equal(t, "year,Black,White\n2020,70,30\n2024,90,50\n", buf.String())
}

func TestGroupedMeansSingleSeries(t *testing.T) {
	tbl := table(t, []row{{2024, 1, 40, ""}, {2020, 1, 30, ""}})
	g, err := GroupedMeans(tbl, "therm", DefaultOptions())
	require.NoError(t, err)
	p := g.Pivot()
	require.Len(t, p.Series, 1)
	assert.Equal(t, "therm", p.Series[0].Label)
}

func TestGroupedMeansNoUsableRows(t *testing.T) {
	tbl := table(t, []row{{2024, 1, -1, "White"}})
	_, err := GroupedMeans(tbl, "therm", DefaultOptions())
	var md *frame.MissingDataError
	require.True(t, errors.As(err, &md))
}
