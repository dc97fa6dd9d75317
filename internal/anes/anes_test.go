package anes_test

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveyloom/internal/anes"
	"github.com/KaramelBytes/surveyloom/internal/anes/anestest"
	"github.com/KaramelBytes/surveyloom/internal/extract"
	"github.com/KaramelBytes/surveyloom/internal/frame"
)

func quietBuilder(buf *bytes.Buffer) anes.Builder {
	return anes.Builder{Logger: slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func value(t *testing.T, tbl *frame.Table, col string, row int) frame.Value {
	t.Helper()
	c, err := tbl.Column(col)
	require.NoError(t, err)
	return c.At(row)
}

func TestBuild2024(t *testing.T) {
	var logs bytes.Buffer
	tbl, err := quietBuilder(&logs).Build2024(anestest.Raw2024())
	require.NoError(t, err)

	assert.Equal(t, anestest.Rows-1, tbl.Rows(), "row with a blank weight is dropped")
	cols := tbl.Columns()
	assert.Equal(t, "year", cols[0])
	for _, name := range []string{"weight", "therm_trans", "therm_delta", "age_group", "resentment",
		"race_edu_block", "race_party_block", "vote_prev_vote"} {
		assert.Contains(t, cols, name)
	}

	assert.Equal(t, frame.Int(2024), value(t, tbl, "year", 0))
	assert.Equal(t, frame.Float(0.5), value(t, tbl, "weight", 0))
	// row 4 has the -2 age sentinel
	assert.True(t, value(t, tbl, "age", 4).IsMissing())
	assert.True(t, value(t, tbl, "age_group", 4).IsMissing())
	assert.Equal(t, frame.Str("65+"), value(t, tbl, "age_group", 3))
	// party id 1 is a strong democrat
	assert.Equal(t, frame.Str("D"), value(t, tbl, "party_3_narrow", 0))
	assert.Equal(t, frame.Int(1), value(t, tbl, "democrat", 1))
	assert.Equal(t, frame.Int(0), value(t, tbl, "democrat", 2))
	// row 0: 1 - 0 race White; therm 0 and 0
	assert.Equal(t, frame.Int(0), value(t, tbl, "therm_delta", 0))
	assert.True(t, value(t, tbl, "therm_delta", 2).IsMissing(), "998 is a thermometer sentinel")
	// row 0 resentment: -1 + 1 + 5 - 2
	assert.Equal(t, frame.Int(3), value(t, tbl, "resentment", 0))
	assert.True(t, value(t, tbl, "resentment", 5).IsMissing())
	assert.Equal(t, frame.Str("Rep-Rep"), value(t, tbl, "vote_prev_vote", 0))

	assert.Contains(t, logs.String(), "resentment items are scored with the 2024 polarity")
	assert.Contains(t, logs.String(), "variable=therm_whites")
	assert.Contains(t, logs.String(), "democrat counts party id codes 1 and 2")
}

func TestBuildCumulative(t *testing.T) {
	var logs bytes.Buffer
	tbl, err := quietBuilder(&logs).BuildCumulative(anestest.RawCumulative())
	require.NoError(t, err)
	assert.Equal(t, anestest.Rows, tbl.Rows())
	assert.Equal(t, frame.Int(1996), value(t, tbl, "year", 0))
	assert.False(t, tbl.Has("therm_trans"))
	assert.False(t, tbl.Has("VCF9272"), "gate fields are not kept")
	assert.Contains(t, logs.String(), "democrat counts party id codes 1 and 2")

	// row 0 resentment: 1 + 5 - 1 - 1
	assert.Equal(t, frame.Int(4), value(t, tbl, "resentment", 0))
	assert.True(t, value(t, tbl, "resentment", 3).IsMissing(), "blank item")
	assert.True(t, value(t, tbl, "resentment", 6).IsMissing(), "don't know item")
	assert.Equal(t, frame.Int(100), value(t, tbl, "therm_delta", 0))
	// race code 5 is Hispanic in the cumulative file
	assert.Equal(t, frame.Str("Hispanic"), value(t, tbl, "race", 4))
}

func TestCombinedKeepsYearsFromCutoff(t *testing.T) {
	cdf, err := anes.BuildCumulative(anestest.RawCumulative())
	require.NoError(t, err)
	y24, err := anes.Build2024(anestest.Raw2024())
	require.NoError(t, err)

	all, err := anes.Combined(cdf, y24, anes.DefaultYearCutoff)
	require.NoError(t, err)

	want := 0
	for i := 0; i < cdf.Rows(); i++ {
		if y, _ := value(t, cdf, "year", i).Int(); y >= 2000 {
			want++
		}
	}
	assert.Equal(t, want+y24.Rows(), all.Rows())
	for i := 0; i < all.Rows(); i++ {
		y, ok := all.Row(i).Value("year").Int()
		require.True(t, ok)
		assert.GreaterOrEqual(t, y, int64(2000))
	}
	for _, name := range append(cdf.Columns(), y24.Columns()...) {
		assert.True(t, all.Has(name), name)
	}
	// therm_trans only exists in 2024
	assert.True(t, all.Row(0).Value("therm_trans").IsMissing())
}

func TestBuildAbortsOnViolation(t *testing.T) {
	raw := anestest.Raw2024()
	cells, err := raw.Column("V242516")
	require.NoError(t, err)
	bad := append([]frame.Cell(nil), cells...)
	bad[0] = frame.IntCell(150)

	broken := frame.NewRawTable()
	for _, name := range raw.Names() {
		col, _ := raw.Column(name)
		if name == "V242516" {
			col = bad
		}
		require.NoError(t, broken.Add(name, col))
	}
	_, err = anes.Build2024(broken)
	var v *frame.ValidationViolation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "therm_blacks", v.Column)
	assert.Contains(t, err.Error(), "V242516")
}

func TestBuildAbortsOnConversionFailure(t *testing.T) {
	raw := anestest.RawCumulative()
	broken := frame.NewRawTable()
	for _, name := range raw.Names() {
		col, _ := raw.Column(name)
		if name == "VCF0101" {
			col = append([]frame.Cell(nil), col...)
			col[0] = frame.TextCell("forty")
		}
		require.NoError(t, broken.Add(name, col))
	}
	_, err := anes.BuildCumulative(broken)
	var ce *frame.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "age")
}

func TestBuildFromCSVAbortsOnLateMalformedCode(t *testing.T) {
	// more rows than the CSV reader samples, with the bad weight near the end
	const blocks = 9
	raw := anestest.Raw2024()
	long := frame.NewRawTable()
	for _, name := range raw.Names() {
		col, _ := raw.Column(name)
		cells := make([]frame.Cell, 0, blocks*len(col))
		for b := 0; b < blocks; b++ {
			cells = append(cells, col...)
		}
		if name == anes.Weight2024 {
			cells[len(cells)-2] = frame.TextCell("abc")
		}
		require.NoError(t, long.Add(name, cells))
	}
	require.Greater(t, long.Rows(), 100)

	path := filepath.Join(t.TempDir(), "anes_2024.csv")
	require.NoError(t, anestest.WriteCSV(path, long))
	loaded, err := extract.Load(path, extract.Options{Columns: anes.Fields2024()})
	require.NoError(t, err)

	_, err = anes.Build2024(loaded)
	var ce *frame.ConversionError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Contains(t, err.Error(), "weight")
}

func TestBuildCumulativeGateAbortsOnOutOfRangeCode(t *testing.T) {
	raw := anestest.RawCumulative()
	broken := frame.NewRawTable()
	for _, name := range raw.Names() {
		col, _ := raw.Column(name)
		if name == "VCF9272" {
			col = append([]frame.Cell(nil), col...)
			col[0] = frame.IntCell(9)
		}
		require.NoError(t, broken.Add(name, col))
	}
	_, err := anes.BuildCumulative(broken)
	var v *frame.ValidationViolation
	require.True(t, errors.As(err, &v), "got %v", err)
	assert.Equal(t, "VCF9272", v.Column)
	assert.Contains(t, anes.FieldsCumulative(), "VCF9272")
}

func TestBuildMissingField(t *testing.T) {
	raw := frame.NewRawTable()
	require.NoError(t, raw.Add("V240107b", []frame.Cell{frame.NumCell(1)}))
	_, err := anes.Build2024(raw)
	require.ErrorIs(t, err, frame.ErrNoColumn)
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p24, pcdf, err := anestest.WriteExtracts(dir)
	require.NoError(t, err)

	raw24, err := extract.Load(p24, extract.Options{Columns: anes.Fields2024()})
	require.NoError(t, err)
	from24, err := anes.Build2024(raw24)
	require.NoError(t, err)
	direct, err := anes.Build2024(anestest.Raw2024())
	require.NoError(t, err)
	assert.Equal(t, direct.Rows(), from24.Rows())
	assert.Equal(t, direct.Columns(), from24.Columns())

	rawCDF, err := extract.Load(pcdf, extract.Options{Columns: anes.FieldsCumulative()})
	require.NoError(t, err)
	_, err = anes.BuildCumulative(rawCDF)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "anes_cdf.csv"), pcdf)
}

func TestFieldsHaveNoDuplicates(t *testing.T) {
	fields := anes.Fields2024()
	seen := map[string]bool{}
	for _, f := range fields {
		assert.False(t, seen[f], f)
		seen[f] = true
	}
	assert.True(t, seen["V241227x"])
	assert.True(t, seen["V242303"])
	assert.True(t, strings.HasPrefix(anes.FieldsCumulative()[0], "VCF"))
}
