package recode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

func TestPartyMappingScenario(t *testing.T) {
	spec, err := NewSpec(frame.Text, Map(map[int]string{1: "D", 2: "D", 3: "I"}))
	require.NoError(t, err)

	in := []frame.Cell{frame.IntCell(1), frame.IntCell(2), frame.IntCell(3), frame.TextCell("1"), frame.IntCell(9)}
	col, err := Column("party", in, spec)
	require.NoError(t, err)
	assert.Equal(t, []frame.Value{frame.Str("D"), frame.Str("D"), frame.Str("I"), frame.Str("D"), frame.Missing}, col.Values())
	assert.Equal(t, frame.Text, col.Type())
}

func TestIdentityLaw(t *testing.T) {
	cases := []struct {
		target frame.Type
		in     frame.Cell
		want   frame.Value
	}{
		{frame.Integer, frame.IntCell(42), frame.Int(42)},
		{frame.Integer, frame.TextCell(" 42 "), frame.Int(42)},
		{frame.Numeric, frame.NumCell(1.25), frame.Float(1.25)},
		{frame.Numeric, frame.TextCell("0.5"), frame.Float(0.5)},
		{frame.Text, frame.IntCell(7), frame.Str("7")},
		{frame.Text, frame.NumCell(2.5), frame.Str("2.5")},
		{frame.Text, frame.TextCell("abc"), frame.Str("abc")},
	}
	for _, c := range cases {
		spec := MustSpec(c.target)
		got, err := Cell(c.in, spec)
		require.NoError(t, err, "%s -> %s", c.in, c.target)
		assert.Equal(t, c.want, got, "%s -> %s", c.in, c.target)
	}
}

func TestMappingLawHoldsForDigitStrings(t *testing.T) {
	mapping := map[int]int{1: 0, 2: 1}
	spec := MustSpec(frame.Integer, Map(mapping), Nulls(3, 0, -9))
	for k, v := range mapping {
		got, err := Cell(frame.IntCell(k), spec)
		require.NoError(t, err)
		assert.Equal(t, frame.Int(int64(v)), got)

		got, err = Cell(frame.TextCell(frame.FormatNumber(float64(k))), spec)
		require.NoError(t, err)
		assert.Equal(t, frame.Int(int64(v)), got)
	}
	for _, null := range []frame.Cell{frame.IntCell(-9), frame.TextCell("-9"), frame.NumCell(0)} {
		got, err := Cell(null, spec)
		require.NoError(t, err)
		assert.True(t, got.IsMissing(), "%s should be null", null)
	}
}

func TestBlankAndNAAlwaysMissing(t *testing.T) {
	specs := []Spec{
		MustSpec(frame.Integer),
		MustSpec(frame.Text, Map(map[string]string{" ": "space"})),
		MustSpec(frame.Integer, Keep(1, 2)),
		MustSpec(frame.Numeric, Nulls(-1)),
	}
	for _, spec := range specs {
		for _, in := range []frame.Cell{frame.NA, frame.TextCell(""), frame.TextCell(" "), frame.TextCell("\t ")} {
			got, err := Cell(in, spec)
			require.NoError(t, err)
			assert.True(t, got.IsMissing(), "%s under %s", in, spec)
		}
	}
}

func TestKeepPassesWhitelistOnly(t *testing.T) {
	spec := MustSpec(frame.Integer, Keep(1, 2, 3), Nulls(-1))
	col, err := Column("x", []frame.Cell{frame.IntCell(2), frame.TextCell("3"), frame.IntCell(4), frame.IntCell(-1)}, spec)
	require.NoError(t, err)
	assert.Equal(t, []frame.Value{frame.Int(2), frame.Int(3), frame.Missing, frame.Missing}, col.Values())
}

func TestNullsCheckedBeforeMapping(t *testing.T) {
	spec := MustSpec(frame.Integer, Map(map[int]int{1: 1, 2: 0}), Nulls(1))
	got, err := Cell(frame.IntCell(1), spec)
	require.NoError(t, err)
	assert.True(t, got.IsMissing())
}

func TestMixedNullOptionsAccumulate(t *testing.T) {
	spec := MustSpec(frame.Integer, Nulls(8, 9), Nulls("8", "9"))
	got, err := Cell(frame.TextCell("9"), spec)
	require.NoError(t, err)
	assert.True(t, got.IsMissing())
}

func TestConversionFailureIsFatal(t *testing.T) {
	spec := MustSpec(frame.Integer)
	_, err := Column("age", []frame.Cell{frame.IntCell(30), frame.TextCell("thirty")}, spec)
	var ce *frame.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Row)
	assert.Equal(t, frame.TextCell("thirty"), ce.Value)

	_, err = Cell(frame.NumCell(2.5), spec)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, -1, ce.Row)

	_, err = Cell(frame.TextCell("n/a"), MustSpec(frame.Numeric))
	require.True(t, errors.As(err, &ce))
}

func TestMalformedMappingFailsAtConstruction(t *testing.T) {
	_, err := NewSpec(frame.Integer, Map(map[int]string{1: "D"}))
	var ce *frame.ConversionError
	require.True(t, errors.As(err, &ce))
}

func TestKeepAndMappingRejected(t *testing.T) {
	_, err := NewSpec(frame.Integer, Keep(1), Map(map[int]int{1: 1}))
	require.ErrorIs(t, err, ErrKeepAndMapping)
}

func TestSpecDoesNotAliasCallerMap(t *testing.T) {
	mapping := map[int]int{1: 0}
	spec := MustSpec(frame.Integer, Map(mapping))
	mapping[2] = 1
	assert.Len(t, mapping, 2)

	got, err := Cell(frame.IntCell(2), spec)
	require.NoError(t, err)
	assert.True(t, got.IsMissing())
}

func TestExplicitTextKeyWins(t *testing.T) {
	spec := MustSpec(frame.Integer, Map(map[int]int{1: 10}), Map(map[string]int{"1": 20}))
	got, err := Cell(frame.TextCell("1"), spec)
	require.NoError(t, err)
	assert.Equal(t, frame.Int(20), got)
	got, err = Cell(frame.IntCell(1), spec)
	require.NoError(t, err)
	assert.Equal(t, frame.Int(10), got)
}
