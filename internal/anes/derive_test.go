package anes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

func TestAgeGroupBins(t *testing.T) {
	cases := map[int64]string{18: "18-29", 29: "18-29", 30: "30-44", 44: "30-44", 45: "45-64", 64: "45-64", 65: "65+", 99: "65+"}
	for age, want := range cases {
		assert.Equal(t, frame.Str(want), AgeGroup(frame.Int(age)), age)
	}
	assert.True(t, AgeGroup(frame.Int(17)).IsMissing())
	assert.True(t, AgeGroup(frame.Missing).IsMissing())
}

func TestThermDelta(t *testing.T) {
	assert.Equal(t, frame.Int(-35), ThermDelta(frame.Int(50), frame.Int(85)))
	assert.True(t, ThermDelta(frame.Missing, frame.Int(85)).IsMissing())
}

func cells(codes ...int) [4]frame.Cell {
	var out [4]frame.Cell
	for i, c := range codes {
		out[i] = frame.IntCell(c)
	}
	return out
}

func TestResentmentPolarityPerInstrument(t *testing.T) {
	v, err := Resentment2024(cells(5, 1, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, frame.Int(-8), v)

	v, err = ResentmentCumulative(cells(5, 1, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, frame.Int(8), v)

	v, err = Resentment2024(cells(1, -9, 1, 1))
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	v, err = ResentmentCumulative(cells(1, 9, 1, 1))
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	items := cells(1, 1, 1, 1)
	items[2] = frame.TextCell("  ")
	v, err = ResentmentCumulative(items)
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	items[2] = frame.TextCell("2.5")
	_, err = Resentment2024(items)
	var ce *frame.ConversionError
	require.True(t, errors.As(err, &ce))
}

func TestBlocks(t *testing.T) {
	white, black := frame.Str("White"), frame.Str("Black")
	one, zero := frame.Int(1), frame.Int(0)

	assert.Equal(t, frame.Str("WhiteCollege"), RaceEduBlock(white, one))
	assert.Equal(t, frame.Str("WhiteNonCollege"), RaceEduBlock(white, zero))
	assert.Equal(t, frame.Str("NonWhite"), RaceEduBlock(black, zero))
	assert.True(t, RaceEduBlock(white, frame.Missing).IsMissing())

	assert.Equal(t, frame.Str("WhiteRep"), RacePartyBlock(white, one, one))
	assert.Equal(t, frame.Str("WhiteDem"), RacePartyBlock(white, zero, one))
	assert.Equal(t, frame.Str("WhiteInd"), RacePartyBlock(white, zero, zero))
	assert.Equal(t, frame.Str("NonWhite"), RacePartyBlock(black, one, zero))
	assert.True(t, RacePartyBlock(black, frame.Missing, zero).IsMissing())

	assert.Equal(t, frame.Str("Rep-Dem"), VotePrevVote(one, zero))
	assert.Equal(t, frame.Str("Dem-Rep"), VotePrevVote(zero, one))
	assert.True(t, VotePrevVote(frame.Missing, one).IsMissing())
}
