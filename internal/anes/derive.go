package anes

import (
	"errors"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

var errNotCode = errors.New("not an integer response code")

// ThermDelta is the white minus black feeling thermometer gap.
func ThermDelta(whites, blacks frame.Value) frame.Value {
	w, okw := whites.Float()
	b, okb := blacks.Float()
	if !okw || !okb {
		return frame.Missing
	}
	return frame.Int(int64(w - b))
}

// AgeGroup bins an age in years. Ages under 18 have no group.
func AgeGroup(age frame.Value) frame.Value {
	a, ok := age.Float()
	switch {
	case !ok || a < 18:
		return frame.Missing
	case a <= 29:
		return frame.Str("18-29")
	case a <= 44:
		return frame.Str("30-44")
	case a <= 64:
		return frame.Str("45-64")
	}
	return frame.Str("65+")
}

// responseCode reads a raw agree/disagree item. ok is false for a blank.
func responseCode(c frame.Cell) (int64, bool, error) {
	if c.IsBlank() {
		return 0, false, nil
	}
	f, ok := c.Number()
	if !ok || f != float64(int64(f)) {
		return 0, false, &frame.ConversionError{Value: c, Target: frame.Integer, Row: -1, Err: errNotCode}
	}
	return int64(f), true, nil
}

// Resentment2024 scores the four racial resentment items of the 2024 time
// series. Any negative code means the respondent was not scored. The first
// and last items enter with a negative sign.
func Resentment2024(items [4]frame.Cell) (frame.Value, error) {
	var codes [4]int64
	for i, c := range items {
		code, ok, err := responseCode(c)
		if err != nil {
			return frame.Missing, err
		}
		if !ok || code < 0 {
			return frame.Missing, nil
		}
		codes[i] = code
	}
	return frame.Int(-codes[0] + codes[1] + codes[2] - codes[3]), nil
}

// ResentmentCumulative scores the four racial resentment items of the
// cumulative file (VCF9039, VCF9040, VCF9041, VCF9042 in that order). Codes 8
// and 9 are don't know and no answer.
func ResentmentCumulative(items [4]frame.Cell) (frame.Value, error) {
	var codes [4]int64
	for i, c := range items {
		code, ok, err := responseCode(c)
		if err != nil {
			return frame.Missing, err
		}
		if !ok || code == 8 || code == 9 {
			return frame.Missing, nil
		}
		codes[i] = code
	}
	return frame.Int(codes[0] + codes[3] - codes[1] - codes[2]), nil
}

func isNonWhite(race string) bool {
	return race == "Black" || race == "Hispanic" || race == "Other"
}

// RaceEduBlock splits white respondents by college degree.
func RaceEduBlock(race, college frame.Value) frame.Value {
	r, okr := race.Str()
	c, okc := college.Float()
	if !okr || !okc {
		return frame.Missing
	}
	switch {
	case isNonWhite(r):
		return frame.Str("NonWhite")
	case r == "White" && c == 1:
		return frame.Str("WhiteCollege")
	case r == "White" && c == 0:
		return frame.Str("WhiteNonCollege")
	}
	return frame.Missing
}

// RacePartyBlock splits white respondents by party. Republican wins when both
// indicators are set.
func RacePartyBlock(race, republican, democrat frame.Value) frame.Value {
	r, okr := race.Str()
	rep, okRep := republican.Float()
	dem, okDem := democrat.Float()
	if !okr || !okRep || !okDem {
		return frame.Missing
	}
	switch {
	case r == "White" && rep == 1:
		return frame.Str("WhiteRep")
	case r == "White" && dem == 1:
		return frame.Str("WhiteDem")
	case r == "White":
		return frame.Str("WhiteInd")
	case isNonWhite(r):
		return frame.Str("NonWhite")
	}
	return frame.Missing
}

// VotePrevVote crosses the previous and current presidential vote.
func VotePrevVote(prev, vote frame.Value) frame.Value {
	p, okp := prev.Float()
	v, okv := vote.Float()
	if !okp || !okv {
		return frame.Missing
	}
	party := func(x float64) (string, bool) {
		switch x {
		case 1:
			return "Rep", true
		case 0:
			return "Dem", true
		}
		return "", false
	}
	pp, ok1 := party(p)
	vp, ok2 := party(v)
	if !ok1 || !ok2 {
		return frame.Missing
	}
	return frame.Str(pp + "-" + vp)
}
