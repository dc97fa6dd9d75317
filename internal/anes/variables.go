package anes

import (
	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/KaramelBytes/surveyloom/internal/recode"
	"github.com/KaramelBytes/surveyloom/internal/validate"
)

// Variable declares one canonical column: the raw field it is read from, the
// recode that translates it and the rule its values must satisfy.
type Variable struct {
	Name   string
	Source string
	Spec   recode.Spec
	Rule   validate.Rule
}

// Canonical labels shared by both instruments.
var (
	raceLabels  = validate.Labels("White", "Black", "Hispanic", "Other")
	partyLabels = validate.Labels("D", "I", "R")
	binary      = validate.Ints(0, 1)
	sevenPoint  = validate.IntRange(1, 7)
	thermometer = validate.IntRange(0, 100)
)

var (
	strongRepublican = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0, 6: 0, 7: 1}
	republican       = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0, 6: 1, 7: 1}
	leanRepublican   = map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 1, 6: 1, 7: 1}
	strongDemocrat   = map[int]int{1: 1, 2: 0, 3: 0, 4: 0, 5: 0, 6: 0, 7: 0}
	democrat         = map[int]int{1: 1, 2: 1, 3: 0, 4: 0, 5: 0, 6: 0, 7: 0}
	leanDemocrat     = map[int]int{1: 1, 2: 1, 3: 1, 4: 0, 5: 0, 6: 0, 7: 0}
	partyNarrow      = map[int]string{1: "D", 2: "D", 3: "I", 4: "I", 5: "I", 6: "R", 7: "R"}
	partyBroad       = map[int]string{1: "D", 2: "D", 3: "D", 4: "I", 5: "R", 6: "R", 7: "R"}
	presVote         = map[int]int{1: 1, 2: 0}
)

// partyID expands the seven-point party identification field into the
// indicator and three-way variables.
func partyID(source string) []Variable {
	return []Variable{
		{"strong_republican", source, recode.MustSpec(frame.Integer, recode.Map(strongRepublican)), binary},
		{"republican", source, recode.MustSpec(frame.Integer, recode.Map(republican)), binary},
		{"lean_republican", source, recode.MustSpec(frame.Integer, recode.Map(leanRepublican)), binary},
		{"strong_democrat", source, recode.MustSpec(frame.Integer, recode.Map(strongDemocrat)), binary},
		{"democrat", source, recode.MustSpec(frame.Integer, recode.Map(democrat)), binary},
		{"lean_democrat", source, recode.MustSpec(frame.Integer, recode.Map(leanDemocrat)), binary},
		{"party_3_narrow", source, recode.MustSpec(frame.Text, recode.Map(partyNarrow)), partyLabels},
		{"party_3_broad", source, recode.MustSpec(frame.Text, recode.Map(partyBroad)), partyLabels},
	}
}

// Variables2024 lists the canonical variables of the 2024 time series in
// build order. year is a constant and is not listed.
func Variables2024() []Variable {
	thermNulls := recode.Nulls(-1, -4, -5, -6, -7, -9, 200, 998, 999)
	scaleNulls := recode.Nulls(-1, -5, -6, -7, -9)
	vars := []Variable{
		{"weight", Weight2024, recode.MustSpec(frame.Numeric), validate.AtLeast(0)},
		{"age", "V241458x", recode.MustSpec(frame.Integer, recode.Nulls(-2)), validate.Between(0, 120)},
		{"female", "V241550", recode.MustSpec(frame.Integer, recode.Nulls(3, 0, -9), recode.Map(map[int]int{1: 0, 2: 1})), binary},
		{"race", "V241501x", recode.MustSpec(frame.Text,
			recode.Map(map[int]string{1: "White", 2: "Black", 3: "Hispanic", 4: "Other", 5: "Other", 6: "Other"}),
			recode.Nulls(-4, -8, -9)), raceLabels},
	}
	vars = append(vars, partyID("V241227x")...)
	return append(vars,
		// Liberal-conservative self placement: codes 1-3 are the liberal end of
		// the 2024 scale. The cumulative file codes the conservative end as 1.
		Variable{"conservative", "V241177", recode.MustSpec(frame.Integer, recode.Map(map[int]int{1: 1, 2: 1, 3: 1, 4: 0, 5: 0, 6: 0, 7: 0})), binary},
		Variable{"vote_rep_pres", "V242067", recode.MustSpec(frame.Integer, recode.Map(presVote)), binary},
		Variable{"prev_rep_pres", "V241104", recode.MustSpec(frame.Integer, recode.Map(presVote)), binary},
		Variable{"blacks_lazy", "V242542", recode.MustSpec(frame.Integer, scaleNulls), sevenPoint},
		Variable{"therm_blacks", "V242516", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"therm_whites", "V242518", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"therm_trans", "V242151", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"therm_police", "V242150", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"anti_imm", "V242547", recode.MustSpec(frame.Integer, scaleNulls), sevenPoint},
		Variable{"college", "V242548", recode.MustSpec(frame.Integer, recode.Map(map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1})), binary},
		Variable{"no_guar_jobs", "V242549", recode.MustSpec(frame.Integer, scaleNulls), sevenPoint},
	)
}

// VariablesCumulative lists the canonical variables of the cumulative data
// file in build order.
func VariablesCumulative() []Variable {
	thermNulls := recode.Nulls(98, 99)
	vars := []Variable{
		{"year", YearCumulative, recode.MustSpec(frame.Integer), validate.AtLeast(1948)},
		{"weight", WeightCumulative, recode.MustSpec(frame.Numeric), validate.AtLeast(0)},
		{"age", "VCF0101", recode.MustSpec(frame.Integer, recode.Nulls(-2)), validate.Between(0, 120)},
		{"female", "VCF0104", recode.MustSpec(frame.Integer, recode.Nulls(3, 0, -9), recode.Map(map[int]int{1: 0, 2: 1})), binary},
		{"race", "VCF0105a", recode.MustSpec(frame.Text,
			recode.Map(map[int]string{1: "White", 2: "Black", 3: "Other", 4: "Other", 5: "Hispanic", 6: "Other"}),
			recode.Nulls(-4, -8, -9)), raceLabels},
	}
	vars = append(vars, partyID("VCF0301")...)
	return append(vars,
		Variable{"conservative", "VCF0803", recode.MustSpec(frame.Integer, recode.Map(map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0, 6: 1, 7: 1})), binary},
		Variable{"therm_blacks", "VCF0206", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"therm_whites", "VCF0207", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"therm_police", "VCF0214", recode.MustSpec(frame.Integer, thermNulls), thermometer},
		Variable{"college", "VCF0110", recode.MustSpec(frame.Integer, recode.Map(map[int]int{1: 0, 2: 0, 3: 0, 4: 1})), binary},
		Variable{"anti_imm", "VCF0879", recode.MustSpec(frame.Integer, recode.Nulls(8, 9)), sevenPoint},
		Variable{"no_guar_jobs", "VCF0809", recode.MustSpec(frame.Integer, recode.Nulls(0, 9)), sevenPoint},
		Variable{"vote_rep_pres", "VCF0704a", recode.MustSpec(frame.Integer, recode.Map(presVote)), binary},
		Variable{"prev_rep_pres", "VCF9027", recode.MustSpec(frame.Integer, recode.Map(presVote)), binary},
		Variable{"blacks_lazy", "VCF9271", recode.MustSpec(frame.Integer, recode.Nulls(-8, -9)), sevenPoint},
	)
}

// GatesCumulative lists raw fields that are recoded and validated like
// variables but left out of the table. A violation still aborts the build.
func GatesCumulative() []Variable {
	return []Variable{
		{"VCF9272", "VCF9272", recode.MustSpec(frame.Integer, recode.Nulls(-8, -9)), sevenPoint},
	}
}

// Fields returns the raw field names vars read, in order and without
// duplicates.
func Fields(vars []Variable, extra ...string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, name := range append(sourcesOf(vars), extra...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func sourcesOf(vars []Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Source
	}
	return out
}
