// Package anes harmonizes the ANES 2024 time series and the ANES cumulative
// data file into one table of canonical variables.
//
// Every variable is recoded and then validated before the next one is read;
// the first failure aborts the build for that instrument.
package anes

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/KaramelBytes/surveyloom/internal/recode"
	"github.com/KaramelBytes/surveyloom/internal/validate"
)

// Raw fields read outside the variable tables.
const (
	Weight2024       = "V240107b"
	WeightCumulative = "VCF0009z"
	YearCumulative   = "VCF0004"
	Year2024         = 2024
)

// DefaultYearCutoff is the first year kept in the combined table.
const DefaultYearCutoff = 2000

var (
	resentmentItems2024       = [4]string{"V242300", "V242301", "V242302", "V242303"}
	resentmentItemsCumulative = [4]string{"VCF9039", "VCF9040", "VCF9041", "VCF9042"}
)

// Fields2024 lists every raw field the 2024 build reads.
func Fields2024() []string { return Fields(Variables2024(), resentmentItems2024[:]...) }

// FieldsCumulative lists every raw field the cumulative build reads.
func FieldsCumulative() []string {
	return Fields(append(VariablesCumulative(), GatesCumulative()...), resentmentItemsCumulative[:]...)
}

// Builder harmonizes raw extracts. The zero value logs to slog.Default().
type Builder struct {
	Logger *slog.Logger
}

func (b Builder) log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// Build2024 harmonizes the 2024 time series with the default builder.
func Build2024(raw *frame.RawTable) (*frame.Table, error) { return Builder{}.Build2024(raw) }

// BuildCumulative harmonizes the cumulative data file with the default builder.
func BuildCumulative(raw *frame.RawTable) (*frame.Table, error) {
	return Builder{}.BuildCumulative(raw)
}

// Build2024 drops respondents without a post-election weight, sets year to
// 2024 and harmonizes the 2024 variables.
func (b Builder) Build2024(raw *frame.RawTable) (*frame.Table, error) {
	log := b.log().With("instrument", "2024")
	if _, err := raw.Column(Weight2024); err != nil {
		return nil, fmt.Errorf("2024 build: %w", err)
	}
	weighted := raw.Filter(func(r frame.RawRow) bool { return !r.Cell(Weight2024).IsBlank() })
	if dropped := raw.Rows() - weighted.Rows(); dropped > 0 {
		log.Info("dropped rows without weight", "rows", dropped)
	}

	years := make([]frame.Value, weighted.Rows())
	for i := range years {
		years[i] = frame.Int(Year2024)
	}
	year, err := frame.NewColumn("year", frame.Integer, years)
	if err != nil {
		return nil, err
	}
	cols, err := harmonize(weighted, Variables2024(), log)
	if err != nil {
		return nil, fmt.Errorf("2024 build: %w", err)
	}
	warnDemocrat(log)
	t, err := frame.NewTable(append([]*frame.Column{year}, cols...)...)
	if err != nil {
		return nil, fmt.Errorf("2024 build: %w", err)
	}
	log.Warn("resentment items are scored with the 2024 polarity; it differs from the cumulative file and is not reconciled",
		"formula", "-V242300 + V242301 + V242302 - V242303")
	t, err = derive(t, weighted, resentmentItems2024, Resentment2024)
	if err != nil {
		return nil, fmt.Errorf("2024 build: %w", err)
	}
	log.Info("build complete", "rows", t.Rows(), "columns", len(t.Columns()))
	return t, nil
}

// BuildCumulative harmonizes the cumulative data file, taking year from
// VCF0004.
func (b Builder) BuildCumulative(raw *frame.RawTable) (*frame.Table, error) {
	log := b.log().With("instrument", "cdf")
	cols, err := harmonize(raw, VariablesCumulative(), log)
	if err != nil {
		return nil, fmt.Errorf("cumulative build: %w", err)
	}
	if _, err := harmonize(raw, GatesCumulative(), log); err != nil {
		return nil, fmt.Errorf("cumulative build: %w", err)
	}
	warnDemocrat(log)
	t, err := frame.NewTable(cols...)
	if err != nil {
		return nil, fmt.Errorf("cumulative build: %w", err)
	}
	log.Warn("resentment items are scored with the cumulative polarity; it differs from 2024 and is not reconciled",
		"formula", "VCF9039 + VCF9042 - VCF9040 - VCF9041")
	t, err = derive(t, raw, resentmentItemsCumulative, ResentmentCumulative)
	if err != nil {
		return nil, fmt.Errorf("cumulative build: %w", err)
	}
	log.Info("build complete", "rows", t.Rows(), "columns", len(t.Columns()))
	return t, nil
}

func warnDemocrat(log *slog.Logger) {
	log.Warn("democrat counts party id codes 1 and 2; the source codebook mapped only code 1, same as strong_democrat",
		"mapping", "1:1 2:1 3-7:0")
}

// harmonize recodes and validates vars in order.
func harmonize(raw *frame.RawTable, vars []Variable, log *slog.Logger) ([]*frame.Column, error) {
	cols := make([]*frame.Column, 0, len(vars))
	for _, v := range vars {
		cells, err := raw.Column(v.Source)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		col, err := recode.Column(v.Name, cells, v.Spec)
		if err != nil {
			return nil, fmt.Errorf("recode %s from %s: %w", v.Name, v.Source, err)
		}
		if err := validate.Column(col, v.Rule); err != nil {
			return nil, fmt.Errorf("validate %s from %s: %w", v.Name, v.Source, err)
		}
		log.Debug("recoded variable", "variable", v.Name, "source", v.Source, "missing", col.CountMissing())
		cols = append(cols, col)
	}
	return cols, nil
}

type derived struct {
	name string
	typ  frame.Type
	rule validate.Rule
	fn   func(frame.Row) frame.Value
}

var derivedColumns = []derived{
	{"therm_delta", frame.Integer, validate.IntRange(-100, 100), func(r frame.Row) frame.Value {
		return ThermDelta(r.Value("therm_whites"), r.Value("therm_blacks"))
	}},
	{"age_group", frame.Text, validate.Labels("18-29", "30-44", "45-64", "65+"), func(r frame.Row) frame.Value {
		return AgeGroup(r.Value("age"))
	}},
	{"race_edu_block", frame.Text, validate.Labels("NonWhite", "WhiteCollege", "WhiteNonCollege"), func(r frame.Row) frame.Value {
		return RaceEduBlock(r.Value("race"), r.Value("college"))
	}},
	{"race_party_block", frame.Text, validate.Labels("WhiteRep", "WhiteDem", "WhiteInd", "NonWhite"), func(r frame.Row) frame.Value {
		return RacePartyBlock(r.Value("race"), r.Value("republican"), r.Value("democrat"))
	}},
	{"vote_prev_vote", frame.Text, validate.Labels("Rep-Rep", "Rep-Dem", "Dem-Rep", "Dem-Dem"), func(r frame.Row) frame.Value {
		return VotePrevVote(r.Value("prev_rep_pres"), r.Value("vote_rep_pres"))
	}},
}

var resentmentRule = validate.IntRange(-8, 8)

// derive appends the composite columns. The resentment index reads the raw
// items of the same rows.
func derive(t *frame.Table, raw *frame.RawTable, items [4]string, score func([4]frame.Cell) (frame.Value, error)) (*frame.Table, error) {
	for _, d := range derivedColumns {
		vals := make([]frame.Value, t.Rows())
		for i := range vals {
			vals[i] = d.fn(t.Row(i))
		}
		var err error
		if t, err = appendValidated(t, d.name, d.typ, d.rule, vals); err != nil {
			return nil, err
		}
	}

	for _, name := range items {
		if _, err := raw.Column(name); err != nil {
			return nil, fmt.Errorf("variable resentment: %w", err)
		}
	}
	vals := make([]frame.Value, t.Rows())
	for i := range vals {
		row := raw.Row(i)
		var cells [4]frame.Cell
		for j, name := range items {
			cells[j] = row.Cell(name)
		}
		v, err := score(cells)
		if err != nil {
			return nil, fmt.Errorf("derive resentment at row %d: %w", i, err)
		}
		vals[i] = v
	}
	return appendValidated(t, "resentment", frame.Integer, resentmentRule, vals)
}

func appendValidated(t *frame.Table, name string, typ frame.Type, rule validate.Rule, vals []frame.Value) (*frame.Table, error) {
	col, err := frame.NewColumn(name, typ, vals)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", name, err)
	}
	if err := validate.Column(col, rule); err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	return t.With(col)
}

// Combined stacks the cumulative and 2024 tables and keeps years at or after
// cutoff. Columns present in only one input are filled with missing values.
func Combined(cumulative, y2024 *frame.Table, cutoff int64) (*frame.Table, error) {
	all, err := frame.Concat(cumulative, y2024)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	if !all.Has("year") {
		return nil, fmt.Errorf("combine: year: %w", frame.ErrNoColumn)
	}
	return all.Filter(func(r frame.Row) bool {
		y, ok := r.Value("year").Float()
		return ok && y >= float64(cutoff)
	}), nil
}
