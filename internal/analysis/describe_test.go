package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

func table(t *testing.T) *frame.Table {
	t.Helper()
	mk := func(name string, typ frame.Type, vals ...frame.Value) *frame.Column {
		c, err := frame.NewColumn(name, typ, vals)
		if err != nil {
			t.Fatalf("column %s: %v", name, err)
		}
		return c
	}
	tbl, err := frame.NewTable(
		mk("weight", frame.Numeric, frame.Float(1), frame.Float(1), frame.Float(2), frame.Float(0)),
		mk("x", frame.Integer, frame.Int(1), frame.Int(2), frame.Int(3), frame.Missing),
		mk("y", frame.Integer, frame.Int(2), frame.Int(4), frame.Int(6), frame.Int(8)),
		mk("race", frame.Text, frame.Str("White"), frame.Str("Black"), frame.Str("White"), frame.Missing),
		mk("empty", frame.Integer, frame.Missing, frame.Missing, frame.Missing, frame.Missing),
	)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return tbl
}

func col(t *testing.T, r *Report, name string) ColumnSummary {
	t.Helper()
	for _, c := range r.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no summary for %s", name)
	return ColumnSummary{}
}

func TestDescribeNumeric(t *testing.T) {
	r := Describe("anes_combined", table(t), DefaultOptions())
	x := col(t, r, "x")
	if x.NonNull != 3 || x.Missing != 1 || x.Min != 1 || x.Max != 3 {
		t.Fatalf("unexpected x summary: %+v", x)
	}
	if math.Abs(x.Mean-2) > 1e-12 || math.Abs(x.Std-1) > 1e-12 {
		t.Fatalf("mean/std: %v %v", x.Mean, x.Std)
	}
	// (1*1 + 2*1 + 3*2) / 4
	if !x.Weighted || math.Abs(x.WeightedMean-2.25) > 1e-12 {
		t.Fatalf("weighted mean: %+v", x)
	}
}

func TestDescribeText(t *testing.T) {
	r := Describe("", table(t), DefaultOptions())
	race := col(t, r, "race")
	if len(race.TopValues) != 2 || race.TopValues[0] != (CategoryCount{Value: "White", Count: 2}) {
		t.Fatalf("unexpected top values: %+v", race.TopValues)
	}
}

func TestDescribeCorrelations(t *testing.T) {
	r := Describe("", table(t), DefaultOptions())
	if len(r.Pairs) != 1 {
		t.Fatalf("expected one pair, got %+v", r.Pairs)
	}
	p := r.Pairs[0]
	if p.A != "x" || p.B != "y" || p.N != 3 || math.Abs(p.R-1) > 1e-12 {
		t.Fatalf("unexpected pair: %+v", p)
	}
}

func TestDescribeMarkdown(t *testing.T) {
	md := Describe("anes_combined", table(t), DefaultOptions()).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Table: anes_combined",
		"- x: integer (non-null 3, missing 25.0%); min 1, max 3, mean 2, std 1, weighted mean 2.25",
		"- race: text (non-null 3, missing 25.0%); top: White(2), Black(1)",
		"- x ~ y: r=1.000 (n=3)",
		"- empty has no values",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

func TestDescribeWithoutWeight(t *testing.T) {
	r := Describe("", table(t), Options{Weight: "missing_weight"})
	if col(t, r, "x").Weighted {
		t.Fatalf("weighted mean should be skipped")
	}
	if len(r.Warnings) == 0 || !strings.Contains(r.Warnings[0], "missing_weight") {
		t.Fatalf("expected a weight warning: %v", r.Warnings)
	}
	if len(r.Pairs) != 0 {
		t.Fatalf("correlations are off")
	}
}
