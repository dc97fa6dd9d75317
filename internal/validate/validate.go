// Package validate asserts that recoded columns hold only admissible values.
//
// Validation is a hard gate run immediately after each recode: the first
// violation aborts with a typed error, nothing is collected or deferred.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

type ruleKind uint8

const (
	setRule ruleKind = iota + 1
	predicateRule
)

// Rule is either a finite admissible set or a predicate over one
// non-missing value. The variant is fixed when the rule is built.
type Rule struct {
	kind ruleKind
	set  map[frame.Key]struct{}
	pred func(frame.Value) bool
	desc string
}

// OneOf admits exactly the listed values. Integers and floats of equal
// magnitude are the same member.
func OneOf(values ...frame.Value) Rule {
	set := make(map[frame.Key]struct{}, len(values))
	labels := make([]string, 0, len(values))
	for _, v := range values {
		set[v.Key()] = struct{}{}
		labels = append(labels, v.String())
	}
	return Rule{kind: setRule, set: set, desc: "{" + strings.Join(labels, ",") + "}"}
}

// Ints admits the listed integer codes.
func Ints(codes ...int64) Rule {
	vals := make([]frame.Value, len(codes))
	for i, c := range codes {
		vals[i] = frame.Int(c)
	}
	return OneOf(vals...)
}

// Labels admits the listed text labels.
func Labels(labels ...string) Rule {
	vals := make([]frame.Value, len(labels))
	for i, l := range labels {
		vals[i] = frame.Str(l)
	}
	return OneOf(vals...)
}

// IntRange admits every integer in [lo, hi].
func IntRange(lo, hi int64) Rule {
	set := make(map[frame.Key]struct{}, hi-lo+1)
	for i := lo; i <= hi; i++ {
		set[frame.Int(i).Key()] = struct{}{}
	}
	return Rule{kind: setRule, set: set, desc: fmt.Sprintf("{%d..%d}", lo, hi)}
}

// Predicate admits values for which fn reports true. desc names the rule
// in violation messages.
func Predicate(desc string, fn func(frame.Value) bool) Rule {
	return Rule{kind: predicateRule, pred: fn, desc: desc}
}

// Between admits numeric values in [lo, hi].
func Between(lo, hi float64) Rule {
	return Predicate(fmt.Sprintf("%s <= x <= %s", frame.FormatNumber(lo), frame.FormatNumber(hi)), func(v frame.Value) bool {
		f, ok := v.Float()
		return ok && lo <= f && f <= hi
	})
}

// AtLeast admits numeric values >= lo.
func AtLeast(lo float64) Rule {
	return Predicate(fmt.Sprintf("x >= %s", frame.FormatNumber(lo)), func(v frame.Value) bool {
		f, ok := v.Float()
		return ok && f >= lo
	})
}

// Admits reports whether a single non-missing value satisfies the rule.
func (r Rule) Admits(v frame.Value) bool {
	switch r.kind {
	case setRule:
		_, ok := r.set[v.Key()]
		return ok
	case predicateRule:
		return r.pred(v)
	}
	return false
}

func (r Rule) String() string { return r.desc }

// Column checks every distinct non-missing value of col against rule.
// A column with no non-missing values fails with MissingDataError; the
// first inadmissible value fails with ValidationViolation.
func Column(col *frame.Column, rule Rule) error {
	distinct := col.Distinct()
	if len(distinct) == 0 {
		return &frame.MissingDataError{Column: col.Name(), Reason: "no non-missing values to validate"}
	}
	sort.SliceStable(distinct, func(i, j int) bool { return frame.Compare(distinct[i], distinct[j]) < 0 })
	for _, v := range distinct {
		if !rule.Admits(v) {
			return &frame.ValidationViolation{Column: col.Name(), Value: v, Rule: rule.String()}
		}
	}
	return nil
}
