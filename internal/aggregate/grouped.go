package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// Options controls grouping for GroupedMeans.
type Options struct {
	// Time is the time column every partition is keyed by.
	Time string
	// Weight is the survey weight column.
	Weight string
	// By lists extra categorical keys; each level becomes its own series
	// when pivoted.
	By []string
}

// DefaultOptions groups by year with the canonical weight column.
func DefaultOptions() Options {
	return Options{Time: "year", Weight: "weight"}
}

// Group is the weighted mean of one (time, by...) combination.
type Group struct {
	Keys      []frame.Value // time first, then By in order
	Mean      float64
	N         int
	WeightSum float64
}

// Grouped holds one Group per distinct key combination, sorted by keys.
type Grouped struct {
	Value  string
	Keys   []string
	Groups []Group
}

// GroupedMeans partitions the usable rows by (time, by...) and computes the
// weighted mean of value within each partition. Rows missing the value, the
// weight, or any key are dropped first.
func GroupedMeans(t *frame.Table, value string, opt Options) (*Grouped, error) {
	if opt.Time == "" || opt.Weight == "" {
		def := DefaultOptions()
		if opt.Time == "" {
			opt.Time = def.Time
		}
		if opt.Weight == "" {
			opt.Weight = def.Weight
		}
	}
	vc, wc, err := numericPair(t, value, opt.Weight)
	if err != nil {
		return nil, err
	}
	keyNames := append([]string{opt.Time}, opt.By...)
	keyCols := make([]*frame.Column, len(keyNames))
	for j, name := range keyNames {
		if keyCols[j], err = t.Column(name); err != nil {
			return nil, err
		}
	}

	type part struct {
		keys []frame.Value
		rows []int
	}
	parts := map[string]*part{}
	var order []string
	for i := 0; i < t.Rows(); i++ {
		if vc.At(i).IsMissing() || wc.At(i).IsMissing() {
			continue
		}
		keys := make([]frame.Value, len(keyCols))
		id := make([]string, len(keyCols))
		usable := true
		for j, kc := range keyCols {
			keys[j] = kc.At(i)
			if keys[j].IsMissing() {
				usable = false
				break
			}
			id[j] = fmt.Sprintf("%v", keys[j].Key())
		}
		if !usable {
			continue
		}
		k := strings.Join(id, "\x1f")
		p, ok := parts[k]
		if !ok {
			p = &part{keys: keys}
			parts[k] = p
			order = append(order, k)
		}
		p.rows = append(p.rows, i)
	}
	if len(order) == 0 {
		return nil, &frame.MissingDataError{Column: value, Reason: "no rows with value, weight and group keys present"}
	}

	out := &Grouped{Value: value, Keys: keyNames}
	for _, k := range order {
		p := parts[k]
		m, n, ws, err := weightedMean(vc, wc, p.rows)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", describeKeys(keyNames, p.keys), err)
		}
		out.Groups = append(out.Groups, Group{Keys: p.keys, Mean: m, N: n, WeightSum: ws})
	}
	sort.SliceStable(out.Groups, func(a, b int) bool {
		ka, kb := out.Groups[a].Keys, out.Groups[b].Keys
		for j := range ka {
			if c := frame.Compare(ka[j], kb[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

func describeKeys(names []string, keys []frame.Value) string {
	parts := make([]string, len(names))
	for j := range names {
		parts[j] = fmt.Sprintf("%s=%s", names[j], keys[j])
	}
	return strings.Join(parts, " | ")
}
