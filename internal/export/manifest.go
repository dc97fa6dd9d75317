package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/KaramelBytes/surveyloom/internal/utils"
)

// Source records one raw extract that fed a build.
type Source struct {
	Instrument string `json:"instrument"`
	Path       string `json:"path"`
	Rows       int    `json:"rows"`
}

// ColumnInfo summarizes one output column.
type ColumnInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Missing int    `json:"missing"`
}

// Manifest describes one build run and its output.
type Manifest struct {
	RunID      string       `json:"run_id"`
	CreatedAt  time.Time    `json:"created_at"`
	Output     string       `json:"output"`
	Format     Format       `json:"format"`
	YearCutoff int64        `json:"year_cutoff"`
	Sources    []Source     `json:"sources"`
	Rows       int          `json:"rows"`
	Years      []int64      `json:"years"`
	Columns    []ColumnInfo `json:"columns"`
}

// NewManifest describes t with a fresh run id.
func NewManifest(t *frame.Table, sources []Source, cutoff int64) *Manifest {
	m := &Manifest{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		YearCutoff: cutoff,
		Sources:    sources,
		Rows:       t.Rows(),
	}
	for _, name := range t.Columns() {
		c, _ := t.Column(name)
		m.Columns = append(m.Columns, ColumnInfo{Name: name, Type: c.Type().String(), Missing: c.CountMissing()})
	}
	if years, err := t.Column("year"); err == nil {
		for _, v := range years.Distinct() {
			if y, ok := v.Float(); ok {
				m.Years = append(m.Years, int64(y))
			}
		}
		sort.Slice(m.Years, func(i, j int) bool { return m.Years[i] < m.Years[j] })
	}
	return m
}

// Save writes the manifest as indented JSON, replacing any previous file
// atomically.
func (m *Manifest) Save(path string) error {
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}
