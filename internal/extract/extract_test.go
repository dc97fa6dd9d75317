package extract

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

const sample = `V240107b,V241501x,note
1.25,1,a
 ,-8,
0.5,3,c
`

func TestReadCSVParsesNumbers(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sample), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, raw.Rows())
	assert.Equal(t, []string{"V240107b", "V241501x", "note"}, raw.Names())

	w, err := raw.Column("V240107b")
	require.NoError(t, err)
	assert.Equal(t, frame.NumCell(1.25), w[0])
	assert.True(t, w[1].IsBlank())

	race, _ := raw.Column("V241501x")
	assert.Equal(t, frame.IntCell(-8), race[1])

	note, _ := raw.Column("note")
	assert.Equal(t, frame.TextCell("a"), note[0])
	assert.True(t, note[1].IsBlank())
}

func TestReadCSVProjectionAndTextHints(t *testing.T) {
	raw, err := ReadCSV(strings.NewReader(sample), Options{Columns: []string{"V241501x"}, Text: []string{"V241501x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"V241501x"}, raw.Names())
	race, _ := raw.Column("V241501x")
	assert.Equal(t, frame.TextCell("1"), race[0])

	_, err = ReadCSV(strings.NewReader(sample), Options{Columns: []string{"VCF0004"}})
	require.ErrorIs(t, err, frame.ErrNoColumn)
}

func TestReadCSVKeepsMalformedCodesPastFirstLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("V1\n")
	for i := 0; i < 150; i++ {
		b.WriteString("3\n")
	}
	b.WriteString("abc\n 5\n")

	raw, err := ReadCSV(strings.NewReader(b.String()), Options{})
	require.NoError(t, err)
	require.Equal(t, 152, raw.Rows())
	cells, err := raw.Column("V1")
	require.NoError(t, err)
	assert.Equal(t, frame.IntCell(3), cells[149])
	assert.Equal(t, frame.TextCell("abc"), cells[150])
	assert.Equal(t, frame.IntCell(5), cells[151])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), Options{})
	require.Error(t, err)
}

func TestLoadGzipCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	raw, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, raw.Rows())
}

func TestLoadRejectsUnknownFormats(t *testing.T) {
	for _, name := range []string{"codebook.pdf", "extract.dta.gz", "extract.tsv"} {
		_, err := Load(filepath.Join(t.TempDir(), name), Options{})
		assert.True(t, errors.Is(err, ErrUnsupported), name)
	}
}

func TestDetect(t *testing.T) {
	cases := map[string]Format{
		"a.CSV":      CSV,
		"a.csv.gz":   CSV,
		"a.dta":      Stata,
		"a.sas7bdat": SAS,
	}
	for path, want := range cases {
		got, ok := Detect(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
}
