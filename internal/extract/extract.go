// Package extract loads raw survey extracts into memory as frame.RawTable.
//
// The reader is picked from the file extension: .csv and .csv.gz are read
// as text and parsed cell by cell, .dta and .sas7bdat are read as binary
// statistical files. Numeric codes become numeric cells, text stays text and masked
// entries become frame.NA.
package extract

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kshedden/datareader"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// ErrUnsupported is returned for an extension no reader handles.
var ErrUnsupported = errors.New("unsupported extract format")

// Options narrows what is loaded.
type Options struct {
	// Columns keeps only the named fields. Every name must exist in the
	// extract. Empty keeps all fields.
	Columns []string
	// Text forces the named CSV fields to be read as text.
	Text []string
}

// Format names a supported extract format.
type Format string

const (
	CSV     Format = "csv"
	Stata   Format = "dta"
	SAS     Format = "sas7bdat"
	unknown Format = ""
)

const gzSuffix = ".gz"

// Detect maps a path to its extract format.
func Detect(path string) (Format, bool) {
	lower := strings.ToLower(path)
	gz := strings.HasSuffix(lower, gzSuffix)
	lower = strings.TrimSuffix(lower, gzSuffix)
	switch filepath.Ext(lower) {
	case ".csv":
		return CSV, true
	case ".dta":
		return Stata, !gz
	case ".sas7bdat":
		return SAS, !gz
	}
	return unknown, false
}

// Load reads the extract at path.
func Load(path string, opt Options) (*frame.RawTable, error) {
	format, ok := Detect(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract: %w", err)
	}
	defer f.Close()

	var (
		series []*datareader.Series
		parse  func(string) bool
	)
	switch format {
	case CSV:
		var r io.Reader = f
		if strings.HasSuffix(strings.ToLower(path), gzSuffix) {
			gz, err := gzip.NewReader(f)
			if err != nil {
				return nil, fmt.Errorf("open gzip extract %s: %w", path, err)
			}
			defer gz.Close()
			r = gz
		}
		series, err = readCSV(r)
		parse = csvParsed(opt)
	case Stata:
		series, err = readStata(f)
	case SAS:
		series, err = readSAS(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return toRaw(series, opt.Columns, parse)
}

// ReadCSV reads a CSV extract from r.
func ReadCSV(r io.Reader, opt Options) (*frame.RawTable, error) {
	series, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return toRaw(series, opt.Columns, csvParsed(opt))
}

// readCSV reads every field as a string. datareader only sniffs the first
// 100 lines and masks later cells that do not parse as float, which would
// turn a malformed code into a missing value.
func readCSV(r io.Reader) ([]*datareader.Series, error) {
	var head bytes.Buffer
	names, err := csv.NewReader(io.TeeReader(r, &head)).Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file appears to be empty")
	}
	if err != nil {
		return nil, err
	}
	rdr := datareader.NewCSVReader(io.MultiReader(&head, r))
	rdr.HasHeader = true
	rdr.TypeHintsName = make(map[string]string, len(names))
	for _, name := range names {
		rdr.TypeHintsName[name] = "string"
	}
	return rdr.Read(-1)
}

// csvParsed reports which CSV fields get numeric parsing: all but the
// fields forced to text.
func csvParsed(opt Options) func(string) bool {
	text := make(map[string]bool, len(opt.Text))
	for _, name := range opt.Text {
		text[name] = true
	}
	return func(name string) bool { return !text[name] }
}

// csvCell keeps a field that parses as a number (after trimming) as a
// numeric cell and everything else as raw text, so the recode step sees
// and rejects malformed codes.
func csvCell(s string) frame.Cell {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return frame.NumCell(f)
	}
	return frame.TextCell(s)
}

func readStata(f io.ReadSeeker) ([]*datareader.Series, error) {
	rdr, err := datareader.NewStataReader(f)
	if err != nil {
		return nil, err
	}
	// keep response codes numeric instead of swapping in value labels
	rdr.InsertCategoryLabels = false
	rdr.ConvertDates = false
	return read(rdr)
}

func readSAS(f io.ReadSeeker) ([]*datareader.Series, error) {
	rdr, err := datareader.NewSAS7BDATReader(f)
	if err != nil {
		return nil, err
	}
	rdr.TrimStrings = true
	return read(rdr)
}

func read(rdr datareader.StatfileReader) ([]*datareader.Series, error) {
	series, err := rdr.Read(-1)
	if errors.Is(err, io.EOF) || (err == nil && series == nil) {
		// no rows: keep the column names
		series = nil
		for _, name := range rdr.ColumnNames() {
			s, _ := datareader.NewSeries(name, []float64{}, []bool{})
			series = append(series, s)
		}
		return series, nil
	}
	return series, err
}

// toRaw converts series into raw cells, keeping only keep when non-empty.
// String fields for which parse reports true go through csvCell.
func toRaw(series []*datareader.Series, keep []string, parse func(string) bool) (*frame.RawTable, error) {
	byName := make(map[string]*datareader.Series, len(series))
	var order []string
	for _, s := range series {
		if s == nil {
			continue
		}
		byName[s.Name] = s
		order = append(order, s.Name)
	}
	if len(keep) > 0 {
		for _, name := range keep {
			if _, ok := byName[name]; !ok {
				return nil, fmt.Errorf("extract field %s: %w", name, frame.ErrNoColumn)
			}
		}
		order = keep
	}

	raw := frame.NewRawTable()
	for _, name := range order {
		cells, err := cellsOf(byName[name], parse != nil && parse(name))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if err := raw.Add(name, cells); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func cellsOf(s *datareader.Series, parse bool) ([]frame.Cell, error) {
	s = s.UpcastNumeric()
	miss := s.Missing()
	masked := func(i int) bool { return i < len(miss) && miss[i] }
	switch data := s.Data().(type) {
	case []float64:
		cells := make([]frame.Cell, len(data))
		for i, x := range data {
			if !masked(i) {
				cells[i] = frame.NumCell(x)
			}
		}
		return cells, nil
	case []string:
		cells := make([]frame.Cell, len(data))
		for i, x := range data {
			switch {
			case masked(i):
			case parse:
				cells[i] = csvCell(x)
			default:
				cells[i] = frame.TextCell(x)
			}
		}
		return cells, nil
	}
	return nil, fmt.Errorf("unsupported series type %T", s.Data())
}
