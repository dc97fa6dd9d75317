// Package export writes a harmonized table to disk as Parquet or CSV, with a
// JSON manifest describing the run.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/KaramelBytes/surveyloom/internal/utils"
)

// Format is an output file format.
type Format string

const (
	Parquet Format = "parquet"
	CSV     Format = "csv"
)

// ParseFormat accepts "parquet" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Parquet, CSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want parquet or csv)", s)
}

// Ext returns the file extension of the format.
func (f Format) Ext() string { return "." + string(f) }

// Write stores t under dir as name plus the format's extension and returns
// the path written.
func Write(dir, name string, f Format, t *frame.Table) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+f.Ext())
	switch f {
	case Parquet:
		return path, WriteParquet(path, t)
	case CSV:
		out, commit, abort, err := utils.SafeCreate(path)
		if err != nil {
			return "", err
		}
		if err := WriteCSV(out, t); err != nil {
			abort()
			return "", err
		}
		return path, commit()
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

// WriteCSV writes t with a header row. Missing values are empty fields.
func WriteCSV(w io.Writer, t *frame.Table) error {
	cw := csv.NewWriter(w)
	names := t.Columns()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(names))
	for i := 0; i < t.Rows(); i++ {
		row := t.Row(i)
		for j, n := range names {
			rec[j] = row.Value(n).String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type schemaNode struct {
	Tag    string       `json:"Tag"`
	Fields []schemaNode `json:"Fields,omitempty"`
}

// ParquetSchema renders the JSON schema of t: integers as INT64, numbers as
// DOUBLE and text as UTF8 byte arrays, every field optional.
func ParquetSchema(t *frame.Table) (string, error) {
	root := schemaNode{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, name := range t.Columns() {
		c, _ := t.Column(name)
		var typ string
		switch c.Type() {
		case frame.Integer:
			typ = "type=INT64"
		case frame.Numeric:
			typ = "type=DOUBLE"
		case frame.Text:
			typ = "type=BYTE_ARRAY, convertedtype=UTF8"
		default:
			return "", fmt.Errorf("column %s: no parquet type for %s", name, c.Type())
		}
		root.Fields = append(root.Fields, schemaNode{Tag: fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", name, typ)})
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("marshal parquet schema: %w", err)
	}
	return string(b), nil
}

// WriteParquet writes t as a snappy-compressed Parquet file. Rows go to
// path+".tmp", which is renamed over path only after the footer is written.
func WriteParquet(path string, t *frame.Table) error {
	schema, err := ParquetSchema(t)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	abort := func() {
		_ = fw.Close()
		_ = os.Remove(tmp)
	}
	pw, err := writer.NewJSONWriter(schema, fw, 1)
	if err != nil {
		abort()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	names := t.Columns()
	rec := make(map[string]any, len(names))
	for i := 0; i < t.Rows(); i++ {
		row := t.Row(i)
		for _, n := range names {
			rec[n] = jsonValue(row.Value(n))
		}
		b, err := json.Marshal(rec)
		if err != nil {
			abort()
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if err := pw.Write(string(b)); err != nil {
			abort()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		abort()
		return fmt.Errorf("finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close parquet file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func jsonValue(v frame.Value) any {
	switch v.Kind() {
	case frame.KindInt:
		i, _ := v.Int()
		return i
	case frame.KindFloat:
		f, _ := v.Float()
		return f
	case frame.KindText:
		s, _ := v.Str()
		return s
	}
	return nil
}
