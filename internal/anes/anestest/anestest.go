// Package anestest builds small synthetic ANES extracts for tests. The codes
// cycle through every answer the builders recognize, including sentinel
// codes, so each canonical variable keeps at least one value.
package anestest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/surveyloom/internal/frame"
)

// Rows is the number of respondents in each synthetic extract.
const Rows = 14

var ages = []int{25, 35, 50, 70, -2, 19, 44, 64, 80, 30, 55, 18, 29, 45}

type field struct {
	name string
	cell func(i int) frame.Cell
}

func cycle(n, offset int) func(int) frame.Cell {
	return func(i int) frame.Cell { return frame.IntCell(i%n + offset) }
}

func except(base func(int) frame.Cell, row int, c frame.Cell) func(int) frame.Cell {
	return func(i int) frame.Cell {
		if i == row {
			return c
		}
		return base(i)
	}
}

func build(fields []field) *frame.RawTable {
	raw := frame.NewRawTable()
	for _, f := range fields {
		cells := make([]frame.Cell, Rows)
		for i := range cells {
			cells[i] = f.cell(i)
		}
		if err := raw.Add(f.name, cells); err != nil {
			panic(err)
		}
	}
	return raw
}

// Raw2024 returns a 2024 time series extract. The last respondent has a
// blank weight.
func Raw2024() *frame.RawTable {
	therm := func(step int) func(int) frame.Cell {
		return func(i int) frame.Cell { return frame.IntCell(i * step % 101) }
	}
	return build([]field{
		{"V240107b", func(i int) frame.Cell {
			if i == Rows-1 {
				return frame.TextCell(" ")
			}
			return frame.NumCell(0.5 + float64(i)*0.25)
		}},
		{"V241458x", func(i int) frame.Cell { return frame.IntCell(ages[i]) }},
		{"V241550", except(cycle(2, 1), 6, frame.IntCell(3))},
		{"V241501x", except(cycle(6, 1), 7, frame.IntCell(-8))},
		{"V241227x", cycle(7, 1)},
		{"V241177", cycle(7, 1)},
		{"V242067", func(i int) frame.Cell { return frame.IntCell([]int{1, 2, -9}[i%3]) }},
		{"V241104", cycle(2, 1)},
		{"V242542", except(cycle(7, 1), 3, frame.IntCell(-9))},
		{"V242516", except(therm(9), 2, frame.IntCell(998))},
		{"V242518", except(therm(13), 4, frame.IntCell(999))},
		{"V242151", therm(7)},
		{"V242150", func(i int) frame.Cell { return frame.IntCell(100 - 5*i) }},
		{"V242547", cycle(7, 1)},
		{"V242548", cycle(5, 1)},
		{"V242549", except(cycle(7, 1), 0, frame.IntCell(-5))},
		{"V242300", except(cycle(5, 1), 5, frame.IntCell(-9))},
		{"V242301", cycle(5, 1)},
		{"V242302", func(i int) frame.Cell { return frame.IntCell(5 - i%5) }},
		{"V242303", cycle(4, 2)},
	})
}

// RawCumulative returns a cumulative data file extract covering 1996 to
// 2020 in four-year steps.
func RawCumulative() *frame.RawTable {
	return build([]field{
		{"VCF0004", func(i int) frame.Cell { return frame.IntCell(1996 + 4*(i%7)) }},
		{"VCF0009z", func(i int) frame.Cell { return frame.NumCell(1 + float64(i)*0.25) }},
		{"VCF0101", func(i int) frame.Cell { return frame.IntCell(ages[i]) }},
		{"VCF0104", cycle(2, 1)},
		{"VCF0105a", cycle(6, 1)},
		{"VCF0301", cycle(7, 1)},
		{"VCF0803", cycle(7, 1)},
		{"VCF0206", except(cycle(101, 0), 1, frame.IntCell(98))},
		{"VCF0207", func(i int) frame.Cell { return frame.IntCell(100 - 3*i) }},
		{"VCF0214", except(func(i int) frame.Cell { return frame.IntCell(50 + i) }, 2, frame.IntCell(99))},
		{"VCF0110", cycle(4, 1)},
		{"VCF0879", except(cycle(7, 1), 4, frame.IntCell(8))},
		{"VCF0809", except(cycle(7, 1), 5, frame.IntCell(9))},
		{"VCF0704a", func(i int) frame.Cell { return frame.IntCell([]int{1, 2, 0}[i%3]) }},
		{"VCF9027", cycle(2, 1)},
		{"VCF9271", cycle(7, 1)},
		{"VCF9272", except(cycle(7, 1), 2, frame.IntCell(-8))},
		{"VCF9039", except(cycle(5, 1), 3, frame.TextCell(" "))},
		{"VCF9040", except(cycle(5, 1), 6, frame.IntCell(8))},
		{"VCF9041", cycle(4, 1)},
		{"VCF9042", func(i int) frame.Cell { return frame.IntCell(5 - i%5) }},
	})
}

// WriteCSV writes raw as a CSV extract. Numbers use their shortest form and
// NA is written as an empty field.
func WriteCSV(path string, raw *frame.RawTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	names := raw.Names()
	if err := w.Write(names); err != nil {
		f.Close()
		return err
	}
	for i := 0; i < raw.Rows(); i++ {
		row := raw.Row(i)
		rec := make([]string, len(names))
		for j, name := range names {
			c := row.Cell(name)
			switch {
			case c.IsNA():
				rec[j] = ""
			case c.IsNumber():
				n, _ := c.Number()
				rec[j] = frame.FormatNumber(n)
			default:
				rec[j], _ = c.Text()
			}
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteExtracts writes both synthetic extracts under dir and returns their
// paths.
func WriteExtracts(dir string) (y2024, cumulative string, err error) {
	y2024 = filepath.Join(dir, "anes_2024.csv")
	cumulative = filepath.Join(dir, "anes_cdf.csv")
	if err := WriteCSV(y2024, Raw2024()); err != nil {
		return "", "", fmt.Errorf("write 2024 extract: %w", err)
	}
	if err := WriteCSV(cumulative, RawCumulative()); err != nil {
		return "", "", fmt.Errorf("write cumulative extract: %w", err)
	}
	return y2024, cumulative, nil
}
