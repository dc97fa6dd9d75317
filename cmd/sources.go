package cmd

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/surveyloom/internal/anes"
	"github.com/KaramelBytes/surveyloom/internal/export"
	"github.com/KaramelBytes/surveyloom/internal/extract"
	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/spf13/cobra"
)

// Source flags shared by build, trend and fit. Empty values fall back to
// config.
var (
	srcANES2024   string
	srcANESCDF    string
	srcYearCutoff int
)

func addSourceFlags(c *cobra.Command) {
	c.Flags().StringVar(&srcANES2024, "anes-2024", "", "ANES 2024 time series extract (.csv, .csv.gz, .dta, .sas7bdat)")
	c.Flags().StringVar(&srcANESCDF, "anes-cdf", "", "ANES cumulative data file extract")
	c.Flags().IntVar(&srcYearCutoff, "year-cutoff", 0, "first year kept in the combined table (overrides config)")
}

// combined is the harmonized table plus what fed it.
type combined struct {
	table   *frame.Table
	sources []export.Source
	cutoff  int64
}

// buildCombined loads both extracts, harmonizes them and stacks them.
func buildCombined(c *cobra.Command) (*combined, error) {
	conf, err := settings()
	if err != nil {
		return nil, err
	}
	p2024 := firstNonEmpty(srcANES2024, conf.ANES2024Path)
	pCDF := firstNonEmpty(srcANESCDF, conf.ANESCDFPath)
	cutoff := int64(conf.YearCutoff)
	if c.Flags().Changed("year-cutoff") {
		cutoff = int64(srcYearCutoff)
	}

	b := anes.Builder{Logger: slog.Default()}
	raw24, err := extract.Load(p2024, extract.Options{Columns: anes.Fields2024()})
	if err != nil {
		return nil, fmt.Errorf("load 2024 extract: %w", err)
	}
	y2024, err := b.Build2024(raw24)
	if err != nil {
		return nil, err
	}
	rawCDF, err := extract.Load(pCDF, extract.Options{Columns: anes.FieldsCumulative()})
	if err != nil {
		return nil, fmt.Errorf("load cumulative extract: %w", err)
	}
	cdf, err := b.BuildCumulative(rawCDF)
	if err != nil {
		return nil, err
	}
	t, err := anes.Combined(cdf, y2024, cutoff)
	if err != nil {
		return nil, err
	}
	return &combined{
		table: t,
		sources: []export.Source{
			{Instrument: "cdf", Path: pCDF, Rows: rawCDF.Rows()},
			{Instrument: "2024", Path: p2024, Rows: raw24.Rows()},
		},
		cutoff: cutoff,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
