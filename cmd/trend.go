package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/surveyloom/internal/aggregate"
	"github.com/KaramelBytes/surveyloom/internal/utils"
	"github.com/spf13/cobra"
)

var (
	trendGroupBy []string
	trendOutput  string
)

var trendCmd = &cobra.Command{
	Use:   "trend <variable>",
	Short: "Weighted mean of a variable per year, optionally split by groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := settings()
		if err != nil {
			return err
		}
		data, err := buildCombined(cmd)
		if err != nil {
			return err
		}
		g, err := aggregate.GroupedMeans(data.table, args[0], aggregate.Options{
			Time:   conf.TimeColumn,
			Weight: conf.WeightColumn,
			By:     trendGroupBy,
		})
		if err != nil {
			return err
		}
		p := g.Pivot()

		if trendOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), p.Markdown())
			return nil
		}
		if err := utils.EnsureDir(filepath.Dir(trendOutput)); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		f, commit, abort, err := utils.SafeCreate(trendOutput)
		if err != nil {
			return err
		}
		if err := p.WriteCSV(f); err != nil {
			abort()
			return fmt.Errorf("write trend: %w", err)
		}
		if err := commit(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d series over %d periods to %s\n", len(p.Series), len(p.Times), trendOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	addSourceFlags(trendCmd)
	trendCmd.Flags().StringSliceVar(&trendGroupBy, "group-by", nil, "categorical column(s) to split series by (repeatable)")
	trendCmd.Flags().StringVarP(&trendOutput, "output", "o", "", "write the pivot as CSV to this path instead of printing markdown")
}
