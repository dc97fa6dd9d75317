package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/surveyloom/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	descTop     int
	descNoCorr  bool
	descMaxPair int
	descOutput  string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Profile the combined table: missingness, moments, top levels, correlations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := settings()
		if err != nil {
			return err
		}
		data, err := buildCombined(cmd)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Weight = conf.WeightColumn
		if descTop > 0 {
			opt.TopValues = descTop
		}
		if descMaxPair > 0 {
			opt.MaxPairs = descMaxPair
		}
		opt.Correlations = !descNoCorr
		md := analysis.Describe("anes_combined", data.table, opt).Markdown()

		if descOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		if err := os.WriteFile(descOutput, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addSourceFlags(describeCmd)
	describeCmd.Flags().IntVar(&descTop, "top", 0, "levels listed per text column (default 5)")
	describeCmd.Flags().BoolVar(&descNoCorr, "no-corr", false, "skip pairwise correlations")
	describeCmd.Flags().IntVar(&descMaxPair, "max-pairs", 0, "correlation pairs listed (default 10)")
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "write the summary to a file instead of stdout")
}
