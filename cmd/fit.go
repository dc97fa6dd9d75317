package cmd

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/surveyloom/internal/frame"
	"github.com/KaramelBytes/surveyloom/internal/model"
	"github.com/spf13/cobra"
)

var (
	fitDependent   string
	fitNumeric     []string
	fitCategorical []string
	fitYear        int
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a regression on the combined table",
	Long: `Fit prepares the listed columns (listwise deletion, numeric columns divided
by their range) and fits a logistic regression when the dependent variable has
two distinct values, ordinary least squares otherwise.

Categorical predictors are given as name=reference, e.g. --categorical race=White.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fitDependent == "" {
			return fmt.Errorf("--dependent is required")
		}
		conf, err := settings()
		if err != nil {
			return err
		}
		cats := make([]model.Categorical, 0, len(fitCategorical))
		catNames := make([]string, 0, len(fitCategorical))
		for _, s := range fitCategorical {
			c, err := model.ParseCategorical(s)
			if err != nil {
				return err
			}
			cats = append(cats, c)
			catNames = append(catNames, c.Name)
		}

		data, err := buildCombined(cmd)
		if err != nil {
			return err
		}
		t := data.table
		if cmd.Flags().Changed("year") {
			t = t.Filter(func(r frame.Row) bool {
				y, ok := r.Value(conf.TimeColumn).Float()
				return ok && y == float64(fitYear)
			})
		}

		prepared, err := model.Prepare(t, append([]string{fitDependent}, fitNumeric...), catNames)
		if err != nil {
			return err
		}
		slog.Debug("prepared model frame", "rows", prepared.Rows(), "dropped", t.Rows()-prepared.Rows())

		fitter := model.Fitter{MaxIterations: conf.MaxIterations, Tolerance: conf.Tolerance}
		m, err := fitter.Fit(prepared, fitDependent, fitNumeric, cats)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
	addSourceFlags(fitCmd)
	fitCmd.Flags().StringVar(&fitDependent, "dependent", "", "dependent variable")
	fitCmd.Flags().StringSliceVar(&fitNumeric, "numeric", nil, "numeric predictors (comma separated or repeated)")
	fitCmd.Flags().StringSliceVar(&fitCategorical, "categorical", nil, "categorical predictors as name=reference")
	fitCmd.Flags().IntVar(&fitYear, "year", 0, "fit on one survey year only")
}
