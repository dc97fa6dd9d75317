package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/KaramelBytes/surveyloom/internal/export"
	"github.com/spf13/cobra"
)

var (
	buildOutDir string
	buildFormat string
	buildName   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Harmonize the ANES extracts into one combined table",
	Long: `Build recodes and validates every canonical variable of the ANES 2024 time
series and the cumulative data file, stacks them, keeps the years at or after
the cutoff and writes the table plus a JSON manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := settings()
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(firstNonEmpty(buildFormat, conf.OutputFormat))
		if err != nil {
			return err
		}
		dir := firstNonEmpty(buildOutDir, conf.OutputDir)

		data, err := buildCombined(cmd)
		if err != nil {
			return err
		}
		path, err := export.Write(dir, buildName, format, data.table)
		if err != nil {
			return err
		}
		m := export.NewManifest(data.table, data.sources, data.cutoff)
		m.Output = path
		m.Format = format
		manifestPath := filepath.Join(dir, buildName+".manifest.json")
		if err := m.Save(manifestPath); err != nil {
			return err
		}
		slog.Info("combined table written", "run_id", m.RunID, "rows", m.Rows, "columns", len(m.Columns), "path", path)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %d rows (%d columns) to %s\n", m.Rows, len(m.Columns), path)
		fmt.Fprintf(out, "✓ Wrote manifest to %s\n", manifestPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addSourceFlags(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "output directory (overrides config)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "", "output format: parquet or csv (overrides config)")
	buildCmd.Flags().StringVar(&buildName, "name", "anes_combined", "output file name without extension")
}
