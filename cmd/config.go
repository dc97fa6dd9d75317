package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/surveyloom/internal/config"
	"github.com/KaramelBytes/surveyloom/internal/export"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set surveyloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "anes_2024_path: %s\n", cfg.ANES2024Path)
		fmt.Fprintf(out, "anes_cdf_path: %s\n", cfg.ANESCDFPath)
		fmt.Fprintf(out, "year_cutoff: %d\n", cfg.YearCutoff)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "time_column: %s\n", cfg.TimeColumn)
		fmt.Fprintf(out, "weight_column: %s\n", cfg.WeightColumn)
		fmt.Fprintf(out, "max_iterations: %d\n", cfg.MaxIterations)
		fmt.Fprintf(out, "tolerance: %g\n", cfg.Tolerance)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "anes_2024_path":
			next.ANES2024Path = val
		case "anes_cdf_path":
			next.ANESCDFPath = val
		case "year_cutoff":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for year_cutoff: %w", err)
			}
			next.YearCutoff = i
		case "output_dir":
			next.OutputDir = val
		case "output_format":
			f, err := export.ParseFormat(val)
			if err != nil {
				return err
			}
			next.OutputFormat = string(f)
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				next.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				next.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "time_column":
			next.TimeColumn = val
		case "weight_column":
			next.WeightColumn = val
		case "max_iterations":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_iterations: %w", err)
			}
			next.MaxIterations = i
		case "tolerance":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for tolerance: %w", err)
			}
			next.Tolerance = f
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
