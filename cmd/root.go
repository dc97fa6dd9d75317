package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/surveyloom/internal/config"
	"github.com/KaramelBytes/surveyloom/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "surveyloom",
	Short: "surveyloom: harmonize ANES survey extracts into one analysis table",
	Long: `surveyloom recodes and validates the ANES 2024 time series and the ANES
cumulative data file into one table of canonical variables, then computes
weighted trends and fits regression models on it.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.surveyloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		logging.Setup(levelOverride("info"), formatOverride("text"))
		return
	}
	cfg = c
	logging.Setup(levelOverride(cfg.LogLevel), formatOverride(cfg.LogFormat))
	slog.Debug("config loaded", "file", cfgFile)
}

func levelOverride(fallback string) string {
	switch {
	case debug:
		return "debug"
	case logLevel != "":
		return logLevel
	}
	return fallback
}

func formatOverride(fallback string) string {
	if logFormat != "" {
		return logFormat
	}
	return fallback
}

// settings returns the loaded configuration, loading it again if startup
// failed so the command can report why.
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
