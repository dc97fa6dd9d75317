package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Raw extracts
	ANES2024Path string `mapstructure:"anes_2024_path" yaml:"anes_2024_path"`
	ANESCDFPath  string `mapstructure:"anes_cdf_path" yaml:"anes_cdf_path"`
	YearCutoff   int    `mapstructure:"year_cutoff" yaml:"year_cutoff"`

	// Harmonized output
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Aggregation and modeling
	TimeColumn    string  `mapstructure:"time_column" yaml:"time_column"`
	WeightColumn  string  `mapstructure:"weight_column" yaml:"weight_column"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// Dir is the per-user configuration directory, ~/.surveyloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".surveyloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.surveyloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Environment variables use the
// SURVEYLOOM_ prefix, e.g. SURVEYLOOM_YEAR_CUTOFF.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SURVEYLOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anes_2024_path", filepath.Join("data", "raw", "anes_2024.csv"))
	v.SetDefault("anes_cdf_path", filepath.Join("data", "raw", "anes_cdf.csv"))
	v.SetDefault("year_cutoff", 2000)
	v.SetDefault("output_dir", filepath.Join("data", "processed"))
	v.SetDefault("output_format", "parquet")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("time_column", "year")
	v.SetDefault("weight_column", "weight")
	v.SetDefault("max_iterations", 100)
	v.SetDefault("tolerance", 1e-8)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// an explicit --config that cannot be read is an error; a missing default is not
		if _, missing := err.(viper.ConfigFileNotFoundError); cfgFile != "" || !missing {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no command can run with.
func (c *Global) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.TimeColumn == "" {
		return fmt.Errorf("time_column must not be empty")
	}
	return nil
}
