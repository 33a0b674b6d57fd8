package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the command settings. Every key can come from a flag, a
// CMRFLATTEN_<KEY> environment variable, or the optional config file, in
// that order of precedence.
type Config struct {
	InputFile        string        `mapstructure:"input_file"`
	OutputFile       string        `mapstructure:"output_file"`
	PGConn           string        `mapstructure:"pg"`
	PGTable          string        `mapstructure:"table"`
	Replace          bool          `mapstructure:"replace"`
	LogFormat        string        `mapstructure:"log_format"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

func registerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("input_file", "", "Headerless 18-column export CSV (required)")
	f.String("output_file", "", "Output file; .parquet writes Parquet, anything else CSV (required)")
	f.String("pg", "", "PostgreSQL connection string; also load the table into PostgreSQL")
	f.String("table", "cmr_export", "PostgreSQL table name")
	f.Bool("replace", false, "Drop the PostgreSQL table first if it exists")
	f.String("log_format", "json", "Log format: json or console")
	f.Duration("progress_interval", 5*time.Second, "Minimum time between progress lines")
	f.String("config", "", "Optional config file (yaml, toml, json)")
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CMRFLATTEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.InputFile == "" {
		errs = append(errs, errors.New("--input_file is required"))
	}
	if c.OutputFile == "" {
		errs = append(errs, errors.New("--output_file is required"))
	}
	if c.InputFile != "" && c.InputFile == c.OutputFile {
		errs = append(errs, errors.New("--output_file must differ from --input_file"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("--log_format must be json or console, got %q", c.LogFormat))
	}
	if c.PGConn != "" && c.PGTable == "" {
		errs = append(errs, errors.New("--table must not be empty when --pg is set"))
	}
	return errors.Join(errs...)
}
