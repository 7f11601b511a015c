package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/globalfire/config"
	"github.com/rustyeddy/globalfire/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "globalfire",
	Short: "Risk-state dashboard for a leveraged index ETF",
	Long: `Global Fire watches a leveraged ETF (TQQQ by default), its benchmark
index and an FX rate, computes momentum and drawdown on weekly closes, and
maps them to an action protocol:

  MADNESS, WARNING        sell pressure
  TOTAL WAR, CRISIS 1/2   buy opportunity
  NORMAL                  steady state

Prices come from the Yahoo Finance chart API or from local CSV files.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
	csvDir   string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&csvDir, "csv", "", "read prices from CSV files in this directory instead of Yahoo")
}

// loadConfig resolves configuration from file, .env, environment and flags,
// in that order of increasing precedence.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	if csvDir != "" {
		cfg.Feed.Source = "csv"
		cfg.Feed.CSVDir = csvDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return log.With().Str("app", "globalfire").Logger(), closer, nil
}
