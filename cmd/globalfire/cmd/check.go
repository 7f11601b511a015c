package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rustyeddy/globalfire/report"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one evaluation cycle and print the dashboard",
	Long: `Fetch prices, compute indicators and print the action protocol once.

Examples:
  globalfire check
  globalfire check --format json
  globalfire check --csv ./data --config globalfire.yaml`,
	RunE: runCheck,
}

var checkFormat string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkFormat != "text" && checkFormat != "json" {
		return fmt.Errorf("unknown format %q", checkFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	cycle, err := a.eval.Run(ctx)
	if errors.Is(err, report.ErrNoPrimary) {
		return err
	}
	// Fetch errors are already logged; the report still carries the
	// insufficient-data decision.
	return writeCycle(cmd.OutOrStdout(), cycle, checkFormat)
}

func writeCycle(w io.Writer, c report.Cycle, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	return report.WriteText(w, c)
}
