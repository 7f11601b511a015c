package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/globalfire/metrics"
	"github.com/rustyeddy/globalfire/report"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate on a fixed interval",
	Long: `Run an evaluation cycle every --interval and print each result until
interrupted. Retrievals are served from the cache while it is fresh.

Example:
  globalfire watch --interval 1h`,
	RunE: runWatch,
}

var (
	watchInterval time.Duration
	watchFormat   string
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Hour, "time between cycles")
	watchCmd.Flags().StringVar(&watchFormat, "format", "text", "output format: text or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("interval must be positive")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, metrics.New(prometheus.NewRegistry()))
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		cycle, err := a.eval.Run(ctx)
		if errors.Is(err, report.ErrNoPrimary) {
			return err
		}
		if err := writeCycle(cmd.OutOrStdout(), cycle, watchFormat); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}
