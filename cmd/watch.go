package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/stats"
)

var (
	watchURL      string
	watchInterval time.Duration
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the dashboard stats endpoint and print changes",
	Long:  `Polls a running server's stats endpoint on the dashboard interval and prints every counter that changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)

		url := watchURL
		if url == "" {
			url = cfg.ResolvedStatsURL()
		}
		interval := cfg.PollIntervalDuration()
		if cmd.Flags().Changed("interval") {
			interval = watchInterval
		}

		out := cmd.OutOrStdout()
		printChanges := func(changes []stats.Change) {
			ts := time.Now().Format("15:04:05")
			for _, c := range changes {
				fmt.Fprintf(out, "%s  %-24s %s\n", ts, c.Slot, c.Value)
			}
		}

		board := stats.NewBoard()
		poller := stats.NewPoller(url, board, stats.WithInterval(interval), stats.WithOnChange(printChanges))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Tick reports changes through printChanges.
		if watchOnce {
			_, err := poller.Tick(ctx)
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s every %s\n", url, poller.Interval())
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "Stats endpoint (default: the local server's)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", stats.DefaultInterval, "Polling interval")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Fetch once and exit")
	rootCmd.AddCommand(watchCmd)
}
