package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/clinic"
	"github.com/ziadkadry99/agenda-vta/internal/config"
	"github.com/ziadkadry99/agenda-vta/internal/dashboard"
	"github.com/ziadkadry99/agenda-vta/internal/db"
	"github.com/ziadkadry99/agenda-vta/internal/notifications"
	"github.com/ziadkadry99/agenda-vta/internal/reports"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/server"
	"github.com/ziadkadry99/agenda-vta/internal/session"
	"github.com/ziadkadry99/agenda-vta/internal/stats"
	"github.com/ziadkadry99/agenda-vta/internal/web"
)

var (
	serverPort      int
	serverMode      string
	serverSiteDir   string
	serverEphemeral bool
)

const shutdownTimeout = 10 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Agenda VTA navigator server",
	Long: `Starts the navigator: login and logout, the pages of the configured
routing mode, the dashboard stats API with its live feed, notifications and
the report export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}
		if cmd.Flags().Changed("mode") {
			cfg.Mode = routes.Mode(serverMode)
		}
		if cmd.Flags().Changed("site-dir") {
			cfg.SiteDir = serverSiteDir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		setupLogger(cfg)

		database, err := openDatabase(cfg, serverEphemeral)
		if err != nil {
			return err
		}
		defer database.Close()

		provider := stats.NewSQLProvider(database)
		clinicStore := clinic.NewStore(database)
		board := stats.NewBoard()
		dash := dashboard.New(provider, clinicStore, board)
		notifStore := notifications.NewStore(database)

		pages, err := web.New(web.Options{
			Mode:         cfg.Mode,
			SiteDir:      cfg.SiteDir,
			PagesGlob:    cfg.PagesGlob,
			Exclude:      cfg.Exclude,
			LoginDelay:   cfg.LoginDelayDuration(),
			PollInterval: cfg.PollIntervalDuration(),
			CookieSecure: cfg.CookieSecure,
			Language:     cfg.Language,
		}, web.Deps{
			Sessions:      session.NewSQLBackend(database),
			Stats:         provider,
			Board:         board,
			Notifications: notifStore,
			Clinic:        clinicStore,
		})
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowedOrigins: cfg.AllowedOrigins,
		}, server.Deps{
			Pages:         pages,
			Dashboard:     dash,
			Notifications: notifStore,
			Reports:       reports.NewExporter(provider, clinicStore),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The poller reads the stats endpoint like any browser would and
		// fans changes out to the websocket feed.
		poller := stats.NewPoller(cfg.ResolvedStatsURL(), board,
			stats.WithInterval(cfg.PollIntervalDuration()),
			stats.WithOnChange(dash.Hub().Broadcast),
		)
		go poller.Run(ctx)

		go func() {
			<-ctx.Done()
			slog.Info("Shutting down server", "component", "Server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("Shutdown failed", "error", err, "component", "Server")
			}
		}()

		slog.Info("Starting agendavta",
			"version", Version,
			"mode", cfg.Mode,
			"port", cfg.Port,
			"database", database.Path(),
			"poll_interval", poller.Interval(),
			"component", "Server",
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// openDatabase opens the configured SQLite file, or an in-memory database
// when ephemeral is set.
func openDatabase(cfg *config.Config, ephemeral bool) (*db.DB, error) {
	if ephemeral {
		database, err := db.OpenMemory()
		if err != nil {
			return nil, fmt.Errorf("opening in-memory database: %w", err)
		}
		return database, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", config.DefaultPort, "Port to listen on")
	serverCmd.Flags().StringVar(&serverMode, "mode", string(routes.ModeBackend), "Routing mode: static or backend")
	serverCmd.Flags().StringVar(&serverSiteDir, "site-dir", "", "Prototype directory served in static mode")
	serverCmd.Flags().BoolVar(&serverEphemeral, "ephemeral", false, "Use an in-memory database")
	rootCmd.AddCommand(serverCmd)
}
