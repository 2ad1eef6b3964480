package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/agenda-vta/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `agendavta init` to create a config file", err)
	}
	return cfg, nil
}

// setupLogger installs the default slog logger at the configured level.
// --verbose forces debug.
func setupLogger(cfg *config.Config) {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
