package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"timeplan/internal/clock"
	"timeplan/internal/config"
	"timeplan/internal/storage"
	"timeplan/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(cfg.LogPath)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// The clock is pinned to one civil timezone so a day boundary never
	// shifts with the machine's locale. A bad timezone name is fatal.
	clk, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		fmt.Printf("failed to load timezone %q: %v\n", cfg.Timezone, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("starting", "config", configPath, "db", cfg.DBPath)
	if err := ui.Run(store, cfg, clk, logger); err != nil {
		logger.Error("program exited with error", "err", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to a file; the terminal belongs to
// the interface, not to log output.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, func() { f.Close() }, nil
}
