// Package main is the entry point for the jobtrack API server.
//
// main stays minimal: load config, build the logger, create the data
// directory, start the server. Everything else lives in internal packages
// so it can be constructed and tested without running a process.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yrb/jobtrack/internal/config"
	"github.com/yrb/jobtrack/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load fails if JWT_SECRET is unset — the process must not come up
	// without a signing key. The secret itself is never logged.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
