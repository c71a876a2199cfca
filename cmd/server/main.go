// Package main is the entry point for the code editor server.
//
// main's job is deliberately small: load configuration, build the shared
// dependencies (logger, execution backend, AI client), and hand everything to
// the server package. All real logic lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/code-editor/internal/ai"
	"github.com/sakif/code-editor/internal/config"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/executor/docker"
	"github.com/sakif/code-editor/internal/executor/piston"
	"github.com/sakif/code-editor/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The SQLite file lives under a data directory; create it up front so
	// the first open doesn't fail on a fresh checkout.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// Execution backend. Docker is preferred for local deployments; when the
	// daemon is unreachable we fall back to the remote Piston API rather than
	// starting with execution broken.
	var exec executor.Executor
	switch cfg.ExecBackend {
	case "piston":
		exec = piston.New(cfg.PistonURL, logger)
		logger.Info("using remote execution backend")
	default:
		dockerExec, err := docker.New(docker.DefaultConfig(), logger)
		if err != nil {
			logger.Warn("Docker daemon unavailable, falling back to remote execution",
				slog.String("error", err.Error()),
			)
			exec = piston.New(cfg.PistonURL, logger)
		} else {
			defer dockerExec.Close()
			exec = dockerExec
			logger.Info("using local Docker execution backend")
		}
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI endpoints will report unavailable")
	}
	gateway := ai.NewClient(ai.Config{APIKey: cfg.GeminiAPIKey}, logger)

	srv, err := server.New(cfg, logger, exec, gateway)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
