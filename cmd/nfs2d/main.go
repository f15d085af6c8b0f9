package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/server"
	"github.com/marmos91/nfs2d/internal/vfs"
	"github.com/marmos91/nfs2d/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to set log output: %v", err)
	}

	logger.Info("nfs2d starting (log level %s)", cfg.Logging.Level)

	exports, err := config.BuildExportTable(cfg)
	if err != nil {
		log.Fatalf("Failed to build export table: %v", err)
	}
	for _, e := range exports.List() {
		logger.Info("Export %q -> %s (read_only=%t)", e.Name, e.Path, e.Options.ReadOnly)
	}

	resolver := vfs.NewResolver(cfg.Resolver.MaxScanEntries, cfg.Resolver.MaxScanDepth)

	srv := server.New(server.Options{
		Bind:      cfg.Server.Bind,
		NFSPort:   cfg.Server.NFSPort,
		MountPort: cfg.Server.MountPort,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}, exports, resolver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received %s, shutting down", sig)
		cancel()

		// Give the serve loops a bounded window to drain.
		waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer waitCancel()
		select {
		case <-errCh:
		case <-waitCtx.Done():
			logger.Warn("Shutdown timed out after %s", cfg.Server.ShutdownTimeout)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}

	logger.Info("Server stopped")
}
