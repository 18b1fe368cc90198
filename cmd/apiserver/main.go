// API server entry point for KeyIP-Lifecycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const uptimeInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (KEYIP_* environment only when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, dynLevel, err := logging.NewLeveledLogger(logging.LogConfig{
		Level:       level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting KeyIP-Lifecycle API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("kafka", cfg.Kafka.Enabled),
		logging.Bool("metrics", cfg.Metrics.Enabled))

	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to release connections", logging.Err(err))
		}
	}()

	if configPath != "" {
		watchLogLevel(configPath, dynLevel, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(cfg.Server, a.handler, logger)
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")
		return srv.Stop(context.Background())
	})
	if a.metrics != nil {
		g.Go(func() error {
			ticker := time.NewTicker(uptimeInterval)
			defer ticker.Stop()
			for {
				a.metrics.SetUptime("apiserver", time.Since(started))
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		})
	}
	return g.Wait()
}

// watchLogLevel applies log.level changes of the config file at runtime.
// Every other setting needs a restart.
func watchLogLevel(path string, dynLevel *logging.DynamicLevel, logger logging.Logger) {
	err := config.Watch(path,
		func(cfg *config.Config) {
			lvl, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return
			}
			if dynLevel.String() != string(lvl) {
				dynLevel.Set(lvl)
				logger.Info("log level changed", logging.String("level", string(lvl)))
			}
		},
		func(err error) {
			logger.Warn("ignoring invalid config change", logging.Err(err))
		})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
