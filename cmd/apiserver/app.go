package main

import (
	stderrors "errors"
	"net/http"
	"time"

	applifecycle "github.com/turtacn/KeyIP-Lifecycle/internal/application/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	domain "github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	keyipredis "github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/memory"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/templates"
	httpapi "github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/middleware"
)

// app is the fully wired API server minus the listener.
type app struct {
	handler http.Handler
	service applifecycle.Service
	// metrics is nil when metrics are disabled.
	metrics *prometheus.AppMetrics
	closers []func() error
}

// buildApp wires the lifecycle service with the optional Redis lock, Kafka
// publisher and Prometheus metrics selected by cfg.
func buildApp(cfg *config.Config, logger logging.Logger) (_ *app, err error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	loc, err := time.LoadLocation(cfg.Lifecycle.Timezone)
	if err != nil {
		return nil, err
	}
	registry, err := templates.NewRegistry(cfg.Lifecycle.TemplatesFile)
	if err != nil {
		return nil, err
	}
	logger.Info("stage templates loaded",
		logging.Int("count", registry.Len()),
		logging.String("source", templateSource(cfg.Lifecycle.TemplatesFile)))

	opts := []applifecycle.ServiceOption{
		applifecycle.WithClock(domain.SystemClock{Location: loc}),
		applifecycle.WithInitializerOptions(
			domain.WithRefIDPrefix(cfg.Lifecycle.RefIDPrefix),
			domain.WithExternalPOC(cfg.Lifecycle.ExternalPOC),
			domain.WithFeePurpose(cfg.Lifecycle.DefaultFeePurpose),
		),
	}

	routerCfg := httpapi.RouterConfig{
		Logger:      logger,
		MaxBodySize: cfg.Server.MaxBodySize,
	}
	var (
		recorder handlers.HealthRecorder
		checkers []handlers.HealthChecker
	)

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.metrics = prometheus.NewAppMetrics(collector)
		recorder = a.metrics
		opts = append(opts, applifecycle.WithMetrics(a.metrics))
		routerCfg.Metrics = a.metrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	if cfg.Redis.Enabled {
		rc, err := keyipredis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		opts = append(opts, applifecycle.WithLocker(keyipredis.NewPatentLocker(rc, cfg.Redis, logger)))
		checkers = append(checkers, handlers.CheckerFunc{Component: "redis", Fn: rc.Ping})
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, producer.Close)
		opts = append(opts, applifecycle.WithPublisher(kafka.NewEventPublisher(producer)))
	}

	a.service = applifecycle.NewService(registry, memory.NewPatentRepository(), logger, opts...)

	logCfg := middleware.DefaultLoggingConfig()
	logCfg.SkipPaths = append(logCfg.SkipPaths, cfg.Metrics.Path)
	routerCfg.LoggingConfig = &logCfg
	routerCfg.TemplateHandler = handlers.NewTemplateHandler(a.service, logger)
	routerCfg.PatentHandler = handlers.NewPatentHandler(a.service, logger)
	routerCfg.PortfolioHandler = handlers.NewPortfolioHandler(a.service, logger)
	routerCfg.HealthHandler = handlers.NewHealthHandler(version, recorder, checkers...)
	a.handler = httpapi.NewRouter(routerCfg)
	return a, nil
}

// Close releases the Redis and Kafka connections in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return stderrors.Join(errs...)
}

func templateSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

//Personal.AI order the ending
