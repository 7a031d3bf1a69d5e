package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZikZak134/Geozona/internal/core/config"
	"github.com/ZikZak134/Geozona/internal/core/health"
	"github.com/ZikZak134/Geozona/internal/core/httpclient"
	"github.com/ZikZak134/Geozona/internal/core/router"
	"github.com/ZikZak134/Geozona/internal/core/server"
	"github.com/ZikZak134/Geozona/internal/events"
	"github.com/ZikZak134/Geozona/internal/geocode"
	"github.com/ZikZak134/Geozona/internal/logger"
	"github.com/ZikZak134/Geozona/internal/pipeline"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "optional YAML config overlaying the environment")
	flag.Parse()

	cfg := config.FromEnv()
	if *configPath != "" {
		var err error
		cfg, err = config.FromFile(*configPath)
		if err != nil {
			errLog := logger.Build(logger.Config{Level: "error", Component: "server"}, os.Stderr)
			errLog.Error().Err(err).Msg("load config")
			return 1
		}
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting geozona server",
		"addr", cfg.Addr,
		"version", Version,
		"packing", cfg.Packing,
		"batch_size", cfg.BatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var resolver router.PlaceResolver
	var store geocode.Store
	var deps []health.DependencyReporter
	if cfg.Geocode.RedisAddr != "" {
		rs, err := geocode.NewRedisStore(ctx, cfg.Geocode.RedisAddr)
		if err != nil {
			appLog.Warn("geocode redis unavailable, continuing without it", "err", err)
		} else {
			defer func() { _ = rs.Close() }()
			store = rs
			deps = append(deps, rs)
		}
	}
	gc, err := geocode.New(cfg.Geocode, appLog, httpclient.NewOutbound(cfg.Geocode.Timeout), store)
	if err != nil {
		appLog.Error("geocode setup failed", "err", err)
		return 1
	}
	resolver = gc

	runner := pipeline.New(appLog)

	if cfg.Events.Enabled {
		brokers := strings.Split(cfg.Events.Brokers, ",")
		pub, err := events.NewPublisher(brokers, cfg.Events.Topic, 0, appLog)
		if err != nil {
			appLog.Error("events publisher setup failed", "err", err)
			return 1
		}
		defer func() {
			if cerr := pub.Close(); cerr != nil {
				appLog.Warn("events publisher close", "err", cerr)
			}
		}()
		runner = runner.WithEvents(pub)
	}

	if err := server.Run(ctx, cfg, appLog, runner, resolver, deps...); err != nil {
		appLog.Error("server failed", "err", err)
		return 1
	}
	appLog.Info("shutdown complete")
	return 0
}
