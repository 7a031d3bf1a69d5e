package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ZikZak134/Geozona/internal/core/httpclient"
	"github.com/ZikZak134/Geozona/internal/geocode"
	"github.com/ZikZak134/Geozona/internal/geom/boundary"
	"github.com/ZikZak134/Geozona/internal/logger"
)

type CmdPlace struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("place",
		"Cover a named place",
		"Resolve a place name through the geocoder and generate the coverage grid for its boundary",
		&CmdPlace{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdPlace) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: place <name>")
	}
	place := strings.Join(args, " ")

	cfg, err := cmd.global.loadConfig()
	if err != nil {
		return err
	}
	zl := logger.Build(logger.Config{Level: cmd.global.LogLevel, Console: true, Component: "cli"}, os.Stderr)
	appLog := logger.NewSlog(&zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store geocode.Store
	if cfg.Geocode.RedisAddr != "" {
		rs, err := geocode.NewRedisStore(ctx, cfg.Geocode.RedisAddr)
		if err != nil {
			appLog.Warn("geocode redis unavailable, continuing without it", "err", err)
		} else {
			defer func() { _ = rs.Close() }()
			store = rs
		}
	}

	gc, err := geocode.New(cfg.Geocode, appLog, httpclient.NewOutbound(cfg.Geocode.Timeout), store)
	if err != nil {
		return err
	}
	geom, err := gc.LookupBoundary(ctx, place)
	if err != nil {
		return err
	}
	b, err := boundary.Normalize(geom)
	if err != nil {
		return err
	}

	label := cmd.global.Label
	if label == "region" {
		label = place
	}
	return cmd.global.coverage(b, label)
}
