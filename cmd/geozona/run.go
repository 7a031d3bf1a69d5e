package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cheggaaa/pb/v3"

	"github.com/ZikZak134/Geozona/internal/core/config"
	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/geom/grid"
	"github.com/ZikZak134/Geozona/internal/logger"
	"github.com/ZikZak134/Geozona/internal/pipeline"
)

func (g *GlobalOptions) loadConfig() (config.Config, error) {
	if g.ConfigFile != "" {
		return config.FromFile(g.ConfigFile)
	}
	return config.FromEnv(), nil
}

func (g *GlobalOptions) newRunner() (*pipeline.Runner, config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	zl := logger.Build(logger.Config{Level: g.LogLevel, Console: true, Component: "cli"}, os.Stderr)
	return pipeline.New(logger.NewSlog(&zl)), cfg, nil
}

// coverage runs the pipeline on a ready boundary and writes the part
// files, driving a progress bar from the stream.
func (g *GlobalOptions) coverage(b model.Boundary, label string) error {
	if g.RadiusKm <= 0 {
		return errors.New("a positive --radius-km is required")
	}

	runner, cfg, err := g.newRunner()
	if err != nil {
		return err
	}

	packing, err := grid.ParsePacking(firstNonEmpty(g.Packing, cfg.Packing))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := runner.Run(ctx, model.CoverageRequest{
		Boundary: b,
		Label:    label,
		RadiusKm: g.RadiusKm,
	}, pipeline.Options{
		Packing:       packing,
		BatchSize:     firstPositive(g.BatchSize, cfg.BatchSize),
		ProgressEvery: firstPositive(g.ProgressEvery, cfg.ProgressEvery),
	})
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	points, files := 0, 0
	for ev := range events {
		switch {
		case ev.Err != nil:
			if bar != nil {
				bar.Finish()
			}
			return ev.Err
		case ev.Progress != nil:
			if !g.Quiet {
				if bar == nil {
					bar = pb.StartNew(ev.Progress.Total)
				}
				bar.SetCurrent(int64(ev.Progress.Processed))
			}
		case ev.Batch != nil:
			if err := g.writeBatch(*ev.Batch); err != nil {
				if bar != nil {
					bar.Finish()
				}
				return err
			}
			points += len(ev.Batch.Lines)
			files++
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Printf("%d points in %d files under %s\n", points, files, g.OutDir)
	return nil
}

func (g *GlobalOptions) writeBatch(b model.OutputBatch) error {
	if err := os.MkdirAll(g.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(g.OutDir, b.Name)
	data := strings.Join(b.Lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
