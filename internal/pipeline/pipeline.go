// Package pipeline wires the geometry stages into one cancellable run.
//
// Stages execute in strict sequence up to grid generation; point
// filtering and chunking are fused into a producer goroutine that yields
// progress events and fully assembled batches. Cancellation is checked
// between lattice-point evaluations, so an aborted run never emits a
// partial batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZikZak134/Geozona/internal/chunk"
	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/core/observability"
	"github.com/ZikZak134/Geozona/internal/geom/boundary"
	"github.com/ZikZak134/Geozona/internal/geom/extract"
	"github.com/ZikZak134/Geozona/internal/geom/grid"
	"github.com/ZikZak134/Geozona/internal/geom/hull"
	"github.com/ZikZak134/Geozona/internal/geom/offset"
	"github.com/ZikZak134/Geozona/internal/geom/pip"
	"github.com/ZikZak134/Geozona/internal/rows"
)

// Event is one element of a run's output stream. Exactly one field is
// set; a non-nil Err terminates the stream.
type Event struct {
	Progress *model.ProgressEvent
	Batch    *model.OutputBatch
	Err      error
}

// Options tune a single run. Zero values select the defaults.
type Options struct {
	Packing       grid.Packing
	BatchSize     int
	ProgressEvery int
}

const defaultProgressEvery = 500

// RunSummary describes a finished run for downstream consumers.
type RunSummary struct {
	Label    string
	Packing  string
	Outcome  string
	RadiusKm float64
	Points   int
	Batches  int
	Elapsed  time.Duration
}

// RunSink receives a summary once per run, after the stream closes.
type RunSink interface {
	PublishRun(RunSummary)
}

// Runner executes coverage runs. Safe for concurrent use; runs share no
// mutable state.
type Runner struct {
	logger *slog.Logger
	sink   RunSink
}

func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// WithEvents returns a copy of the runner that reports run summaries to s.
func (r *Runner) WithEvents(s RunSink) *Runner {
	r2 := *r
	r2.sink = s
	return &r2
}

// BoundaryFromRows derives a boundary from scattered coordinates: extract
// the points, then take their convex hull.
func (r *Runner) BoundaryFromRows(rows [][]string) (model.Boundary, error) {
	start := time.Now()
	points, err := extract.Points(rows)
	observability.ObserveStage("extract", time.Since(start).Seconds())
	if err != nil {
		return model.Boundary{}, err
	}

	start = time.Now()
	ring, err := hull.Build(points)
	observability.ObserveStage("hull", time.Since(start).Seconds())
	if err != nil {
		return model.Boundary{}, err
	}
	r.logger.Debug("hull built", "input_points", len(points), "hull_vertices", len(ring)-1)
	return boundary.FromRing(ring), nil
}

// Run starts a coverage run. The synchronous part normalizes, offsets and
// grids the boundary; failures there are returned directly and no channel
// is created. The returned stream then carries progress, batches and at
// most one terminal error. It is finite and not restartable.
func (r *Runner) Run(ctx context.Context, req model.CoverageRequest, opts Options) (<-chan Event, error) {
	if req.RadiusKm <= 0 {
		observability.ObserveRun("bad_request", string(opts.Packing))
		return nil, fmt.Errorf("pipeline: radius must be positive, got %g", req.RadiusKm)
	}
	packing := opts.Packing
	if packing == "" {
		packing = grid.PackingHex
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = chunk.DefaultBatchSize
	}
	progressEvery := opts.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = defaultProgressEvery
	}

	poly, ok := req.Boundary.First()
	if !ok {
		observability.ObserveRun(Kind(&boundary.NoPolygonGeometryError{}), string(packing))
		return nil, &boundary.NoPolygonGeometryError{Root: "empty boundary"}
	}
	if len(req.Boundary.Polygons) > 1 {
		r.logger.Warn("multipolygon boundary reduced to its first polygon",
			"polygons", len(req.Boundary.Polygons), "label", req.Label)
	}

	start := time.Now()
	inset, err := offset.Inward(poly, req.RadiusKm)
	observability.ObserveStage("offset", time.Since(start).Seconds())
	if err != nil {
		observability.ObserveRun(Kind(err), string(packing))
		return nil, fmt.Errorf("offset stage: %w", err)
	}

	start = time.Now()
	candidates, err := grid.Generate(inset.BBox(), req.RadiusKm, packing)
	observability.ObserveStage("grid", time.Since(start).Seconds())
	if err != nil {
		observability.ObserveRun(Kind(err), string(packing))
		return nil, fmt.Errorf("grid stage: %w", err)
	}
	r.logger.Debug("lattice generated",
		"label", req.Label, "packing", string(packing), "candidates", len(candidates))

	events := make(chan Event, 4)
	go r.produce(ctx, events, candidates, inset, req, packing, batchSize, progressEvery)
	return events, nil
}

// produce fuses point filtering and chunking.
func (r *Runner) produce(ctx context.Context, events chan<- Event, candidates []model.GeoPoint,
	inset model.Polygon, req model.CoverageRequest, packing grid.Packing, batchSize, progressEvery int,
) {
	start := time.Now()
	total := len(candidates)
	accepted := 0
	batches := 0
	part := 1
	lines := make([]string, 0, batchSize)
	outcome := "canceled"

	// deferred LIFO: the stream closes first, then the summary goes out
	defer func() {
		if r.sink != nil {
			r.sink.PublishRun(RunSummary{
				Label:    req.Label,
				Packing:  string(packing),
				Outcome:  outcome,
				RadiusKm: req.RadiusKm,
				Points:   accepted,
				Batches:  batches,
				Elapsed:  time.Since(start),
			})
		}
	}()
	defer close(events)

	// send blocks until the consumer takes the event or the run is
	// canceled. A canceled run closes the stream without a terminal
	// event; callers observe cancellation through their own context.
	send := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			observability.ObserveRun("canceled", string(packing))
			return false
		}
	}

	for i, p := range candidates {
		if ctx.Err() != nil {
			observability.ObserveRun("canceled", string(packing))
			return
		}
		if pip.Inside(p, inset) {
			lines = append(lines, chunk.FormatLine(req.Label, req.RadiusKm, p))
			accepted++
			if len(lines) == batchSize {
				batch := model.OutputBatch{Name: chunk.BatchName(req.Label, part), Lines: lines}
				if !send(Event{Batch: &batch}) {
					return
				}
				observability.AddBatches(1)
				part++
				batches++
				lines = make([]string, 0, batchSize)
			}
		}
		if (i+1)%progressEvery == 0 {
			if !send(Event{Progress: &model.ProgressEvent{Processed: i + 1, Total: total}}) {
				return
			}
		}
	}

	if accepted == 0 {
		err := fmt.Errorf("filter stage: %w", &pip.NoPointsInRegionError{Candidates: total})
		outcome = Kind(err)
		observability.ObserveRun(outcome, string(packing))
		send(Event{Err: err})
		return
	}
	if len(lines) > 0 {
		batch := model.OutputBatch{Name: chunk.BatchName(req.Label, part), Lines: lines}
		if !send(Event{Batch: &batch}) {
			return
		}
		observability.AddBatches(1)
		batches++
	}
	if !send(Event{Progress: &model.ProgressEvent{Processed: total, Total: total}}) {
		return
	}

	observability.ObserveStage("filter_chunk", time.Since(start).Seconds())
	observability.AddCoveragePoints(accepted)
	outcome = "ok"
	observability.ObserveRun("ok", string(packing))
	r.logger.Info("coverage run finished",
		"label", req.Label, "radius_km", req.RadiusKm,
		"candidates", total, "accepted", accepted, "batches", batches)
}

// Collect drains a run's stream into its batches, for callers that do not
// need progressive output.
func Collect(ctx context.Context, events <-chan Event) ([]model.OutputBatch, error) {
	var out []model.OutputBatch
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, open := <-events:
			if !open {
				return out, nil
			}
			if ev.Err != nil {
				return nil, ev.Err
			}
			if ev.Batch != nil {
				out = append(out, *ev.Batch)
			}
		}
	}
}

// Kind maps an error to a stable outcome label for metrics and API
// responses.
func Kind(err error) string {
	var (
		pre *rows.ParseError
		ipe *extract.InsufficientPointsError
		dhe *hull.DegenerateHullError
		npe *boundary.NoPolygonGeometryError
		rts *offset.RegionTooSmallError
		npr *pip.NoPointsInRegionError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pre):
		return "parse_error"
	case errors.As(err, &ipe):
		return "insufficient_points"
	case errors.As(err, &dhe):
		return "degenerate_hull"
	case errors.As(err, &npe):
		return "no_polygon_geometry"
	case errors.As(err, &rts):
		return "region_too_small"
	case errors.As(err, &npr):
		return "no_points_in_region"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
