// Package router validates coverage requests and streams run results.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZikZak134/Geozona/internal/core/config"
	"github.com/ZikZak134/Geozona/internal/core/model"
	"github.com/ZikZak134/Geozona/internal/core/observability"
	"github.com/ZikZak134/Geozona/internal/geocode"
	"github.com/ZikZak134/Geozona/internal/geom/boundary"
	"github.com/ZikZak134/Geozona/internal/geom/grid"
	"github.com/ZikZak134/Geozona/internal/pipeline"
	"github.com/ZikZak134/Geozona/internal/rows"
)

const maxBodyBytes = 8 << 20

// PlaceResolver turns a place name into raw GeoJSON geometry.
type PlaceResolver interface {
	LookupBoundary(ctx context.Context, place string) ([]byte, error)
}

// CoverageParams are the validated query parameters of a coverage call.
type CoverageParams struct {
	Label         string
	RadiusKm      float64
	Packing       grid.Packing
	BatchSize     int
	ProgressEvery int
}

func ParseCoverageParams(r *http.Request) (CoverageParams, error) {
	q := r.URL.Query()

	label := strings.TrimSpace(q.Get("label"))
	if label == "" {
		label = "region"
	}

	rawRadius := strings.TrimSpace(q.Get("radius_km"))
	if rawRadius == "" {
		return CoverageParams{}, errors.New("missing required parameter: radius_km")
	}
	radius, err := strconv.ParseFloat(rawRadius, 64)
	if err != nil {
		return CoverageParams{}, fmt.Errorf("invalid radius_km: %w", err)
	}
	if radius <= 0 {
		return CoverageParams{}, fmt.Errorf("radius_km must be positive, got %g", radius)
	}

	packing, err := grid.ParsePacking(q.Get("packing"))
	if err != nil {
		return CoverageParams{}, err
	}

	batchSize := 0
	if raw := strings.TrimSpace(q.Get("batch_size")); raw != "" {
		batchSize, err = strconv.Atoi(raw)
		if err != nil || batchSize <= 0 {
			return CoverageParams{}, fmt.Errorf("invalid batch_size: %q", raw)
		}
	}

	progressEvery := 0
	if raw := strings.TrimSpace(q.Get("progress_every")); raw != "" {
		progressEvery, err = strconv.Atoi(raw)
		if err != nil || progressEvery <= 0 {
			return CoverageParams{}, fmt.Errorf("invalid progress_every: %q", raw)
		}
	}

	return CoverageParams{
		Label:         label,
		RadiusKm:      radius,
		Packing:       packing,
		BatchSize:     batchSize,
		ProgressEvery: progressEvery,
	}, nil
}

// HandleCoverage serves POST /coverage. The body is either GeoJSON (a
// boundary to use as-is) or delimited coordinate rows (hulled into one).
func HandleCoverage(logger *slog.Logger, cfg config.Config, runner *pipeline.Runner) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			observability.ObserveHTTP(r.Method, "/coverage", sw.code, time.Since(start).Seconds())
		}()

		params, err := ParseCoverageParams(r)
		if err != nil {
			http.Error(sw, err.Error(), http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(sw, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(sw, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			http.Error(sw, "empty body", http.StatusBadRequest)
			return
		}

		b, err := parseBoundary(r.Header.Get("Content-Type"), body, runner)
		if err != nil {
			writeError(sw, err)
			return
		}

		serveRun(r.Context(), sw, logger, cfg, runner, b, params)
	}
}

// HandleCoverageByPlace serves GET /coverage/by-place. The boundary comes
// from a geocoder lookup instead of the request body.
func HandleCoverageByPlace(logger *slog.Logger, cfg config.Config, runner *pipeline.Runner, resolver PlaceResolver) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			observability.ObserveHTTP(r.Method, "/coverage/by-place", sw.code, time.Since(start).Seconds())
		}()

		if resolver == nil {
			http.Error(sw, "geocoding is not configured", http.StatusNotImplemented)
			return
		}

		place := strings.TrimSpace(r.URL.Query().Get("place"))
		if place == "" {
			http.Error(sw, "missing required parameter: place", http.StatusBadRequest)
			return
		}
		params, err := ParseCoverageParams(r)
		if err != nil {
			http.Error(sw, err.Error(), http.StatusBadRequest)
			return
		}
		if params.Label == "region" {
			params.Label = place
		}

		geom, err := resolver.LookupBoundary(r.Context(), place)
		if err != nil {
			if errors.Is(err, geocode.ErrPlaceNotFound) {
				http.Error(sw, err.Error(), http.StatusNotFound)
				return
			}
			logger.Error("geocode lookup failed", "place", place, "err", err)
			http.Error(sw, "geocode lookup failed", http.StatusBadGateway)
			return
		}

		b, err := boundary.Normalize(geom)
		if err != nil {
			writeError(sw, err)
			return
		}

		serveRun(r.Context(), sw, logger, cfg, runner, b, params)
	}
}

func parseBoundary(contentType string, body []byte, runner *pipeline.Runner) (model.Boundary, error) {
	if looksLikeGeoJSON(contentType, body) {
		return boundary.Normalize(body)
	}
	parsed, err := rows.Parse(body)
	if err != nil {
		return model.Boundary{}, err
	}
	return runner.BoundaryFromRows(parsed)
}

func looksLikeGeoJSON(contentType string, body []byte) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// serveRun starts the pipeline and streams its events as NDJSON. Headers
// go out before the first event, so mid-stream failures surface as an
// error line rather than a status code.
func serveRun(ctx context.Context, w *statusWriter, logger *slog.Logger, cfg config.Config,
	runner *pipeline.Runner, b model.Boundary, params CoverageParams) {

	req := model.CoverageRequest{Boundary: b, Label: params.Label, RadiusKm: params.RadiusKm}
	opts := pipeline.Options{
		Packing:       params.Packing,
		BatchSize:     pickInt(params.BatchSize, cfg.BatchSize),
		ProgressEvery: pickInt(params.ProgressEvery, cfg.ProgressEvery),
	}

	events, err := runner.Run(ctx, req, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.ResponseWriter.(http.Flusher)
	enc := json.NewEncoder(w)
	for ev := range events {
		line := wireEvent{Progress: ev.Progress, Batch: ev.Batch}
		if ev.Err != nil {
			line.Error = &wireError{Kind: pipeline.Kind(ev.Err), Message: ev.Err.Error()}
		}
		if err := enc.Encode(line); err != nil {
			logger.Debug("client gone", "err", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

type wireEvent struct {
	Progress *model.ProgressEvent `json:"progress,omitempty"`
	Batch    *model.OutputBatch   `json:"batch,omitempty"`
	Error    *wireError           `json:"error,omitempty"`
}

type wireError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps pipeline error kinds onto HTTP statuses before the
// stream has started.
func writeError(w http.ResponseWriter, err error) {
	kind := pipeline.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "insufficient_points", "degenerate_hull", "no_polygon_geometry",
		"region_too_small", "no_points_in_region":
		status = http.StatusUnprocessableEntity
	case "parse_error":
		status = http.StatusBadRequest
	case "canceled":
		status = 499
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(wireError{Kind: kind, Message: err.Error()})
}

func pickInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
