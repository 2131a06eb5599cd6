// Command validate checks the accident and bike-lane documents before they
// are served: every accident feature must be a point, and each attribute's
// fallback share must stay under a threshold.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -accidents bikes.geojson \
//	  -lanes reseau_cyclable.json \
//	  -max-fallback 0.2
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/geojson"
	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/source"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

type report struct {
	errors   []string
	warnings []string
}

func (r *report) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func main() {
	accidents := flag.String("accidents", "bikes.geojson", "accident GeoJSON path or URL")
	lanes := flag.String("lanes", "reseau_cyclable.json", "bike-lane GeoJSON path or URL")
	maxFallback := flag.Float64("max-fallback", 0.25, "largest tolerated fallback share per attribute, 0..1")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	fetcher := source.NewFetcher(*timeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	r := &report{}
	validateAccidents(ctx, fetcher, *accidents, *maxFallback, r)
	validateLanes(ctx, fetcher, *lanes, r)

	if !r.print(os.Stdout) {
		os.Exit(1)
	}
}

func validateAccidents(ctx context.Context, f *source.Fetcher, location string, maxFallback float64, r *report) {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		r.errorf("accidents: %v", err)
		return
	}
	acc, err := geojson.DecodeAccidents(data)
	if err != nil {
		r.errorf("accidents: %v", err)
		return
	}
	checkAccidents(acc, maxFallback, r)
}

func checkAccidents(acc geojson.Accidents, maxFallback float64, r *report) {
	for _, rej := range acc.Rejected {
		r.errorf("accidents: feature %d: %s", rej.Index, rej.Reason)
	}
	if len(acc.Records) == 0 {
		r.errorf("accidents: no point features")
		return
	}

	seen := make(map[string]int, len(acc.Records))
	for i, rec := range acc.Records {
		if first, dup := seen[rec.ID]; dup {
			r.warnf("accidents: record %d repeats id %q of record %d", i, rec.ID, first)
			continue
		}
		seen[rec.ID] = i
	}

	for _, attr := range domain.Attributes {
		dist, err := domain.Aggregate(acc.Records, attr)
		if err != nil {
			r.errorf("accidents: %s: %v", attr, err)
			continue
		}
		// Severity and bike lane fall back to real categories, not to Undefined.
		share := float64(dist.FallbackCount()) / float64(dist.Total)
		switch {
		case attr == domain.AttributeSeverity || attr == domain.AttributeBikeLane:
			continue
		case share > maxFallback:
			r.errorf("accidents: %s: %.1f%% of records are %q (limit %.1f%%)",
				attr, share*100, attr.FallbackLabel(), maxFallback*100)
		case share > 0:
			r.warnf("accidents: %s: %d records are %q", attr, dist.FallbackCount(), attr.FallbackLabel())
		}
	}
}

func validateLanes(ctx context.Context, f *source.Fetcher, location string, r *report) {
	data, err := f.Fetch(ctx, location)
	if err != nil {
		r.errorf("lanes: %v", err)
		return
	}
	lanes, err := geojson.DecodeLanes(data)
	if err != nil {
		r.errorf("lanes: %v", err)
		return
	}
	checkLanes(lanes.Summary, r)
}

func checkLanes(s geojson.LaneSummary, r *report) {
	if s.LineFeatures == 0 {
		r.errorf("lanes: no line features")
		return
	}
	if other := s.Features - s.LineFeatures; other > 0 {
		r.warnf("lanes: %d features are not lines and will not be measured", other)
	}
}

// print writes the report and returns true when there are no errors.
func (r *report) print(w io.Writer) bool {
	for _, msg := range r.warnings {
		fmt.Fprintln(w, "WARN ", msg)
	}
	for _, msg := range r.errors {
		fmt.Fprintln(w, "ERROR", msg)
	}
	if len(r.errors) > 0 {
		fmt.Fprintf(w, "FAIL: %d errors, %d warnings\n", len(r.errors), len(r.warnings))
		return false
	}
	fmt.Fprintf(w, "OK: %d warnings\n", len(r.warnings))
	return true
}
