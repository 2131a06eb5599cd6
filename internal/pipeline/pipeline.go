package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/geojson"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
	"github.com/couchcryptid/bike-collision-map-service/internal/observability"
)

// ErrNotLoaded is returned while no dataset has been loaded.
var ErrNotLoaded = errors.New("dataset not loaded")

// Document names used in logs and metrics.
const (
	DocumentAccidents = "accidents"
	DocumentLanes     = "lanes"
)

// Fetcher retrieves a raw document by location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Publisher receives the distributions of a freshly loaded dataset.
type Publisher interface {
	PublishDistributions(ctx context.Context, loadedAt time.Time, dists []domain.Distribution) error
}

// Sources names the two input documents.
type Sources struct {
	Accidents string
	Lanes     string
}

// Pipeline loads the accident and lane documents once and holds the
// resulting Dataset.
type Pipeline struct {
	fetcher   Fetcher
	publisher Publisher
	sources   Sources
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	dataset   atomic.Pointer[Dataset]
}

// New creates a Pipeline. publisher may be nil.
func New(f Fetcher, sources Sources, publisher Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		fetcher:   f,
		publisher: publisher,
		sources:   sources,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run fetches and decodes the accident document, then the lane document.
// The lane document is only requested once the accidents have loaded. Any
// failure is returned as is and leaves the pipeline not ready; there is no
// retry.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.clock.Now()
	p.logger.Info("dataset load started",
		"accidents_source", p.sources.Accidents,
		"lanes_source", p.sources.Lanes,
	)

	acc, err := p.loadAccidents(ctx)
	if err != nil {
		return p.fail(DocumentAccidents, err)
	}

	lanes, err := p.loadLanes(ctx)
	if err != nil {
		return p.fail(DocumentLanes, err)
	}

	ds := newDataset(acc, lanes, Summary{
		AccidentsSource: p.sources.Accidents,
		LanesSource:     p.sources.Lanes,
		LoadedAt:        p.clock.Now().UTC(),
	})
	p.dataset.Store(ds)

	p.metrics.RecordsLoaded.Set(float64(len(acc.Records)))
	p.metrics.RecordsRejected.Set(float64(len(acc.Rejected)))
	p.metrics.LaneFeatures.Set(float64(lanes.Summary.Features))
	p.metrics.DatasetLoaded.Set(1)
	p.metrics.LoadDuration.Observe(p.clock.Since(start).Seconds())

	p.logger.Info("dataset loaded",
		"records", len(acc.Records),
		"rejected", len(acc.Rejected),
		"lane_features", lanes.Summary.Features,
		"lane_km", lanes.Summary.TotalLengthKM,
	)
	for _, r := range acc.Rejected {
		p.logger.Debug("accident feature skipped", "index", r.Index, "reason", r.Reason)
	}

	dists := p.observeDistributions(ds)
	p.publish(ctx, ds.Summary().LoadedAt, dists)
	return nil
}

func (p *Pipeline) loadAccidents(ctx context.Context) (geojson.Accidents, error) {
	data, err := p.fetcher.Fetch(ctx, p.sources.Accidents)
	if err != nil {
		return geojson.Accidents{}, fmt.Errorf("load accidents: %w", err)
	}
	acc, err := geojson.DecodeAccidents(data)
	if err != nil {
		return geojson.Accidents{}, fmt.Errorf("load accidents: %w", err)
	}
	return acc, nil
}

func (p *Pipeline) loadLanes(ctx context.Context) (geojson.LaneNetwork, error) {
	data, err := p.fetcher.Fetch(ctx, p.sources.Lanes)
	if err != nil {
		return geojson.LaneNetwork{}, fmt.Errorf("load lanes: %w", err)
	}
	lanes, err := geojson.DecodeLanes(data)
	if err != nil {
		return geojson.LaneNetwork{}, fmt.Errorf("load lanes: %w", err)
	}
	return lanes, nil
}

func (p *Pipeline) fail(document string, err error) error {
	p.metrics.LoadFailures.WithLabelValues(document).Inc()
	p.logger.Error("dataset load failed", "document", document, "error", err)
	return err
}

// observeDistributions computes every attribute's distribution once to
// record fallback counts. An empty dataset yields none.
func (p *Pipeline) observeDistributions(ds *Dataset) []domain.Distribution {
	dists := make([]domain.Distribution, 0, len(domain.Attributes))
	for _, attr := range domain.Attributes {
		dist, err := ds.Distribution(attr)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyDataset) {
				p.logger.Warn("accident dataset is empty")
				return nil
			}
			p.logger.Error("distribution failed", "attribute", attr, "error", err)
			continue
		}
		p.metrics.FallbackLabels.WithLabelValues(string(attr)).Set(float64(dist.FallbackCount()))
		dists = append(dists, dist)
	}
	return dists
}

func (p *Pipeline) publish(ctx context.Context, loadedAt time.Time, dists []domain.Distribution) {
	if p.publisher == nil || len(dists) == 0 {
		return
	}
	if err := p.publisher.PublishDistributions(ctx, loadedAt, dists); err != nil {
		p.metrics.SnapshotErrors.Inc()
		p.logger.Warn("publish distributions failed", "error", err)
		return
	}
	p.metrics.SnapshotsPublished.Add(float64(len(dists)))
}

// Dataset returns the loaded dataset, or ErrNotLoaded.
func (p *Pipeline) Dataset() (*Dataset, error) {
	ds := p.dataset.Load()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// CheckReadiness returns nil once the dataset has loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}
