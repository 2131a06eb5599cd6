package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
	"github.com/couchcryptid/bike-collision-map-service/internal/observability"
	"github.com/couchcryptid/bike-collision-map-service/internal/pipeline"
)

const (
	accidentsURL = "https://example.org/bikes.geojson"
	lanesURL     = "https://example.org/reseau_cyclable.json"
)

const accidentsDoc = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[-73.58,45.52]},
  "properties":{"NO_SEQ_COLL":"SPVM _ 2012 _ 1","GRAVITE":"Mortel","CD_COND_METEO":11,"CD_ECLRM":1,"ON_BIKELANE":true}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[-73.57,45.51]},
  "properties":{"NO_SEQ_COLL":"SPVM _ 2012 _ 2","GRAVITE":"Léger","CD_COND_METEO":"13","CD_ECLRM":3,"ON_BIKELANE":false}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[-73.56,45.50]},
  "properties":{"NO_SEQ_COLL":"SPVM _ 2012 _ 3","GRAVITE":"Dommages matériels seulement","CD_COND_METEO":null}},
 {"type":"Feature","geometry":{"type":"LineString","coordinates":[[-73.5,45.5],[-73.6,45.6]]},"properties":{}}
]}`

const lanesDoc = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"LineString","coordinates":[[-73.58,45.52],[-73.57,45.52]]},"properties":{"TYPE_VOIE":1}}
]}`

type fakeFetcher struct {
	docs  map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	f.calls = append(f.calls, location)
	if err := f.errs[location]; err != nil {
		return nil, err
	}
	return []byte(f.docs[location]), nil
}

type recordingPublisher struct {
	loadedAt time.Time
	dists    []domain.Distribution
	err      error
}

func (p *recordingPublisher) PublishDistributions(_ context.Context, loadedAt time.Time, dists []domain.Distribution) error {
	p.loadedAt = loadedAt
	p.dists = dists
	return p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFetcher() *fakeFetcher {
	return &fakeFetcher{
		docs: map[string]string{accidentsURL: accidentsDoc, lanesURL: lanesDoc},
		errs: map[string]error{},
	}
}

var loadTime = time.Date(2026, time.May, 4, 9, 30, 0, 0, time.UTC)

func newPipeline(f pipeline.Fetcher, pub pipeline.Publisher, metrics *observability.Metrics) *pipeline.Pipeline {
	return pipeline.New(f,
		pipeline.Sources{Accidents: accidentsURL, Lanes: lanesURL},
		pub,
		clockwork.NewFakeClockAt(loadTime),
		discardLogger(),
		metrics,
	)
}

func TestPipeline_Run_HappyPath(t *testing.T) {
	fetcher := newFetcher()
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(fetcher, nil, metrics)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	ds, err := p.Dataset()
	require.NoError(t, err)

	want := pipeline.Summary{
		Records:         3,
		Rejected:        1,
		LaneFeatures:    1,
		AccidentsSource: accidentsURL,
		LanesSource:     lanesURL,
		LoadedAt:        loadTime,
	}
	if diff := cmp.Diff(want, ds.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{accidentsURL, lanesURL}, fetcher.calls)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.RecordsLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecordsRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DatasetLoaded))
	// Only the third record lacks a weather code.
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FallbackLabels.WithLabelValues("weather")))
}

func TestPipeline_NotReadyBeforeRun(t *testing.T) {
	p := newPipeline(newFetcher(), nil, observability.NewMetricsForTesting())

	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotLoaded)
	_, err := p.Dataset()
	require.ErrorIs(t, err, pipeline.ErrNotLoaded)
}

func TestPipeline_Run_AccidentFetchFailureSkipsLanes(t *testing.T) {
	fetcher := newFetcher()
	fetcher.errs[accidentsURL] = errors.New("connection refused")
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(fetcher, nil, metrics)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, []string{accidentsURL}, fetcher.calls, "lanes must not be requested")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LoadFailures.WithLabelValues(pipeline.DocumentAccidents)))
	assert.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotLoaded)
}

func TestPipeline_Run_MalformedAccidents(t *testing.T) {
	fetcher := newFetcher()
	fetcher.docs[accidentsURL] = `<html>not geojson</html>`
	p := newPipeline(fetcher, nil, observability.NewMetricsForTesting())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load accidents")
	assert.Len(t, fetcher.calls, 1)
}

func TestPipeline_Run_LaneFailure(t *testing.T) {
	fetcher := newFetcher()
	fetcher.errs[lanesURL] = errors.New("status 404")
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(fetcher, nil, metrics)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load lanes")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LoadFailures.WithLabelValues(pipeline.DocumentLanes)))
	assert.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotLoaded)
}

func TestPipeline_Run_PublishesDistributions(t *testing.T) {
	pub := &recordingPublisher{}
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(newFetcher(), pub, metrics)

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, pub.dists, len(domain.Attributes))
	assert.Equal(t, loadTime, pub.loadedAt)
	for i, attr := range domain.Attributes {
		assert.Equal(t, attr, pub.dists[i].Attribute)
		assert.Equal(t, 3, pub.dists[i].Total)
	}
	assert.Equal(t, float64(len(domain.Attributes)), testutil.ToFloat64(metrics.SnapshotsPublished))
}

func TestPipeline_Run_PublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	metrics := observability.NewMetricsForTesting()
	p := newPipeline(newFetcher(), pub, metrics)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotErrors))
}

func TestPipeline_Run_EmptyAccidentsSkipsPublish(t *testing.T) {
	fetcher := newFetcher()
	fetcher.docs[accidentsURL] = `{"type":"FeatureCollection","features":[]}`
	pub := &recordingPublisher{}
	p := newPipeline(fetcher, pub, observability.NewMetricsForTesting())

	require.NoError(t, p.Run(context.Background()))
	assert.Nil(t, pub.dists)

	ds, err := p.Dataset()
	require.NoError(t, err)
	_, err = ds.Distribution(domain.AttributeSeverity)
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestDataset_Queries(t *testing.T) {
	p := newPipeline(newFetcher(), nil, observability.NewMetricsForTesting())
	require.NoError(t, p.Run(context.Background()))
	ds, err := p.Dataset()
	require.NoError(t, err)

	t.Run("accident by id", func(t *testing.T) {
		r, ok := ds.Accident("SPVM _ 2012 _ 2")
		require.True(t, ok)
		assert.Equal(t, domain.SeverityInjury, r.Severity())

		_, ok = ds.Accident("missing")
		assert.False(t, ok)
	})

	t.Run("severity distribution", func(t *testing.T) {
		dist, err := ds.Distribution(domain.AttributeSeverity)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Fatal/Hospitalization": 1, "Injury": 1, "No Injury": 1}, dist.Counts())
	})

	t.Run("markers", func(t *testing.T) {
		markers := ds.Markers(domain.AttributeBikeLane)
		require.Len(t, markers, 3)
		assert.Equal(t, "On Bike Lane", markers[0].Category)
		assert.Equal(t, "Off Bike Lane", markers[1].Category)
	})

	t.Run("heatmap", func(t *testing.T) {
		points := ds.Heatmap(10)
		total := 0
		for _, pt := range points {
			total += pt.Count
		}
		assert.Equal(t, 3, total)
	})

	t.Run("lanes", func(t *testing.T) {
		lanes := ds.Lanes()
		assert.Equal(t, 1, lanes.Summary.LineFeatures)
		assert.JSONEq(t, lanesDoc, string(lanes.Raw))
	})
}
