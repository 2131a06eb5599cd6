package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
	"github.com/couchcryptid/bike-collision-map-service/internal/heatmap"
	"github.com/couchcryptid/bike-collision-map-service/internal/observability"
	"github.com/couchcryptid/bike-collision-map-service/internal/pipeline"
)

// DatasetProvider returns the loaded dataset or pipeline.ErrNotLoaded.
type DatasetProvider interface {
	Dataset() (*pipeline.Dataset, error)
}

// API serves the map's read-only JSON endpoints.
type API struct {
	data         DatasetProvider
	geocoder     domain.Geocoder
	heatmapLevel int
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewAPI creates the map API. geocoder may be nil to serve accident details
// without addresses.
func NewAPI(data DatasetProvider, geocoder domain.Geocoder, heatmapLevel int, metrics *observability.Metrics, logger *slog.Logger) *API {
	return &API{
		data:         data,
		geocoder:     geocoder,
		heatmapLevel: heatmapLevel,
		metrics:      metrics,
		logger:       logger,
	}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dataset", a.handleDataset)
	mux.HandleFunc("GET /api/accidents", a.handleAccidents)
	mux.HandleFunc("GET /api/accidents/{id}", a.handleAccident)
	mux.HandleFunc("GET /api/distribution/{attribute}", a.handleDistribution)
	mux.HandleFunc("GET /api/heatmap", a.handleHeatmap)
	mux.HandleFunc("GET /api/lanes", a.handleLanes)
	mux.HandleFunc("GET /api/lanes/summary", a.handleLaneSummary)
}

// dataset writes a 503 and returns nil while nothing is loaded.
func (a *API) dataset(w http.ResponseWriter) *pipeline.Dataset {
	ds, err := a.data.Dataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil
	}
	return ds
}

func (a *API) handleDataset(w http.ResponseWriter, _ *http.Request) {
	ds := a.dataset(w)
	if ds == nil {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ds.Summary())
}

func (a *API) handleAccidents(w http.ResponseWriter, r *http.Request) {
	var attr domain.Attribute
	if name := r.URL.Query().Get("attribute"); name != "" {
		parsed, err := domain.ParseAttribute(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		attr = parsed
	}

	ds := a.dataset(w)
	if ds == nil {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ds.Markers(attr))
}

func (a *API) handleAccident(w http.ResponseWriter, r *http.Request) {
	ds := a.dataset(w)
	if ds == nil {
		return
	}
	rec, ok := ds.Accident(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "accident not found")
		return
	}
	logger := loggerFrom(r.Context(), a.logger)
	sharedobs.WriteJSON(w, http.StatusOK, domain.DescribeAccident(r.Context(), rec, a.geocoder, logger))
}

func (a *API) handleDistribution(w http.ResponseWriter, r *http.Request) {
	attr, err := domain.ParseAttribute(r.PathValue("attribute"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds := a.dataset(w)
	if ds == nil {
		return
	}

	dist, err := ds.Distribution(attr)
	switch {
	case errors.Is(err, domain.ErrEmptyDataset):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		loggerFrom(r.Context(), a.logger).Error("aggregate failed", "attribute", attr, "error", err)
		writeError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}
	a.metrics.Aggregations.WithLabelValues(string(attr)).Inc()

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Join(dist.Lines(), "\n") + "\n"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, dist)
}

func (a *API) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	level := a.heatmapLevel
	if s := r.URL.Query().Get("level"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < heatmap.MinLevel || n > heatmap.MaxLevel {
			writeError(w, http.StatusBadRequest, "level must be an integer between 1 and 30")
			return
		}
		level = n
	}

	ds := a.dataset(w)
	if ds == nil {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ds.Heatmap(level))
}

func (a *API) handleLanes(w http.ResponseWriter, _ *http.Request) {
	ds := a.dataset(w)
	if ds == nil {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ds.Lanes().Raw)
}

func (a *API) handleLaneSummary(w http.ResponseWriter, _ *http.Request) {
	ds := a.dataset(w)
	if ds == nil {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ds.Lanes().Summary)
}
