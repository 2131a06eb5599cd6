package pipeline

import (
	"time"

	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/geojson"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
	"github.com/couchcryptid/bike-collision-map-service/internal/heatmap"
)

// Dataset is an immutable snapshot of both loaded documents. It is safe for
// concurrent readers.
type Dataset struct {
	records  []domain.AccidentRecord
	rejected []geojson.Rejection
	byID     map[string]int
	lanes    geojson.LaneNetwork
	summary  Summary
}

// Summary describes a loaded dataset.
type Summary struct {
	Records         int       `json:"records"`
	Rejected        int       `json:"rejected"`
	LaneFeatures    int       `json:"lane_features"`
	AccidentsSource string    `json:"accidents_source"`
	LanesSource     string    `json:"lanes_source"`
	LoadedAt        time.Time `json:"loaded_at"`
}

func newDataset(acc geojson.Accidents, lanes geojson.LaneNetwork, summary Summary) *Dataset {
	byID := make(map[string]int, len(acc.Records))
	for i, r := range acc.Records {
		if r.ID == "" {
			continue
		}
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}
	summary.Records = len(acc.Records)
	summary.Rejected = len(acc.Rejected)
	summary.LaneFeatures = lanes.Summary.Features
	return &Dataset{
		records:  acc.Records,
		rejected: acc.Rejected,
		byID:     byID,
		lanes:    lanes,
		summary:  summary,
	}
}

// Summary returns the load summary.
func (d *Dataset) Summary() Summary { return d.summary }

// Records returns the accident records. Callers must not modify the slice.
func (d *Dataset) Records() []domain.AccidentRecord { return d.records }

// Rejected returns the features skipped during decoding.
func (d *Dataset) Rejected() []geojson.Rejection { return d.rejected }

// Accident looks up a record by its identifier.
func (d *Dataset) Accident(id string) (domain.AccidentRecord, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.AccidentRecord{}, false
	}
	return d.records[i], true
}

// Distribution aggregates attr over every record.
func (d *Dataset) Distribution(attr domain.Attribute) (domain.Distribution, error) {
	return domain.Aggregate(d.records, attr)
}

// Markers builds one marker per record colored by attr. An empty attr uses
// the default fill.
func (d *Dataset) Markers(attr domain.Attribute) []domain.Marker {
	out := make([]domain.Marker, len(d.records))
	for i, r := range d.records {
		out[i] = domain.NewMarker(r, attr)
	}
	return out
}

// Heatmap bins every record at the given S2 level.
func (d *Dataset) Heatmap(level int) []heatmap.Point {
	return heatmap.Build(d.records, level)
}

// Lanes returns the cycling network.
func (d *Dataset) Lanes() geojson.LaneNetwork { return d.lanes }
