// Package geojson decodes the accident and bike-lane documents into domain
// records and network summaries.
package geojson

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

// Rejection records a feature that could not become an AccidentRecord.
type Rejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Accidents is the decoded accident document.
type Accidents struct {
	Records  []domain.AccidentRecord
	Rejected []Rejection
}

// DecodeAccidents parses a FeatureCollection of collision points. Features
// without a Point geometry are skipped and reported in Rejected; only a
// document that is not a FeatureCollection is an error.
func DecodeAccidents(data []byte) (Accidents, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Accidents{}, fmt.Errorf("decode accidents: %w", err)
	}

	out := Accidents{Records: make([]domain.AccidentRecord, 0, len(fc.Features))}
	for i, f := range fc.Features {
		if f == nil {
			out.Rejected = append(out.Rejected, Rejection{Index: i, Reason: "null feature"})
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			out.Rejected = append(out.Rejected, Rejection{Index: i, Reason: geometryReason(f.Geometry)})
			continue
		}
		pos := domain.Position{Lon: pt.Lon(), Lat: pt.Lat()}
		out.Records = append(out.Records, domain.RecordFromProperties(pos, f.Properties, featureID(f, i)))
	}
	return out, nil
}

func geometryReason(g orb.Geometry) string {
	if g == nil {
		return "missing geometry"
	}
	return "unsupported geometry " + g.GeoJSONType()
}

// featureID renders the feature's top-level id, or its index when absent.
func featureID(f *geojson.Feature, index int) string {
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return "feature-" + strconv.Itoa(index)
}

// LaneNetwork is the decoded cycling network. Raw keeps the original bytes
// so the map can draw the document untouched.
type LaneNetwork struct {
	Raw     []byte
	Summary LaneSummary
}

// LaneSummary describes the cycling network for the map legend.
type LaneSummary struct {
	Features      int        `json:"features"`
	LineFeatures  int        `json:"line_features"`
	TotalLengthKM float64    `json:"total_length_km"`
	Bounds        [4]float64 `json:"bounds"` // [minLon, minLat, maxLon, maxLat]
	StrokeColor   string     `json:"stroke_color"`
	StrokeWeight  int        `json:"stroke_weight"`
}

// Lane styling used by the map.
const (
	LaneStrokeColor  = "#003366"
	LaneStrokeWeight = 2
)

// DecodeLanes parses the cycling network and measures its geodesic length.
func DecodeLanes(data []byte) (LaneNetwork, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return LaneNetwork{}, fmt.Errorf("decode lanes: %w", err)
	}

	summary := LaneSummary{
		Features:     len(fc.Features),
		StrokeColor:  LaneStrokeColor,
		StrokeWeight: LaneStrokeWeight,
	}

	var bound orb.Bound
	haveBound := false
	var meters float64
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.LineString:
			summary.LineFeatures++
			meters += geo.Length(g)
		case orb.MultiLineString:
			summary.LineFeatures++
			meters += geo.Length(g)
		}
		b := f.Geometry.Bound()
		if !haveBound {
			bound = b
			haveBound = true
		} else {
			bound = bound.Union(b)
		}
	}

	summary.TotalLengthKM = meters / 1000
	if haveBound {
		summary.Bounds = [4]float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
	}
	return LaneNetwork{Raw: data, Summary: summary}, nil
}
