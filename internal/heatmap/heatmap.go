// Package heatmap bins accident positions into S2 cells to feed the map's
// density overlay.
package heatmap

import (
	"sort"

	"github.com/golang/geo/s2"

	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

const (
	MinLevel     = 1
	MaxLevel     = 30
	DefaultLevel = 16 // ~150 m cells at Montreal's latitude
)

// Point is one heat sample at the center of an occupied cell.
type Point struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"` // count / max count, in (0, 1]
	CellToken string  `json:"cell"`
}

// Build counts records per S2 cell at level and returns one point per
// occupied cell, densest first and then by cell id. Levels outside
// [MinLevel, MaxLevel] are clamped.
func Build(records []domain.AccidentRecord, level int) []Point {
	level = clampLevel(level)

	counts := make(map[s2.CellID]int)
	for _, r := range records {
		ll := s2.LatLngFromDegrees(r.Position.Lat, r.Position.Lon)
		counts[s2.CellIDFromLatLng(ll).Parent(level)]++
	}
	if len(counts) == 0 {
		return []Point{}
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	cells := make([]s2.CellID, 0, len(counts))
	for cell := range counts {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if counts[cells[i]] != counts[cells[j]] {
			return counts[cells[i]] > counts[cells[j]]
		}
		return cells[i] < cells[j]
	})

	points := make([]Point, len(cells))
	for i, cell := range cells {
		center := cell.LatLng()
		points[i] = Point{
			Lat:       center.Lat.Degrees(),
			Lng:       center.Lng.Degrees(),
			Count:     counts[cell],
			Intensity: float64(counts[cell]) / float64(maxCount),
			CellToken: cell.ToToken(),
		}
	}
	return points
}

func clampLevel(level int) int {
	switch {
	case level < MinLevel:
		return MinLevel
	case level > MaxLevel:
		return MaxLevel
	}
	return level
}
