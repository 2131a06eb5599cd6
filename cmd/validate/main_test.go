package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/geojson"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

func record(id string, weather, lighting any) domain.AccidentRecord {
	return domain.AccidentRecord{ID: id, WeatherCode: weather, LightingCode: lighting}
}

func TestCheckAccidents(t *testing.T) {
	tests := []struct {
		name         string
		acc          geojson.Accidents
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "clean",
			acc: geojson.Accidents{Records: []domain.AccidentRecord{
				record("1", 11, 1), record("2", "14", 3),
			}},
		},
		{
			name: "rejected feature",
			acc: geojson.Accidents{
				Records:  []domain.AccidentRecord{record("1", 11, 1)},
				Rejected: []geojson.Rejection{{Index: 3, Reason: "missing geometry"}},
			},
			wantErrors: 1,
		},
		{
			name: "fallback over limit",
			acc: geojson.Accidents{Records: []domain.AccidentRecord{
				record("1", nil, 1), record("2", nil, 2),
			}},
			wantErrors: 1,
		},
		{
			name: "fallback under limit and duplicate id",
			acc: geojson.Accidents{Records: []domain.AccidentRecord{
				record("1", 11, 1), record("1", 11, 1), record("3", 11, 1), record("4", 11, 1), record("5", 11, "x"),
			}},
			wantWarnings: 2,
		},
		{
			name:       "empty",
			acc:        geojson.Accidents{},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &report{}
			checkAccidents(tt.acc, 0.25, r)
			assert.Len(t, r.errors, tt.wantErrors, r.errors)
			assert.Len(t, r.warnings, tt.wantWarnings, r.warnings)
		})
	}
}

func TestCheckLanes(t *testing.T) {
	r := &report{}
	checkLanes(geojson.LaneSummary{Features: 3, LineFeatures: 2}, r)
	assert.Empty(t, r.errors)
	assert.Len(t, r.warnings, 1)

	r = &report{}
	checkLanes(geojson.LaneSummary{Features: 1}, r)
	assert.Len(t, r.errors, 1)
}

func TestReportPrint(t *testing.T) {
	var buf bytes.Buffer
	r := &report{}
	r.warnf("lanes: %d odd", 1)
	require.True(t, r.print(&buf))
	assert.Contains(t, buf.String(), "OK: 1 warnings")

	buf.Reset()
	r.errorf("accidents: broken")
	require.False(t, r.print(&buf))
	assert.Contains(t, buf.String(), "ERROR accidents: broken")
	assert.Contains(t, buf.String(), "FAIL: 1 errors, 1 warnings")
}
