package domain

import (
	"context"
	"log/slog"
)

// Address sources reported on AccidentDetail.
const (
	AddressSourceNone    = ""
	AddressSourceReverse = "reverse"
	AddressSourceEmpty   = "empty"
	AddressSourceFailed  = "failed"
)

// AccidentDetail is a popup with optional address enrichment.
type AccidentDetail struct {
	Popup
	Position         Position `json:"position"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	PlaceName        string   `json:"place_name,omitempty"`
	GeoConfidence    float64  `json:"geo_confidence,omitempty"`
	AddressSource    string   `json:"address_source,omitempty"`
}

// DescribeAccident builds the detail view of a record. When geocoder is
// non-nil the nearest address is looked up; a lookup failure is logged and
// the detail is returned without an address.
func DescribeAccident(ctx context.Context, r AccidentRecord, geocoder Geocoder, logger *slog.Logger) AccidentDetail {
	detail := AccidentDetail{Popup: NewPopup(r), Position: r.Position}
	if geocoder == nil {
		return detail
	}

	result, err := geocoder.ReverseGeocode(ctx, r.Position.Lat, r.Position.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"accident_id", r.ID,
			"lat", r.Position.Lat,
			"lon", r.Position.Lon,
			"error", err,
		)
		detail.AddressSource = AddressSourceFailed
		return detail
	}
	if result.FormattedAddress == "" {
		detail.AddressSource = AddressSourceEmpty
		return detail
	}

	detail.FormattedAddress = result.FormattedAddress
	detail.PlaceName = result.PlaceName
	detail.GeoConfidence = result.Confidence
	detail.AddressSource = AddressSourceReverse
	return detail
}
