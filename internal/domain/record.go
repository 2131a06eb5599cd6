package domain

// GeoJSON property names on accident features.
const (
	PropID       = "NO_SEQ_COLL"
	PropSeverity = "GRAVITE"
	PropWeather  = "CD_COND_METEO"
	PropLighting = "CD_ECLRM"
	PropBikeLane = "ON_BIKELANE"
)

// Position is a WGS-84 point in GeoJSON axis order.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// AccidentRecord is one collision as read from the accident dataset.
// Categorical fields keep the decoded JSON scalar (nil, string, float64,
// bool) so normalization sees exactly what the document carried.
type AccidentRecord struct {
	ID           string   `json:"id,omitempty"`
	Position     Position `json:"position"`
	SeverityRaw  any      `json:"severity_raw,omitempty"`
	WeatherCode  any      `json:"weather_code,omitempty"`
	LightingCode any      `json:"lighting_code,omitempty"`
	OnBikeLane   any      `json:"on_bike_lane,omitempty"`
}

// RecordFromProperties builds a record from a feature's position and
// property bag. A missing NO_SEQ_COLL falls back to fallbackID.
func RecordFromProperties(pos Position, props map[string]any, fallbackID string) AccidentRecord {
	id := fallbackID
	if v, ok := codeText(props[PropID]); ok && v != "" {
		id = v
	}
	return AccidentRecord{
		ID:           id,
		Position:     pos,
		SeverityRaw:  props[PropSeverity],
		WeatherCode:  props[PropWeather],
		LightingCode: props[PropLighting],
		OnBikeLane:   props[PropBikeLane],
	}
}

// Severity classifies the record's GRAVITE value.
func (r AccidentRecord) Severity() Severity { return ClassifySeverity(r.SeverityRaw) }

// Weather resolves the record's weather code.
func (r AccidentRecord) Weather() Weather { return ParseWeather(r.WeatherCode) }

// Lighting resolves the record's lighting code.
func (r AccidentRecord) Lighting() Lighting { return ParseLighting(r.LightingCode) }

// BikeLane interprets the record's ON_BIKELANE flag.
func (r AccidentRecord) BikeLane() BikeLane { return ParseBikeLane(r.OnBikeLane) }
