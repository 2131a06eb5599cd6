package domain

// Marker styling shared by every accident point.
const (
	MarkerRadius      = 4
	MarkerStroke      = "#000"
	MarkerFillOpacity = 0.85
	MarkerDefaultFill = "#ff4444"
	fallbackFill      = "#9e9e9e"
)

// Popup is the content shown when an accident marker is clicked.
type Popup struct {
	ID           string `json:"id"`
	AccidentType string `json:"accident_type"`
	Weather      string `json:"weather"`
	Lighting     string `json:"lighting"`
	BikeLane     string `json:"bike_lane"`
}

// Marker is the render-ready form of one accident.
type Marker struct {
	Position    Position `json:"position"`
	Category    string   `json:"category,omitempty"`
	FillColor   string   `json:"fill_color"`
	Color       string   `json:"color"`
	Radius      int      `json:"radius"`
	FillOpacity float64  `json:"fill_opacity"`
	Popup       Popup    `json:"popup"`
}

// palettes color each label of an attribute. Labels not listed, which are
// the fallbacks, are drawn gray.
var palettes = map[Attribute]map[string]string{
	AttributeSeverity: {
		SeverityFatal.String():    "#b2182b",
		SeverityInjury.String():   "#ef8a62",
		SeverityNoInjury.String(): "#67a9cf",
	},
	AttributeWeather: {
		WeatherClear.String():            "#fdd835",
		WeatherPartlyCloudy.String():     "#ffe082",
		WeatherCloudy.String():           "#90a4ae",
		WeatherRain.String():             "#1e88e5",
		WeatherSnow.String():             "#e1f5fe",
		WeatherFreezingRain.String():     "#4dd0e1",
		WeatherFog.String():              "#b0bec5",
		WeatherHighWinds.String():        "#7e57c2",
		WeatherOtherPrecip.String():      "#26a69a",
		WeatherOtherUnspecified.String(): "#8d6e63",
	},
	AttributeLighting: {
		LightingDayBright.String():      "#ffca28",
		LightingDaySemiObscure.String(): "#ff7043",
		LightingNightLit.String():       "#5c6bc0",
		LightingNightUnlit.String():     "#212121",
	},
	AttributeBikeLane: {
		BikeLaneOn.String():  "#2e7d32",
		BikeLaneOff.String(): "#c62828",
	},
}

// Color returns the fill color for a label of the attribute.
func (a Attribute) Color(label string) string {
	if c, ok := palettes[a][label]; ok {
		return c
	}
	return fallbackFill
}

// NewPopup resolves every label shown in a record's popup.
func NewPopup(r AccidentRecord) Popup {
	return Popup{
		ID:           r.ID,
		AccidentType: r.Severity().String(),
		Weather:      r.Weather().String(),
		Lighting:     r.Lighting().String(),
		BikeLane:     r.BikeLane().YesNo(),
	}
}

// NewMarker builds the marker for a record colored by attr. An empty attr
// draws the default red fill with no category.
func NewMarker(r AccidentRecord, attr Attribute) Marker {
	m := Marker{
		Position:    r.Position,
		FillColor:   MarkerDefaultFill,
		Color:       MarkerStroke,
		Radius:      MarkerRadius,
		FillOpacity: MarkerFillOpacity,
		Popup:       NewPopup(r),
	}
	if attr.Valid() {
		m.Category = attr.Label(r)
		m.FillColor = attr.Color(m.Category)
	}
	return m
}
