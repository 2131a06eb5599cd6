package domain

// Weather is the road weather condition recorded on a collision report
// (CD_COND_METEO). The zero value is WeatherUndefined.
type Weather uint8

const (
	WeatherUndefined Weather = iota
	WeatherClear
	WeatherPartlyCloudy
	WeatherCloudy
	WeatherRain
	WeatherSnow
	WeatherFreezingRain
	WeatherFog
	WeatherHighWinds
	WeatherOtherPrecip
	WeatherOtherUnspecified
)

// weatherCodes maps canonical CD_COND_METEO keys to conditions.
var weatherCodes = map[string]Weather{
	"11": WeatherClear,
	"12": WeatherPartlyCloudy,
	"13": WeatherCloudy,
	"14": WeatherRain,
	"15": WeatherSnow,
	"16": WeatherFreezingRain,
	"17": WeatherFog,
	"18": WeatherHighWinds,
	"19": WeatherOtherPrecip,
	"99": WeatherOtherUnspecified,
}

var weatherLabels = [...]string{
	WeatherUndefined:        LabelUndefined,
	WeatherClear:            "Clear",
	WeatherPartlyCloudy:     "Partly cloudy",
	WeatherCloudy:           "Cloudy",
	WeatherRain:             "Rain",
	WeatherSnow:             "Snow",
	WeatherFreezingRain:     "Freezing rain",
	WeatherFog:              "Fog",
	WeatherHighWinds:        "High winds",
	WeatherOtherPrecip:      "Other precip",
	WeatherOtherUnspecified: "Other / Unspecified",
}

// LabelUndefined is the fallback label for unknown weather and lighting codes.
const LabelUndefined = "Undefined"

// ParseWeather resolves a raw weather code. Missing or unknown codes map to
// WeatherUndefined.
func ParseWeather(raw any) Weather {
	return weatherCodes[NormalizeCode(raw)]
}

// WeatherLabel returns the display label for a raw weather code.
func WeatherLabel(raw any) string {
	return ParseWeather(raw).String()
}

func (w Weather) String() string {
	if int(w) < len(weatherLabels) {
		return weatherLabels[w]
	}
	return LabelUndefined
}

// weatherOrder is the display order for weather breakdowns: code order,
// fallback last.
var weatherOrder = []string{
	WeatherClear.String(),
	WeatherPartlyCloudy.String(),
	WeatherCloudy.String(),
	WeatherRain.String(),
	WeatherSnow.String(),
	WeatherFreezingRain.String(),
	WeatherFog.String(),
	WeatherHighWinds.String(),
	WeatherOtherPrecip.String(),
	WeatherOtherUnspecified.String(),
	WeatherUndefined.String(),
}
