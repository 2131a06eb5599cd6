package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// BikeLane reports whether a collision happened on the cycling network.
// The zero value is BikeLaneOff.
type BikeLane bool

const (
	BikeLaneOff BikeLane = false
	BikeLaneOn  BikeLane = true
)

func (b BikeLane) String() string {
	if b {
		return "On Bike Lane"
	}
	return "Off Bike Lane"
}

// YesNo is the popup rendering of the flag.
func (b BikeLane) YesNo() string {
	if b {
		return "Yes"
	}
	return "No"
}

var bikeLaneOrder = []string{BikeLaneOn.String(), BikeLaneOff.String()}

// falseStrings are the string encodings of ON_BIKELANE read as false,
// compared after trimming and lower-casing.
var falseStrings = map[string]struct{}{
	"":      {},
	"0":     {},
	"false": {},
	"no":    {},
	"n":     {},
	"nan":   {},
	"none":  {},
	"null":  {},
}

// ParseBikeLane interprets the upstream ON_BIKELANE value. Booleans are taken
// as is, numbers are true when non-zero, and strings are true unless they are
// one of the false encodings. Anything else, including nil, is false.
func ParseBikeLane(raw any) BikeLane {
	switch x := raw.(type) {
	case bool:
		return BikeLane(x)
	case string:
		_, isFalse := falseStrings[strings.ToLower(strings.TrimSpace(x))]
		return BikeLane(!isFalse)
	case float64:
		return BikeLane(x != 0 && !math.IsNaN(x))
	case json.Number:
		f, err := x.Float64()
		return BikeLane(err == nil && f != 0)
	case int:
		return BikeLane(x != 0)
	case int64:
		return BikeLane(x != 0)
	default:
		return BikeLaneOff
	}
}
