package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned when an attribute name is not one of the
// supported selectors.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Attribute selects which categorical field of a record is labelled,
// colored and aggregated.
type Attribute string

const (
	AttributeSeverity Attribute = "severity"
	AttributeWeather  Attribute = "weather"
	AttributeLighting Attribute = "lighting"
	AttributeBikeLane Attribute = "bikeLane"
)

// Attributes lists every selector in menu order.
var Attributes = []Attribute{AttributeSeverity, AttributeWeather, AttributeLighting, AttributeBikeLane}

// ParseAttribute resolves an attribute name case-insensitively. "bikelane",
// "bike_lane" and "bike-lane" are accepted for AttributeBikeLane.
func ParseAttribute(name string) (Attribute, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "", "-", "").Replace(n)
	switch n {
	case "severity":
		return AttributeSeverity, nil
	case "weather":
		return AttributeWeather, nil
	case "lighting":
		return AttributeLighting, nil
	case "bikelane":
		return AttributeBikeLane, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// Label returns the record's category label for the attribute. An
// unrecognized attribute yields "".
func (a Attribute) Label(r AccidentRecord) string {
	switch a {
	case AttributeSeverity:
		return r.Severity().String()
	case AttributeWeather:
		return r.Weather().String()
	case AttributeLighting:
		return r.Lighting().String()
	case AttributeBikeLane:
		return r.BikeLane().String()
	}
	return ""
}

// Labels returns every label of the attribute in display order.
func (a Attribute) Labels() []string {
	var order []string
	switch a {
	case AttributeSeverity:
		order = severityOrder
	case AttributeWeather:
		order = weatherOrder
	case AttributeLighting:
		order = lightingOrder
	case AttributeBikeLane:
		order = bikeLaneOrder
	default:
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// FallbackLabel returns the label assigned when the source value is missing
// or unrecognized.
func (a Attribute) FallbackLabel() string {
	switch a {
	case AttributeSeverity:
		return SeverityNoInjury.String()
	case AttributeWeather, AttributeLighting:
		return LabelUndefined
	case AttributeBikeLane:
		return BikeLaneOff.String()
	}
	return ""
}

// Valid reports whether a is one of the supported selectors.
func (a Attribute) Valid() bool {
	switch a {
	case AttributeSeverity, AttributeWeather, AttributeLighting, AttributeBikeLane:
		return true
	}
	return false
}
