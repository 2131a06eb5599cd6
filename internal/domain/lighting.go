package domain

// Lighting is the ambient light condition at the time of the collision
// (CD_ECLRM). The zero value is LightingUndefined.
type Lighting uint8

const (
	LightingUndefined Lighting = iota
	LightingDayBright
	LightingDaySemiObscure
	LightingNightLit
	LightingNightUnlit
)

var lightingCodes = map[string]Lighting{
	"1": LightingDayBright,
	"2": LightingDaySemiObscure,
	"3": LightingNightLit,
	"4": LightingNightUnlit,
}

var lightingLabels = [...]string{
	LightingUndefined:      LabelUndefined,
	LightingDayBright:      "Daytime – bright",
	LightingDaySemiObscure: "Daytime – semi-obscure",
	LightingNightLit:       "Night – lit",
	LightingNightUnlit:     "Night – unlit",
}

// ParseLighting resolves a raw lighting code. Missing or unknown codes map to
// LightingUndefined.
func ParseLighting(raw any) Lighting {
	return lightingCodes[NormalizeCode(raw)]
}

// LightingLabel returns the display label for a raw lighting code.
func LightingLabel(raw any) string {
	return ParseLighting(raw).String()
}

func (l Lighting) String() string {
	if int(l) < len(lightingLabels) {
		return lightingLabels[l]
	}
	return LabelUndefined
}

var lightingOrder = []string{
	LightingDayBright.String(),
	LightingDaySemiObscure.String(),
	LightingNightLit.String(),
	LightingNightUnlit.String(),
	LightingUndefined.String(),
}
