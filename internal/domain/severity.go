package domain

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Severity buckets the free-text GRAVITE field. The zero value is
// SeverityNoInjury; there is no undefined severity.
type Severity uint8

const (
	SeverityNoInjury Severity = iota
	SeverityInjury
	SeverityFatal
)

var severityLabels = [...]string{
	SeverityNoInjury: "No Injury",
	SeverityInjury:   "Injury",
	SeverityFatal:    "Fatal/Hospitalization",
}

func (s Severity) String() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return severityLabels[SeverityNoInjury]
}

var severityOrder = []string{
	SeverityFatal.String(),
	SeverityInjury.String(),
	SeverityNoInjury.String(),
}

// ClassifySeverity buckets a raw GRAVITE value by keyword. Matching is a
// case-insensitive substring test; "mortel" and "grave" take precedence
// over "léger". Absent or falsy values are SeverityNoInjury.
func ClassifySeverity(raw any) Severity {
	text, ok := severityText(raw)
	if !ok {
		return SeverityNoInjury
	}

	// NFC so a decomposed "e" + U+0301 still matches "léger".
	s := strings.ToLower(norm.NFC.String(text))
	switch {
	case strings.Contains(s, "mortel"), strings.Contains(s, "grave"):
		return SeverityFatal
	case strings.Contains(s, "léger"):
		return SeverityInjury
	default:
		return SeverityNoInjury
	}
}

// SeverityLabel returns the display label for a raw GRAVITE value.
func SeverityLabel(raw any) string {
	return ClassifySeverity(raw).String()
}

// severityText returns the text to classify, or false for falsy input:
// nil, false, blank strings, and numeric zero or NaN.
func severityText(raw any) (string, bool) {
	switch x := raw.(type) {
	case string:
		return x, strings.TrimSpace(x) != ""
	case bool:
		return "", false
	case float64:
		if x == 0 || math.IsNaN(x) {
			return "", false
		}
	}
	s, ok := codeText(raw)
	if !ok || s == "0" {
		return "", false
	}
	return s, true
}
