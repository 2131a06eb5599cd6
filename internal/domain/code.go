package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeCode reduces a raw categorical value to its canonical integer key.
//
// nil, blanks and the sentinels "nan" and "none" (any case) yield "". Other
// values are rendered as text and parsed for a leading base-10 integer, so
// "014" -> "14", "14.7" -> "14", "12abc" -> "12" and -3 -> "-3". Values with
// no leading integer yield "".
func NormalizeCode(v any) string {
	s, ok := codeText(v)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none":
		return ""
	}
	return leadingInt(s)
}

// codeText renders a decoded JSON scalar the way it would be printed.
func codeText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return formatFloat(x), true
	case float32:
		return formatFloat(float64(x)), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 0):
		return "Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// leadingInt returns the canonical form of the integer prefix of s: an
// optional sign followed by at least one digit. Leading zeros are dropped
// and negative zero becomes "0".
func leadingInt(s string) string {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}

	digits := strings.TrimLeft(s[:end], "0")
	if digits == "" {
		return "0"
	}
	if neg {
		return "-" + digits
	}
	return digits
}
