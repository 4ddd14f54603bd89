package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixPattern  = regexp.MustCompile(`^0([xXoObB])([0-9a-fA-F]+)$`)
	expPattern     = regexp.MustCompile(`e([+-])0*(\d)`)
)

// ParseNumber coerces a text field the way the vendor tooling does: surrounding
// whitespace is ignored, an empty field is zero, and 0x/0o/0b integers are accepted.
// ok is false when the field is not a number at all.
func ParseNumber(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, true
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if m := prefixPattern.FindStringSubmatch(s); m != nil {
		base := 16
		switch strings.ToLower(m[1]) {
		case "o":
			base = 8
		case "b":
			base = 2
		}
		parsed, err := strconv.ParseUint(m[2], base, 64)
		if err != nil {
			return math.NaN(), false
		}
		return float64(parsed), true
	}

	if !decimalPattern.MatchString(s) {
		return math.NaN(), false
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// out of range still yields ±Inf from ParseFloat
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return parsed, true
		}
		return math.NaN(), false
	}
	return parsed, true
}

// NumberOrZero is ParseNumber with 0 for anything unparsable.
func NumberOrZero(input string) float64 {
	v, ok := ParseNumber(input)
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// NumberOrNaN is ParseNumber with NaN for anything unparsable.
func NumberOrNaN(input string) float64 {
	if v, ok := ParseNumber(input); ok {
		return v
	}
	return math.NaN()
}

// FormatNumber renders v in the shortest form that reads back to the same value,
// switching to exponent notation below 1e-6 and from 1e21 on.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		out := strconv.FormatFloat(v, 'e', -1, 64)
		return expPattern.ReplaceAllString(out, "e$1$2")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoundHalfUp rounds to the nearest integer, ties toward +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
