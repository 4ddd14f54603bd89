package util

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var ErrFilenameLayout = errors.New("unexpected filename layout")

var (
	// minute dumps end in the 14 characters "minYYMMDD.json"
	minuteNamePattern = regexp.MustCompile(`(min(\d{2})(\d{2})(\d{2}))\.json$`)
	// kaco exports end in the 12 characters "YYYYMMDD.CSV"
	kacoNamePattern = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})\.CSV$`)
)

// MinuteFileDate recovers the sample date (DD.MM.YY) and the base name
// ("minYYMMDD") from the tail of a minute dump path.
func MinuteFileDate(path string) (date string, base string, err error) {
	m := minuteNamePattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", fmt.Errorf("%w: %s does not end in minYYMMDD.json", ErrFilenameLayout, path)
	}
	return m[4] + "." + m[3] + "." + m[2], m[1], nil
}

// KacoFileDate recovers the export date (DD.MM.YYYY) from the tail of a Kaco path.
func KacoFileDate(path string) (string, error) {
	m := kacoNamePattern.FindStringSubmatch(path)
	if m == nil {
		return "", fmt.Errorf("%w: %s does not end in YYYYMMDD.CSV", ErrFilenameLayout, path)
	}
	return m[3] + "." + m[2] + "." + m[1], nil
}

// DayHistoryDate turns a numeric history date (..YYMMDD) into DD.MM.YY.
// The last two digits are the day, the two before the month, and the year is
// the last two digits of whatever leads.
func DayHistoryDate(v float64) (string, error) {
	if v < 0 || v > 1e15 || v != math.Trunc(v) {
		return "", fmt.Errorf("history date %s is not a whole number", FormatNumber(v))
	}
	digits := strconv.FormatInt(int64(v), 10)
	n := len(digits)
	if n < 6 {
		return "", fmt.Errorf("history date %s has fewer than 6 digits", digits)
	}
	year := digits[n-6 : n-4]
	return digits[n-2:] + "." + digits[n-4:n-2] + "." + year, nil
}
