package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"solarconv/internal"
	"solarconv/internal/util"
)

var dayDelimiters = strings.NewReplacer("=", ",", "|", ",", ";", ",")

// ReadDayHistory parses the days_hist_all file in dir.
func ReadDayHistory(dir string) ([]internal.DayEntry, error) {
	path := filepath.Join(dir, DayHistoryFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ParseDayHistory(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseDayHistory reads one entry per non-blank line. The fields date, yield,
// consumption and self consumption may be separated by any of = | ; ,
// Value fields that do not parse count as 0; the date must parse.
func ParseDayHistory(r io.Reader) ([]internal.DayEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []internal.DayEntry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := parseDayLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entry.LineNo = lineNo
		out = append(out, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDayLine(line string) (internal.DayEntry, error) {
	fields := strings.Split(dayDelimiters.Replace(line), ",")
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	date, ok := util.ParseNumber(fields[0])
	if !ok || math.IsNaN(date) {
		return internal.DayEntry{}, fmt.Errorf("invalid date %q", fields[0])
	}
	return internal.DayEntry{
		Date:        date,
		Yield:       util.NumberOrZero(field(1)),
		Consumption: util.NumberOrZero(field(2)),
		Self:        util.NumberOrZero(field(3)),
	}, nil
}

// SortDayEntries orders entries by ascending date, keeping file order for equal dates.
func SortDayEntries(entries []internal.DayEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

// DayRows sorts entries and renders them as [DD.MM.YY, yield, consumption, self].
func DayRows(entries []internal.DayEntry) ([]internal.Row, error) {
	SortDayEntries(entries)
	out := make([]internal.Row, 0, len(entries))
	for _, e := range entries {
		date, err := util.DayHistoryDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", e.LineNo, err)
		}
		out = append(out, internal.Row{
			date,
			util.FormatNumber(e.Yield),
			util.FormatNumber(e.Consumption),
			util.FormatNumber(e.Self),
		})
	}
	return out, nil
}
