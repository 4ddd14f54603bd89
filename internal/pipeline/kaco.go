package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"solarconv/internal"
	"solarconv/internal/util"
)

// KacoColumns replace the vendor header line on read.
var KacoColumns = []string{"WR", "Serial", "RS485", "IP", "Yield"}

var ErrNoDataRow = errors.New("no data row")

// ParseKacoFile reads the first data row of a Kaco export and closes the file
// without consuming the rest.
func ParseKacoFile(path string) (internal.KacoEntry, error) {
	date, err := util.KacoFileDate(path)
	if err != nil {
		return internal.KacoEntry{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return internal.KacoEntry{}, err
	}
	defer f.Close()

	record, err := readFirstKacoRecord(f)
	if err != nil {
		return internal.KacoEntry{}, fmt.Errorf("%s: %w", path, err)
	}

	// a short row has no yield; like an unparsable one it reads as NaN
	kwh := math.NaN()
	if yieldAt := len(KacoColumns) - 1; yieldAt < len(record) {
		kwh = util.NumberOrNaN(record[yieldAt])
	}
	return internal.KacoEntry{Date: date, YieldWh: kwh * 1000}, nil
}

func readFirstKacoRecord(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrNoDataRow
		}
		return nil, err
	}
	record, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoDataRow
	}
	if err != nil {
		return nil, err
	}
	if len(record) > len(KacoColumns) {
		return nil, fmt.Errorf("column header mismatch: want %d columns, got %d", len(KacoColumns), len(record))
	}
	return record, nil
}

// KacoRows renders the entry as its single [DD.MM.YYYY, Wh + "\n"] row. The line
// break lives inside the value; the kaco append adds none of its own.
func KacoRows(entry internal.KacoEntry) []internal.Row {
	return []internal.Row{{entry.Date, util.FormatNumber(entry.YieldWh) + "\n"}}
}
