package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"solarconv/internal"
	"solarconv/internal/util"
)

// SensorKey is the root key the inverter stores its minute series under.
const SensorKey = "776"

type MinuteFormat string

const (
	MinutePlain MinuteFormat = "plain"
	MinuteSL    MinuteFormat = "sl"
)

var (
	ErrMissingSensor = errors.New("sensor key " + SensorKey + " not found")
	ErrSubKeyCount   = errors.New("sensor series must have exactly one sub-key")
)

func ParseMinuteFormat(value string) (MinuteFormat, error) {
	switch f := MinuteFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case MinutePlain, MinuteSL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported minutes format: %q (want plain or sl)", value)
	}
}

type MinuteResult struct {
	Rows []internal.Row
	// Base names the per-file sl output ("minYYMMDD"); empty for plain.
	Base string
}

// ParseMinuteFile reads one minute dump and renders it in the requested format.
// efficiency (percent) and udc only affect the sl format.
func ParseMinuteFile(path string, format MinuteFormat, efficiency, udc float64) (MinuteResult, error) {
	samples, base, err := ReadMinuteSamples(path)
	if err != nil {
		return MinuteResult{}, err
	}
	switch format {
	case MinutePlain:
		return MinuteResult{Rows: MinutePlainRows(samples)}, nil
	case MinuteSL:
		return MinuteResult{Rows: MinuteSLRows(samples, efficiency, udc), Base: base}, nil
	default:
		return MinuteResult{}, fmt.Errorf("unsupported minutes format: %s", format)
	}
}

func ReadMinuteSamples(path string) ([]internal.MinuteSample, string, error) {
	date, base, err := util.MinuteFileDate(path)
	if err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	samples, err := decodeMinuteSeries(raw, date)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return samples, base, nil
}

func decodeMinuteSeries(raw []byte, date string) ([]internal.MinuteSample, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	sensor, ok := root[SensorKey]
	if !ok {
		return nil, ErrMissingSensor
	}

	var series map[string]json.RawMessage
	if err := json.Unmarshal(sensor, &series); err != nil {
		return nil, fmt.Errorf("sensor %s: %w", SensorKey, err)
	}
	entries, err := soleValue(series)
	if err != nil {
		return nil, err
	}

	var items []minuteItem
	if err := json.Unmarshal(entries, &items); err != nil {
		return nil, err
	}

	out := make([]internal.MinuteSample, 0, len(items))
	for i, item := range items {
		out = append(out, internal.MinuteSample{
			Index:          i,
			Date:           date,
			Time:           item.time,
			PowerW:         item.values[0],
			YieldKWh:       item.values[1],
			ConsumptionW:   item.values[2],
			ConsumptionKWh: item.values[3],
		})
	}
	return out, nil
}

func soleValue(m map[string]json.RawMessage) (json.RawMessage, error) {
	if len(m) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrSubKeyCount, len(m))
	}
	for _, v := range m {
		return v, nil
	}
	return nil, ErrSubKeyCount
}

// minuteItem is one [time, [[pac, yield], [consW, consKwh]]] entry.
type minuteItem struct {
	time   string
	values [4]float64
}

func (m *minuteItem) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) < 2 {
		return fmt.Errorf("minute entry %s: want [time, values]", string(data))
	}

	if err := json.Unmarshal(parts[0], &m.time); err != nil {
		m.time = strings.TrimSpace(string(parts[0]))
	}

	var groups [][]json.RawMessage
	if err := json.Unmarshal(parts[1], &groups); err != nil {
		return fmt.Errorf("minute entry %s: %w", m.time, err)
	}
	if len(groups) < 2 {
		return fmt.Errorf("minute entry %s: want [[pac, yield], [consumption, consumption kWh]]", m.time)
	}

	for i := range m.values {
		group := groups[i/2]
		if i%2 >= len(group) {
			m.values[i] = math.NaN()
			continue
		}
		m.values[i] = jsonNumber(group[i%2])
	}
	return nil
}

// jsonNumber coerces one JSON value to a number. null and false are 0, true is
// 1, numeric strings are parsed and everything else is NaN.
func jsonNumber(raw json.RawMessage) float64 {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return math.NaN()
	}
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return util.NumberOrNaN(v)
	default:
		return math.NaN()
	}
}

func MinutePlainRows(samples []internal.MinuteSample) []internal.Row {
	out := make([]internal.Row, 0, len(samples))
	for _, s := range samples {
		out = append(out, internal.Row{
			strconv.Itoa(s.Index),
			s.Date,
			s.Time,
			util.FormatNumber(s.PowerW),
			util.FormatNumber(s.YieldKWh),
			util.FormatNumber(s.ConsumptionW),
			util.FormatNumber(s.ConsumptionKWh),
		})
	}
	return out
}

// MinuteSLRows renders Solar-Log data lines:
// m[mi++]="DD.MM.YY HH:MM|PAC;PDC;daily yield;UDC"
func MinuteSLRows(samples []internal.MinuteSample, efficiency, udc float64) []internal.Row {
	out := make([]internal.Row, 0, len(samples))
	for _, s := range samples {
		pdc := util.RoundHalfUp(s.PowerW / (efficiency / 100))
		line := fmt.Sprintf(`m[mi++]="%s %s|%s;%s;%s;%s"`,
			s.Date, s.Time,
			util.FormatNumber(s.PowerW),
			util.FormatNumber(pdc),
			util.FormatNumber(s.YieldKWh),
			util.FormatNumber(udc),
		)
		out = append(out, internal.Row{line})
	}
	return out
}
