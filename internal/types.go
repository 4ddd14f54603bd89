package internal

import "time"

type Mode string

const (
	ModeMinutePlain Mode = "minutes plain"
	ModeMinuteSL    Mode = "minutes sl"
	ModeDay         Mode = "day"
	ModeKaco        Mode = "kaco"
)

// Tabular reports whether the mode writes the shared result.csv.
func (m Mode) Tabular() bool {
	return m != ModeMinuteSL
}

// Row is one output record. Values are already rendered; in sl mode a row
// holds a single pre-built line fragment.
type Row []string

type MinuteSample struct {
	Index          int
	Date           string
	Time           string
	PowerW         float64
	YieldKWh       float64
	ConsumptionW   float64
	ConsumptionKWh float64
}

type DayEntry struct {
	LineNo      int
	Date        float64
	Yield       float64
	Consumption float64
	Self        float64
}

type KacoEntry struct {
	Date    string
	YieldWh float64
}

type RunSummary struct {
	TraceID  string
	Mode     Mode
	Files    int
	Rows     int
	Outputs  []string
	Started  time.Time
	Duration time.Duration
}

type RunRecord struct {
	ID         int
	TraceID    string
	Mode       string
	Status     string
	Error      string
	Files      int
	Rows       int
	DurationMs int64
	StartedAt  string
}
