package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"solarconv/internal"
	"solarconv/internal/config"
)

// Journal records finished runs. *storage.DB satisfies it.
type Journal interface {
	InsertRun(rec internal.RunRecord) error
}

type ProcessingService struct {
	cfg     config.Config
	journal Journal
	// warn receives problems that do not fail the run, such as a journal write error.
	warn io.Writer
}

// NewProcessingService builds the converter for one run configuration.
// journal may be nil.
func NewProcessingService(cfg config.Config, journal Journal) *ProcessingService {
	return &ProcessingService{cfg: cfg, journal: journal, warn: os.Stderr}
}

func (s *ProcessingService) resultPath() string {
	return filepath.Join(s.cfg.OutputDir, ResultFileName)
}

// prepareOutput resets the output folder and writes the mode header when enabled.
func (s *ProcessingService) prepareOutput(header internal.Row) (bool, error) {
	if err := ResetOutput(s.cfg.OutputDir); err != nil {
		return false, err
	}
	if !s.cfg.Header || header == nil {
		return false, nil
	}
	if err := WriteHeader(s.resultPath(), header); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ProcessingService) RunMinutes(ctx context.Context, format MinuteFormat) (internal.RunSummary, error) {
	sum := s.begin(internal.Mode("minutes " + string(format)))
	err := s.runMinutes(ctx, format, &sum)
	return s.finish(sum, err)
}

func (s *ProcessingService) runMinutes(ctx context.Context, format MinuteFormat, sum *internal.RunSummary) error {
	if _, err := ParseMinuteFormat(string(format)); err != nil {
		return err
	}

	var header internal.Row
	if format == MinutePlain {
		header = HeaderMinute
		sum.Outputs = append(sum.Outputs, s.resultPath())
	}
	wroteHeader, err := s.prepareOutput(header)
	if err != nil {
		return err
	}

	files, err := DiscoverFiles(s.cfg.InputDir, MinutePattern)
	if err != nil {
		return err
	}

	var all []internal.Row
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := ParseMinuteFile(file, format, s.cfg.Efficiency, s.cfg.UDC)
		if err != nil {
			return err
		}
		sum.Files++
		sum.Rows += len(res.Rows)

		if format == MinuteSL {
			written, err := AppendRows(filepath.Join(s.cfg.OutputDir, res.Base), res.Rows, AppendSL)
			if err != nil {
				return err
			}
			sum.Outputs = append(sum.Outputs, written)
			continue
		}
		if _, err := AppendRows(s.resultPath(), res.Rows, AppendPlain); err != nil {
			return err
		}
		all = append(all, res.Rows...)
	}

	if format == MinutePlain {
		return s.mirrorXLSX(sum, headerIf(wroteHeader, HeaderMinute), all)
	}
	return nil
}

// RunDay converts days_hist_all. The history is read completely before the
// output folder is touched.
func (s *ProcessingService) RunDay(ctx context.Context) (internal.RunSummary, error) {
	sum := s.begin(internal.ModeDay)
	err := s.runDay(ctx, &sum)
	return s.finish(sum, err)
}

func (s *ProcessingService) runDay(ctx context.Context, sum *internal.RunSummary) error {
	entries, err := ReadDayHistory(s.cfg.InputDir)
	if err != nil {
		return err
	}
	rows, err := DayRows(entries)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sum.Files = 1
	sum.Outputs = append(sum.Outputs, s.resultPath())

	wroteHeader, err := s.prepareOutput(HeaderDay)
	if err != nil {
		return err
	}
	if _, err := AppendRows(s.resultPath(), rows, AppendPlain); err != nil {
		return err
	}
	sum.Rows = len(rows)
	return s.mirrorXLSX(sum, headerIf(wroteHeader, HeaderDay), rows)
}

func (s *ProcessingService) RunKaco(ctx context.Context) (internal.RunSummary, error) {
	sum := s.begin(internal.ModeKaco)
	err := s.runKaco(ctx, &sum)
	return s.finish(sum, err)
}

func (s *ProcessingService) runKaco(ctx context.Context, sum *internal.RunSummary) error {
	wroteHeader, err := s.prepareOutput(HeaderKaco)
	if err != nil {
		return err
	}
	sum.Outputs = append(sum.Outputs, s.resultPath())

	files, err := DiscoverFiles(s.cfg.InputDir, KacoPattern)
	if err != nil {
		return err
	}

	// the kaco value carries its own line end, so the header line needs one
	needsBreak := wroteHeader
	var all []internal.Row
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := ParseKacoFile(file)
		if err != nil {
			return err
		}
		if needsBreak {
			if err := appendLineBreak(s.resultPath()); err != nil {
				return err
			}
			needsBreak = false
		}
		rows := KacoRows(entry)
		if _, err := AppendRows(s.resultPath(), rows, AppendKaco); err != nil {
			return err
		}
		sum.Files++
		sum.Rows += len(rows)
		all = append(all, rows...)
	}
	return s.mirrorXLSX(sum, headerIf(wroteHeader, HeaderKaco), all)
}

func (s *ProcessingService) mirrorXLSX(sum *internal.RunSummary, header internal.Row, rows []internal.Row) error {
	if !s.cfg.XLSX {
		return nil
	}
	out := filepath.Join(s.cfg.OutputDir, XLSXFileName)
	if err := ExportRowsToXLSX(header, rows, out); err != nil {
		return fmt.Errorf("xlsx mirror: %w", err)
	}
	sum.Outputs = append(sum.Outputs, out)
	return nil
}

func (s *ProcessingService) begin(mode internal.Mode) internal.RunSummary {
	return internal.RunSummary{TraceID: traceID(), Mode: mode, Started: time.Now()}
}

func (s *ProcessingService) finish(sum internal.RunSummary, runErr error) (internal.RunSummary, error) {
	sum.Duration = time.Since(sum.Started)
	if s.journal != nil {
		rec := internal.RunRecord{
			TraceID:    sum.TraceID,
			Mode:       string(sum.Mode),
			Status:     "done",
			Files:      sum.Files,
			Rows:       sum.Rows,
			DurationMs: sum.Duration.Milliseconds(),
			StartedAt:  sum.Started.UTC().Format(time.RFC3339),
		}
		if runErr != nil {
			rec.Status = "failed"
			rec.Error = runErr.Error()
		}
		if err := s.journal.InsertRun(rec); err != nil {
			fmt.Fprintf(s.warn, "warning: journal %s: %v\n", sum.TraceID, err)
		}
	}
	return sum, runErr
}

func headerIf(written bool, header internal.Row) internal.Row {
	if written {
		return header
	}
	return nil
}

func traceID() string {
	return uuid.NewString()
}
