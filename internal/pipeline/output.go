package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"solarconv/internal"
)

type AppendFormat string

const (
	AppendPlain AppendFormat = "plain"
	AppendSL    AppendFormat = "sl"
	AppendKaco  AppendFormat = "kaco"
)

const (
	ResultFileName = "result.csv"
	delimiter      = ";"
	rowDelimiter   = "\n"
)

var (
	HeaderMinute = internal.Row{"id", "date", "time", "Leistung[W]", "Ertrag[kWh]", "Verbrauch[W]", "Verbrauch[kWh]"}
	HeaderDay    = internal.Row{"Datum", "Erzeugung[Wh]", "Verbrauch[Wh]", "Eigenverbrauch[Wh]"}
	HeaderKaco   = internal.Row{"Datum", "Erzeugung[Wh]"}
)

// ResetOutput removes every file directly under dir, creating dir when missing.
// Files that vanish before they can be removed are not an error.
func ResetOutput(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reset output: %w", err)
		}
	}
	return nil
}

// WriteHeader creates path and writes header as its only line, without a
// trailing line break; tabular appends start with one.
func WriteHeader(path string, header internal.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.Join(header, delimiter)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// AppendRows serializes rows without quoting and writes them to path.
// plain and kaco append to the shared result file, sl creates path + ".js".
// It returns the file actually written.
func AppendRows(path string, rows []internal.Row, format AppendFormat) (string, error) {
	target := path
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	prefix := ""
	switch format {
	case AppendPlain:
		prefix = rowDelimiter
	case AppendSL:
		target = path + ".js"
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	case AppendKaco:
	default:
		return "", fmt.Errorf("unsupported append format: %s", format)
	}

	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return "", err
	}

	w := bufio.NewWriter(f)
	_, _ = w.WriteString(prefix)
	for i, row := range rows {
		if i > 0 {
			_, _ = w.WriteString(rowDelimiter)
		}
		_, _ = w.WriteString(strings.Join(row, delimiter))
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("append %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return target, nil
}

func appendLineBreak(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(rowDelimiter); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
