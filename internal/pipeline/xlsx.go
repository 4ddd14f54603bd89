package pipeline

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"solarconv/internal"
	"solarconv/internal/util"
)

const XLSXFileName = "result.xlsx"

// ExportRowsToXLSX writes header (optional) and rows to the first sheet.
// Cells that read as numbers are stored as numbers.
func ExportRowsToXLSX(header internal.Row, rows []internal.Row, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	r := 1
	if len(header) > 0 {
		for i, h := range header {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(sheet, cell, h)
		}
		r++
	}

	for _, row := range rows {
		for i, value := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(sheet, cell, cellValue(value))
		}
		r++
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportCSVToXLSX converts a result.csv written by a tabular run. The first
// non-blank line is taken as the header when hasHeader is set.
func ExportCSVToXLSX(csvPath, outputPath string, hasHeader bool) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var header internal.Row
	var rows []internal.Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := internal.Row(strings.Split(line, delimiter))
		if hasHeader && header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return len(rows), ExportRowsToXLSX(header, rows, outputPath)
}

func cellValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return trimmed
	}
	if v, ok := util.ParseNumber(trimmed); ok && !math.IsInf(v, 0) {
		return v
	}
	return trimmed
}
