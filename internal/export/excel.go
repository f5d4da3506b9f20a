package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"secwatch-reporting/internal/domain"
)

// ToXLSX renders the report as a styled spreadsheet: title and summary at the
// top of one sheet, each section below it with a highlighted title row.
func ToXLSX(report *domain.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	// Don't defer Close() here, Write needs the file open

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	row := 1
	writeRow := func(styled bool, fields ...any) error {
		for col, value := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if styled {
				if err := f.SetCellStyle(sheetName, cell, cell, titleStyle); err != nil {
					return fmt.Errorf("failed to style cell %s: %w", cell, err)
				}
			}
		}
		row++
		return nil
	}

	fail := func(err error) ([]byte, error) {
		f.Close()
		return nil, err
	}

	if err := writeRow(true, report.Title); err != nil {
		return fail(err)
	}
	if err := writeRow(false, "Generated", report.GeneratedAt.UTC().Format(time.RFC3339)); err != nil {
		return fail(err)
	}
	if err := writeRow(false, "Period",
		report.DateRange.Start.UTC().Format("2006-01-02"),
		report.DateRange.End.UTC().Format("2006-01-02")); err != nil {
		return fail(err)
	}

	row++
	if err := writeRow(true, "Summary"); err != nil {
		return fail(err)
	}
	for _, key := range sortedKeys(report.Summary) {
		if err := writeRow(false, key, formatValue(report.Summary[key])); err != nil {
			return fail(err)
		}
	}

	for _, section := range report.Sections {
		row++
		titleFields := []any{section.Title}
		if section.Subtitle != "" {
			titleFields = append(titleFields, section.Subtitle)
		}
		if err := writeRow(true, titleFields...); err != nil {
			return fail(err)
		}
		for _, fields := range sectionRows(section.Data) {
			if err := writeRow(false, fields...); err != nil {
				return fail(err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// sectionRows flattens section data to spreadsheet rows, mirroring the CSV
// layout: tables get a union header row, maps become key/value rows.
func sectionRows(data any) [][]any {
	switch d := data.(type) {
	case []any:
		return sectionRows(tableRows(d))
	case []map[string]any:
		if len(d) == 0 {
			return [][]any{{"No data"}}
		}
		keySet := make(map[string]struct{})
		for _, row := range d {
			for key := range row {
				keySet[key] = struct{}{}
			}
		}
		keys := make([]string, 0, len(keySet))
		for key := range keySet {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		headerRow := make([]any, len(keys))
		for i, key := range keys {
			headerRow[i] = key
		}
		rows := [][]any{headerRow}
		for _, row := range d {
			fields := make([]any, len(keys))
			for i, key := range keys {
				fields[i] = formatValue(row[key])
			}
			rows = append(rows, fields)
		}
		return rows
	case map[string]any:
		rows := make([][]any, 0, len(d))
		for _, key := range sortedKeys(d) {
			rows = append(rows, []any{key, formatValue(d[key])})
		}
		return rows
	case []string:
		rows := make([][]any, 0, len(d))
		for _, item := range d {
			rows = append(rows, []any{item})
		}
		return rows
	case string:
		return [][]any{{d}}
	default:
		return [][]any{{formatValue(d)}}
	}
}
