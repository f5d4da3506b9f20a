package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"secwatch-reporting/internal/domain"
)

// ToCSV renders the report as a human-oriented flattened CSV: a title header
// block, the summary as key/value rows, then one block per section, with a
// blank line between blocks. Every field is double-quoted; embedded quotes
// are doubled so values containing quotes or newlines stay well-formed.
// Tabular headers are derived from the union of all row keys, so fields
// present only in later rows are never dropped.
func ToCSV(report *domain.ReportData) string {
	var b strings.Builder

	// header block
	writeRow(&b, report.Title)
	writeRow(&b, "Generated", report.GeneratedAt.UTC().Format(time.RFC3339))
	writeRow(&b, "Period",
		report.DateRange.Start.UTC().Format("2006-01-02"),
		report.DateRange.End.UTC().Format("2006-01-02"))
	b.WriteString("\n")

	// summary block
	writeRow(&b, "Summary")
	for _, key := range sortedKeys(report.Summary) {
		writeRow(&b, key, formatValue(report.Summary[key]))
	}

	for _, section := range report.Sections {
		b.WriteString("\n")
		writeSection(&b, section)
	}

	return b.String()
}

func writeSection(b *strings.Builder, section domain.ReportSection) {
	if section.Subtitle != "" {
		writeRow(b, section.Title, section.Subtitle)
	} else {
		writeRow(b, section.Title)
	}

	switch data := section.Data.(type) {
	case []map[string]any:
		writeTable(b, data)
	case []any:
		// JSON round-trips (cache, stored artifacts) decay table rows to []any
		writeTable(b, tableRows(data))
	case map[string]any:
		for _, key := range sortedKeys(data) {
			writeRow(b, key, formatValue(data[key]))
		}
	case []string:
		for _, item := range data {
			writeRow(b, item)
		}
	case string:
		writeRow(b, data)
	default:
		writeRow(b, formatValue(data))
	}
}

func writeTable(b *strings.Builder, rows []map[string]any) {
	if len(rows) == 0 {
		writeRow(b, "No data")
		return
	}

	// union of keys across all rows, sorted for deterministic output
	keySet := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			keySet[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	writeRow(b, keys...)
	for _, row := range rows {
		fields := make([]string, 0, len(keys))
		for _, key := range keys {
			if value, ok := row[key]; ok {
				fields = append(fields, formatValue(value))
			} else {
				fields = append(fields, "")
			}
		}
		writeRow(b, fields...)
	}
}

// tableRows recovers typed table rows from a decayed []any slice.
// Non-map elements are dropped.
func tableRows(items []any) []map[string]any {
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(quoteField(field))
	}
	b.WriteString("\n")
}

// quoteField wraps a value in double quotes, doubling embedded quotes.
func quoteField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
