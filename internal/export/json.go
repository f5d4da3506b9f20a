package export

import (
	"encoding/json"
	"fmt"

	"secwatch-reporting/internal/domain"
)

// ToJSON serializes the report document. Parsing the output reproduces the
// report structure, with Date fields rendered as ISO-8601 strings.
func ToJSON(report *domain.ReportData) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}
