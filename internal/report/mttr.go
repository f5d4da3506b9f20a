package report

import (
	"fmt"

	"secwatch-reporting/internal/domain"
)

// MTTR computes the mean time to resolution over the incidents that reached
// a terminal status and carry both timestamps. Resolution time per incident
// is UpdatedAt - CreatedAt. Returns "N/A" when no incident qualifies.
func MTTR(incidents []domain.Incident) string {
	var totalMinutes float64
	var count int

	for _, in := range incidents {
		if !in.IsTerminal() {
			continue
		}
		if in.CreatedAt.IsZero() || in.UpdatedAt.IsZero() {
			continue
		}
		totalMinutes += in.UpdatedAt.Sub(in.CreatedAt).Minutes()
		count++
	}

	if count == 0 {
		return "N/A"
	}

	return formatMinutes(totalMinutes / float64(count))
}

// formatMinutes renders a duration in the coarsest readable unit:
// minutes below one hour, hours below one day, days otherwise.
func formatMinutes(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%.0f minutes", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%.1f hours", minutes/60)
	default:
		return fmt.Sprintf("%.1f days", minutes/1440)
	}
}
