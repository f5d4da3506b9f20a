package report

import (
	"errors"
	"fmt"
	"time"

	"secwatch-reporting/internal/domain"
)

// Sentinel errors surfaced to callers. Unsupported types and bad parameters
// are rejected before any query executes; data-access failures are wrapped
// as ErrGenerationFailed.
var (
	ErrUnsupportedType  = errors.New("unsupported report type")
	ErrInvalidParams    = errors.New("invalid report parameters")
	ErrGenerationFailed = errors.New("report generation failed")
)

// Parameters is the recognized generation option set. Date strings accept
// "2006-01-02" or RFC 3339. Empty allow-lists mean "no restriction".
type Parameters struct {
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Severity         []string `json:"severity,omitempty"`
	Status           []string `json:"status,omitempty"`
	DeviceIDs        []string `json:"deviceIds,omitempty"`
	IntegrationIDs   []string `json:"integrationIds,omitempty"`
	IncludeCharts    bool     `json:"includeCharts,omitempty"`
	IncludeRawData   bool     `json:"includeRawData,omitempty"`
	IncludeNarrative bool     `json:"includeNarrative,omitempty"`
}

// Windows holds the configurable default lookback window (days) applied per
// report type when a request omits its date range, plus the audit-log cap.
type Windows struct {
	SecurityDays    int
	ComplianceDays  int
	IncidentDays    int
	DeviceDays      int
	IntegrationDays int
	AuditLogLimit   int
}

// DefaultWindows mirrors the console defaults: 30 days for security and
// incident reports, 90 for compliance, 7 for device health.
func DefaultWindows() Windows {
	return Windows{
		SecurityDays:    30,
		ComplianceDays:  90,
		IncidentDays:    30,
		DeviceDays:      7,
		IntegrationDays: 30,
		AuditLogLimit:   10000,
	}
}

func (w Windows) daysFor(t domain.ReportType) int {
	switch t {
	case domain.ReportSecuritySummary:
		return w.SecurityDays
	case domain.ReportCompliance:
		return w.ComplianceDays
	case domain.ReportIncidentAnalysis:
		return w.IncidentDays
	case domain.ReportDeviceHealth:
		return w.DeviceDays
	case domain.ReportIntegrationStatus:
		return w.IntegrationDays
	default:
		return w.SecurityDays
	}
}

// resolveDateRange validates the requested dates and fills in the per-type
// default window. It fails fast on unparseable dates or an inverted range so
// no query ever runs with bad bounds.
func resolveDateRange(t domain.ReportType, p Parameters, now time.Time, w Windows) (domain.DateRange, error) {
	end := now
	if p.EndDate != "" {
		parsed, err := parseDate(p.EndDate)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("%w: endDate %q: %v", ErrInvalidParams, p.EndDate, err)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -w.daysFor(t))
	if p.StartDate != "" {
		parsed, err := parseDate(p.StartDate)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("%w: startDate %q: %v", ErrInvalidParams, p.StartDate, err)
		}
		start = parsed
	}

	if start.After(end) {
		return domain.DateRange{}, fmt.Errorf("%w: startDate is after endDate", ErrInvalidParams)
	}

	return domain.DateRange{Start: start, End: end}, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
