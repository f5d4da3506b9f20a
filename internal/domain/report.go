package domain

import "time"

// ReportType identifies one of the supported report kinds.
type ReportType string

const (
	ReportSecuritySummary   ReportType = "SECURITY_SUMMARY"
	ReportCompliance        ReportType = "COMPLIANCE"
	ReportIncidentAnalysis  ReportType = "INCIDENT_ANALYSIS"
	ReportDeviceHealth      ReportType = "DEVICE_HEALTH"
	ReportIntegrationStatus ReportType = "INTEGRATION_STATUS"
)

// ReportTypes lists every supported report type. AUDIT_TRAIL exists as a
// category in the console UI but has no handler here; requesting it fails
// with an unsupported-type error.
var ReportTypes = []ReportType{
	ReportSecuritySummary,
	ReportCompliance,
	ReportIncidentAnalysis,
	ReportDeviceHealth,
	ReportIntegrationStatus,
}

// Valid reports whether t is a supported report type.
func (t ReportType) Valid() bool {
	for _, rt := range ReportTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// SectionType is a rendering hint consumed by the presentation layer.
type SectionType string

const (
	SectionTable   SectionType = "table"
	SectionList    SectionType = "list"
	SectionMetrics SectionType = "metrics"
	SectionText    SectionType = "text"
	SectionChart   SectionType = "chart"
)

// ChartType is the chart rendering hint.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
	ChartArea ChartType = "area"
)

// DateRange is the resolved reporting window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportSection is one titled block of a report.
// Table sections carry []map[string]any rows; list sections []string;
// metrics sections map[string]any; text sections a string.
type ReportSection struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Type     SectionType `json:"type"`
	Data     any         `json:"data"`
}

// ChartData is an optional chart payload attached to a report.
type ChartData struct {
	Title string    `json:"title"`
	Type  ChartType `json:"type"`
	Data  any       `json:"data"`
}

// ReportData is the assembled report document. It is transient: computed per
// request and only persisted when the caller saves the generated artifact.
// Summary statistics and section data always come from the same query
// snapshot; every query for a request runs before any output is assembled.
type ReportData struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	GeneratedAt time.Time       `json:"generatedAt"`
	DateRange   DateRange       `json:"dateRange"`
	Summary     map[string]any  `json:"summary"`
	Sections    []ReportSection `json:"sections"`
	Charts      []ChartData     `json:"charts,omitempty"`
	RawData     any             `json:"rawData,omitempty"`
}

// Report is a persisted generated artifact.
type Report struct {
	ReportID   string
	Type       ReportType
	Title      string
	Format     string
	Parameters []byte // JSON-encoded generation parameters
	Content    []byte
	CreatedBy  string
	CreatedAt  time.Time
}
