package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/report"
	"secwatch-reporting/internal/service"
)

// ReportHandler serves report generation, export, and persisted artifacts.
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Generate handles POST /reports/api/v1/reports/generate.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}
	req.CreatedBy = r.Header.Get("X-User-Email")

	data, err := h.reportService.GenerateReport(r.Context(), req)
	if err != nil {
		h.logger.Error("Generate failed",
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail(userMessage(err)))
		return
	}

	writeJSON(w, http.StatusOK, Ok(data))
}

// Export handles GET /reports/api/v1/reports/export.
// Query: type, format (json|csv|xlsx), startDate, endDate, severity, status,
// deviceIds, integrationIds, includeCharts, includeRawData, save.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	reportType := domain.ReportType(r.URL.Query().Get("type"))
	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.FormatCSV
	}

	params := report.Parameters{
		StartDate:        r.URL.Query().Get("startDate"),
		EndDate:          r.URL.Query().Get("endDate"),
		Severity:         parseListQuery(r, "severity"),
		Status:           parseListQuery(r, "status"),
		DeviceIDs:        parseListQuery(r, "deviceIds"),
		IntegrationIDs:   parseListQuery(r, "integrationIds"),
		IncludeCharts:    parseBoolQuery(r, "includeCharts"),
		IncludeRawData:   parseBoolQuery(r, "includeRawData"),
		IncludeNarrative: parseBoolQuery(r, "includeNarrative"),
	}

	result, err := h.reportService.ExportReport(r.Context(), service.ExportReportRequest{
		Type:       reportType,
		Parameters: params,
		Format:     format,
		Save:       parseBoolQuery(r, "save"),
		CreatedBy:  r.Header.Get("X-User-Email"),
	})
	if err != nil {
		h.logger.Error("Export failed",
			zap.String("type", string(reportType)),
			zap.String("format", format),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, Fail(userMessage(err)))
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// Types handles GET /reports/api/v1/reports/types.
func (h *ReportHandler) Types(w http.ResponseWriter, r *http.Request) {
	types := make([]string, 0, len(domain.ReportTypes))
	for _, t := range domain.ReportTypes {
		types = append(types, string(t))
	}
	writeJSON(w, http.StatusOK, Ok(types))
}

// List handles GET /reports/api/v1/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := parseIntQuery(r, "page", 1)
	size, _ := parseIntQuery(r, "size", 20)

	resp, err := h.reportService.ListReports(r.Context(), page, size)
	if err != nil {
		h.logger.Error("List reports failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(resp))
}

// GetByID handles GET /reports/api/v1/reports/{id}.
func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request, reportID string) {
	artifact, err := h.reportService.GetReport(r.Context(), reportID)
	if err != nil {
		h.logger.Warn("Get report failed", zap.String("report_id", reportID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	result := map[string]any{
		"id":         artifact.ReportID,
		"type":       string(artifact.Type),
		"title":      artifact.Title,
		"format":     artifact.Format,
		"parameters": json.RawMessage(artifact.Parameters),
		"createdBy":  artifact.CreatedBy,
		"createdAt":  artifact.CreatedAt,
	}
	if artifact.Format == service.FormatJSON {
		result["content"] = json.RawMessage(artifact.Content)
	} else {
		result["content"] = artifact.Content // base64 in JSON
	}

	writeJSON(w, http.StatusOK, Ok(result))
}

// userMessage hides data-access detail behind the generic failure message
// while keeping validation errors verbatim.
func userMessage(err error) string {
	if errors.Is(err, report.ErrUnsupportedType) || errors.Is(err, report.ErrInvalidParams) {
		return err.Error()
	}
	if errors.Is(err, report.ErrGenerationFailed) {
		return report.ErrGenerationFailed.Error()
	}
	return err.Error()
}
