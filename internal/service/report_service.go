package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secwatch-reporting/internal/cache"
	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/export"
	"secwatch-reporting/internal/report"
	"secwatch-reporting/internal/repository"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ReportService is the application-facing reporting interface.
type ReportService interface {
	// GenerateReport builds (or serves from cache) a report document.
	GenerateReport(ctx context.Context, req GenerateReportRequest) (*domain.ReportData, error)

	// ExportReport generates a fresh report and renders it in the requested format.
	ExportReport(ctx context.Context, req ExportReportRequest) (*ExportResult, error)

	// ListReports pages through persisted report artifacts.
	ListReports(ctx context.Context, page, size int) (*ListReportsResponse, error)

	// GetReport fetches one persisted artifact including its content.
	GetReport(ctx context.Context, reportID string) (*domain.Report, error)
}

// GenerateReportRequest carries a generation call.
type GenerateReportRequest struct {
	Type       domain.ReportType `json:"type"`
	Parameters report.Parameters `json:"parameters"`
	Save       bool              `json:"save,omitempty"`
	CreatedBy  string            `json:"-"`
}

// ExportReportRequest carries an export call.
type ExportReportRequest struct {
	Type       domain.ReportType
	Parameters report.Parameters
	Format     string
	Save       bool
	CreatedBy  string
}

// ExportResult is a rendered report ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ListReportsResponse pages persisted artifacts.
type ListReportsResponse struct {
	Items []*ReportOutlineDTO `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// ReportOutlineDTO is a persisted-report list item without content.
type ReportOutlineDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Format    string    `json:"format"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type reportService struct {
	generator   *report.Generator
	reportCache *cache.ReportCache // optional
	reportsRepo repository.ReportsRepository
	logger      *zap.Logger
}

// NewReportService creates a ReportService. reportCache may be nil, in which
// case every request regenerates.
func NewReportService(
	generator *report.Generator,
	reportCache *cache.ReportCache,
	reportsRepo repository.ReportsRepository,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		generator:   generator,
		reportCache: reportCache,
		reportsRepo: reportsRepo,
		logger:      logger,
	}
}

// GenerateReport serves from cache when possible. Saved artifacts are always
// built from a fresh document, never from a cache hit.
func (s *reportService) GenerateReport(ctx context.Context, req GenerateReportRequest) (*domain.ReportData, error) {
	key := cache.Key(req.Type, req.Parameters)

	if s.reportCache != nil && !req.Save {
		if cached, _ := s.reportCache.Get(ctx, key); cached != nil {
			s.logger.Debug("serving report from cache",
				zap.String("type", string(req.Type)),
				zap.String("key", key),
			)
			return cached, nil
		}
	}

	data, err := s.generator.Generate(ctx, req.Type, req.Parameters)
	if err != nil {
		return nil, err
	}

	if s.reportCache != nil {
		s.reportCache.Set(ctx, key, data)
	}

	if req.Save {
		if err := s.persist(ctx, req.Type, req.Parameters, FormatJSON, req.CreatedBy, data); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// ExportReport bypasses the cache: JSON round-trips through the cache decay
// typed section data, and exports should reflect the current snapshot anyway.
func (s *reportService) ExportReport(ctx context.Context, req ExportReportRequest) (*ExportResult, error) {
	data, err := s.generator.Generate(ctx, req.Type, req.Parameters)
	if err != nil {
		return nil, err
	}

	var content []byte
	var contentType, extension string

	switch req.Format {
	case FormatJSON, "":
		content, err = export.ToJSON(data)
		contentType = "application/json"
		extension = "json"
	case FormatCSV:
		content = []byte(export.ToCSV(data))
		contentType = "text/csv; charset=utf-8"
		extension = "csv"
	case FormatXLSX:
		content, err = export.ToXLSX(data)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
	default:
		return nil, fmt.Errorf("unsupported export format: %q", req.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export report: %w", err)
	}

	if req.Save {
		if err := s.persistContent(ctx, req.Type, req.Parameters, req.Format, req.CreatedBy, data.Title, content); err != nil {
			return nil, err
		}
	}

	filename := fmt.Sprintf("%s_%s.%s",
		string(req.Type),
		data.GeneratedAt.UTC().Format("20060102_150405"),
		extension,
	)

	return &ExportResult{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func (s *reportService) ListReports(ctx context.Context, page, size int) (*ListReportsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	reports, total, err := s.reportsRepo.ListReports(ctx, page, size)
	if err != nil {
		s.logger.Error("failed to list reports", zap.Error(err))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	items := make([]*ReportOutlineDTO, 0, len(reports))
	for _, r := range reports {
		items = append(items, &ReportOutlineDTO{
			ID:        r.ReportID,
			Type:      string(r.Type),
			Title:     r.Title,
			Format:    r.Format,
			CreatedBy: r.CreatedBy,
			CreatedAt: r.CreatedAt,
		})
	}

	return &ListReportsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

func (s *reportService) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	if reportID == "" {
		return nil, fmt.Errorf("report_id is required")
	}

	r, err := s.reportsRepo.GetReport(ctx, reportID)
	if err != nil {
		s.logger.Error("failed to get report", zap.String("report_id", reportID), zap.Error(err))
		return nil, err
	}

	return r, nil
}

func (s *reportService) persist(ctx context.Context, t domain.ReportType, p report.Parameters, format, createdBy string, data *domain.ReportData) error {
	content, err := export.ToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to serialize report for saving: %w", err)
	}
	return s.persistContent(ctx, t, p, format, createdBy, data.Title, content)
}

func (s *reportService) persistContent(ctx context.Context, t domain.ReportType, p report.Parameters, format, createdBy, title string, content []byte) error {
	params, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal report parameters: %w", err)
	}

	artifact := &domain.Report{
		ReportID:   uuid.NewString(),
		Type:       t,
		Title:      title,
		Format:     format,
		Parameters: params,
		Content:    content,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.reportsRepo.SaveReport(ctx, artifact); err != nil {
		s.logger.Error("failed to save report artifact",
			zap.String("type", string(t)),
			zap.String("report_id", artifact.ReportID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Info("saved report artifact",
		zap.String("type", string(t)),
		zap.String("report_id", artifact.ReportID),
		zap.String("format", format),
	)

	return nil
}
