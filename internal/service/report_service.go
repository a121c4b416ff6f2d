package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nurpe/gigpay/internal/config"
	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/repository"
)

type ExcelGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.EarningsReport) ([]byte, error)
}

type ReportService struct {
	reports      *repository.ReportRepository
	excel        ExcelGenerator
	pdf          PDFGenerator
	defaultLimit int
}

type ExportInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Limit       int
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewReportService(reports *repository.ReportRepository, excel ExcelGenerator, pdf PDFGenerator, cfg *config.Config) *ReportService {
	return &ReportService{
		reports:      reports,
		excel:        excel,
		pdf:          pdf,
		defaultLimit: cfg.Reports.DefaultClientsLimit,
	}
}

// BestProfession returns the profession whose contractors earned the
// most from jobs paid strictly inside (start, end). Ties resolve to the
// lexicographically smaller profession name.
func (s *ReportService) BestProfession(ctx context.Context, start, end time.Time) (*model.ProfessionEarnings, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	rows, err := s.reports.ProfessionEarnings(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return &rows[0], nil
}

// BestClients returns up to limit settled jobs in the range, priciest
// first. A zero limit takes the configured default; a negative limit is
// rejected.
func (s *ReportService) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.ClientPayment, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
	}

	rows, err := s.reports.TopClientPayments(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.ClientPayment{}
	}
	return rows, nil
}

func (s *ReportService) ExportExcel(ctx context.Context, input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(*report, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) ExportPDF(ctx context.Context, input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(*report, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) buildReport(ctx context.Context, input ExportInput) (*model.EarningsReport, error) {
	if err := validateRange(input.PeriodStart, input.PeriodEnd); err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
	}

	professions, err := s.reports.ProfessionEarnings(ctx, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if len(professions) == 0 {
		return nil, ErrNoData
	}

	clients, err := s.reports.TopClientPayments(ctx, input.PeriodStart, input.PeriodEnd, limit)
	if err != nil {
		return nil, err
	}

	return &model.EarningsReport{
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Professions: professions,
		TopClients:  clients,
	}, nil
}

func buildFileName(report model.EarningsReport, extension string) string {
	period := fmt.Sprintf("%s-%s", report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("earnings-%s.%s", period, extension)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidRange)
	}
	return nil
}
