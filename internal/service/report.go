package service

import (
	"context"
	"fmt"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service/report"
	"github.com/firesafe/estimator/internal/service/report/csv"
	"github.com/firesafe/estimator/internal/service/report/html"
	"github.com/firesafe/estimator/internal/service/report/types"
	"github.com/firesafe/estimator/internal/service/report/xlsx"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/firesafe/estimator/pkg/metrics"
)

type ReportRenderer = types.ReportRenderer
type ReportFormat = types.ReportFormat
type ReportOptions = types.ReportOptions
type ReportData = types.ReportData

const (
	ReportFormatCSV  = types.ReportFormatCSV
	ReportFormatXLSX = types.ReportFormatXLSX
	ReportFormatHTML = types.ReportFormatHTML
)

// Report is a rendered document ready to be served or written to disk.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

type ReportService struct {
	processor types.EstimateProcessor
	renderers map[types.ReportFormat]types.ReportRenderer
	logger    *log.StructuredLogger
}

func NewReportService() *ReportService {
	service := &ReportService{
		processor: report.NewStandardEstimateProcessor(),
		renderers: make(map[types.ReportFormat]types.ReportRenderer),
		logger:    log.NewDebugLogger("report_service"),
	}

	for _, r := range []types.ReportRenderer{csv.NewRenderer(), xlsx.NewRenderer(), html.NewRenderer()} {
		service.renderers[r.SupportedFormat()] = r
	}

	return service
}

func (r *ReportService) Supports(format ReportFormat) bool {
	_, ok := r.renderers[format]
	return ok
}

func (r *ReportService) GenerateReport(ctx context.Context, estimate *EstimationResult, company *estimation.CompanyInfo, options ReportOptions) (*Report, error) {
	tracer := r.logger.WithContext(ctx).Operation("generate_report").
		WithString("format", string(options.Format)).
		Build()

	renderer, exists := r.renderers[options.Format]
	if !exists {
		err := NewErrUnsupportedReportFormat(string(options.Format))
		tracer.Error(err).Log()
		return nil, err
	}

	reportData, err := r.processor.ProcessEstimate(types.EstimateInput{
		Input:   estimate.Input,
		Package: estimate.Package,
		Result:  estimate.Result,
		Company: company,
	})
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to process estimate: %w", err)
	}
	reportData.Options = options

	content, err := renderer.Render(reportData)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	metrics.IncreaseReportsExportedMetric(string(options.Format))
	tracer.Success().WithInt("bytes", len(content)).Log()

	return &Report{
		Content:     content,
		ContentType: options.Format.ContentType(),
		Filename:    fmt.Sprintf("firesafe-estimate-%s.%s", estimate.Input.BuildingType, options.Format),
	}, nil
}
