package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/firesafe/estimator/internal/handlers/v1alpha1/mappers"
	"github.com/firesafe/estimator/internal/handlers/validator"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/pkg/log"
)

const estimateFailedMessage = "Internal server error while calculating the estimate."

// (POST /api/estimate)
func (h *ServiceHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("estimation_handler").
		WithContext(ctx).
		Operation("estimate").
		Build()

	form, ok := h.parseEstimateForm(w, r, logger)
	if !ok {
		return
	}

	result, err := h.estimationSrv.Estimate(ctx, form)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, estimateFailedMessage)
		return
	}

	logger.Success().
		WithString("package", string(result.Package)).
		WithFloat("total_cost", result.Result.TotalCost).
		Log()
	respondData(w, r, http.StatusOK, mappers.EstimateToApi(result))
}

// (POST /api/estimate/compare)
func (h *ServiceHandler) ComparePackages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("estimation_handler").
		WithContext(ctx).
		Operation("compare_packages").
		Build()

	form, ok := h.parseEstimateForm(w, r, logger)
	if !ok {
		return
	}

	estimates, err := h.estimationSrv.Compare(ctx, form.Input, form.Config)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, estimateFailedMessage)
		return
	}

	logger.Success().WithInt("packages", len(estimates)).Log()
	respondData(w, r, http.StatusOK, mappers.PackageEstimatesToApi(estimates))
}

// (POST /api/estimate/export?format=csv|xlsx|html)
func (h *ServiceHandler) ExportEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	options, ok := reportOptions(w, r, h.reportSrv)
	if !ok {
		return
	}

	logger := log.NewDebugLogger("estimation_handler").
		WithContext(ctx).
		Operation("export_estimate").
		WithString("format", string(options.Format)).
		Build()

	form, ok := h.parseEstimateForm(w, r, logger)
	if !ok {
		return
	}

	result, err := h.estimationSrv.Estimate(ctx, form)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, estimateFailedMessage)
		return
	}

	report, err := h.reportSrv.GenerateReport(ctx, result, result.Configuration.CompanyInfo, options)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, "failed to generate report")
		return
	}

	logger.Success().WithInt("bytes", len(report.Content)).Log()
	writeReport(w, report)
}

func (h *ServiceHandler) parseEstimateForm(w http.ResponseWriter, r *http.Request, logger *log.OperationTracer) (service.EstimateForm, bool) {
	raw, err := decodeRaw(r)
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return service.EstimateForm{}, false
	}

	v := newValidator(validator.NewEstimateValidationRules())
	if err := v.Struct(mappers.EstimateEnumsFromRaw(raw)); err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return service.EstimateForm{}, false
	}

	form, err := mappers.EstimateFormFromRaw(raw)
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return service.EstimateForm{}, false
	}

	logger.Step("parse_input").
		WithString("building_type", string(form.Input.BuildingType)).
		WithString("package", string(form.Package)).
		Log()
	return form, true
}

// reportOptions reads format, includeSkipped and name from the query string. The format defaults to csv.
func reportOptions(w http.ResponseWriter, r *http.Request, reportSrv *service.ReportService) (service.ReportOptions, bool) {
	q := r.URL.Query()
	options := service.ReportOptions{
		Format:      service.ReportFormat(q.Get("format")),
		ProjectName: q.Get("name"),
	}
	if options.Format == "" {
		options.Format = service.ReportFormatCSV
	}
	if !reportSrv.Supports(options.Format) {
		respondError(w, r, http.StatusBadRequest, service.NewErrUnsupportedReportFormat(string(options.Format)).Error())
		return options, false
	}
	if s := q.Get("includeSkipped"); s != "" {
		include, err := strconv.ParseBool(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid includeSkipped: %q", s))
			return options, false
		}
		options.IncludeSkipped = include
	}
	return options, true
}

func writeReport(w http.ResponseWriter, report *service.Report) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Content)
}
