package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/handlers/v1alpha1/mappers"
	"github.com/firesafe/estimator/internal/handlers/validator"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// (GET /api/projects)
func (h *ServiceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := v1alpha1.ProjectQuery{
		BuildingType: q.Get("buildingType"),
		Name:         q.Get("name"),
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit: %q", s))
			return
		}
		query.Limit = limit
	}
	if err := newValidator(validator.NewProjectValidationRules()).Struct(query); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := h.projectSrv.List(r.Context(), mappers.ProjectFilterApi(query))
	if err != nil {
		respondServiceError(w, r, err, "failed to list projects")
		return
	}
	respondData(w, r, http.StatusOK, mappers.ProjectListToApi(projects))
}

// (POST /api/projects)
func (h *ServiceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("project_handler").
		WithContext(ctx).
		Operation("create_project").
		Build()

	raw, err := decodeRaw(r)
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	v := newValidator(validator.NewProjectValidationRules())
	if err := v.Struct(mappers.ProjectCreateFromRaw(raw)); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := v.Struct(mappers.EstimateEnumsFromRaw(raw)); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	form, err := mappers.EstimateFormFromRaw(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projectSrv.Save(ctx, mappers.ProjectCreateFromRaw(raw).Name, form)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, "failed to save project")
		return
	}

	logger.Success().WithUUID("project_id", project.ID).Log()
	respondData(w, r, http.StatusCreated, mappers.ProjectToApi(*project))
}

// (GET /api/projects/{id})
func (h *ServiceHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := h.projectSrv.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "failed to get project")
		return
	}
	respondData(w, r, http.StatusOK, mappers.ProjectToApi(*project))
}

// (DELETE /api/projects/{id})
func (h *ServiceHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := h.projectSrv.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/projects/{id}/export?format=csv|xlsx|html)
func (h *ServiceHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	options, ok := reportOptions(w, r, h.reportSrv)
	if !ok {
		return
	}

	logger := log.NewDebugLogger("project_handler").
		WithContext(ctx).
		Operation("export_project").
		WithUUID("project_id", id).
		WithString("format", string(options.Format)).
		Build()

	project, err := h.projectSrv.Get(ctx, id)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, "failed to get project")
		return
	}
	if options.ProjectName == "" {
		options.ProjectName = project.Name
	}

	cfg, err := h.configSrv.Get(ctx)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, "failed to read configuration")
		return
	}

	report, err := h.reportSrv.GenerateReport(ctx, h.projectSrv.Estimate(project), cfg.CompanyInfo, options)
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, "failed to generate report")
		return
	}

	logger.Success().WithInt("bytes", len(report.Content)).Log()
	writeReport(w, report)
}

func projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid project id: %q", chi.URLParam(r, "id")))
		return uuid.Nil, false
	}
	return id, true
}
