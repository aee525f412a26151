package v1alpha1

import (
	"errors"
	"io"
	"net/http"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/handlers/validator"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/pkg/requestid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const healthMessage = "FireSafe Backend is active"

type ServiceHandler struct {
	estimationSrv *service.EstimationService
	configSrv     *service.ConfigurationService
	projectSrv    *service.ProjectService
	reportSrv     *service.ReportService
}

func NewServiceHandler(
	estimationService *service.EstimationService,
	configurationService *service.ConfigurationService,
	projectService *service.ProjectService,
	reportService *service.ReportService,
) *ServiceHandler {
	return &ServiceHandler{
		estimationSrv: estimationService,
		configSrv:     configurationService,
		projectSrv:    projectService,
		reportSrv:     reportService,
	}
}

// Routes mounts every endpoint under /api. track, when set, wraps the estimate endpoints.
func (h *ServiceHandler) Routes(r chi.Router, track func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/info", h.GetInfo)
		r.Get("/building-types", h.ListBuildingTypes)

		r.Group(func(r chi.Router) {
			if track != nil {
				r.Use(track)
			}
			r.Post("/estimate", h.Estimate)
			r.Post("/estimate/compare", h.ComparePackages)
			r.Post("/estimate/export", h.ExportEstimate)
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfiguration)
			r.Put("/", h.UpdateConfiguration)
			r.Post("/reset", h.ResetConfiguration)
			r.Put("/rules", h.UpdateRules)
			r.Put("/company", h.UpdateCompanyInfo)
			r.Post("/equipments", h.AddEquipment)
			r.Put("/equipments/{id}", h.UpdateEquipment)
			r.Delete("/equipments/{id}", h.RemoveEquipment)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Get("/{id}/export", h.ExportProject)
		})
	})
}

func respondData[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	render.Status(r, status)
	render.JSON(w, r, v1alpha1.NewEnvelope(data))
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := v1alpha1.Error{Success: false, Message: message}
	if id := requestid.FromContext(r.Context()); id != "" {
		resp.RequestId = &id
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// respondServiceError maps service errors to a status. Server errors never expose the
// underlying message; fallback is sent instead.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		respondError(w, r, status, fallback)
		return
	}
	respondError(w, r, status, err.Error())
}

func statusFor(err error) int {
	var (
		notFound    *service.ErrResourceNotFound
		invalid     *service.ErrInvalidConfiguration
		duplicate   *service.ErrDuplicateEquipment
		unsupported *service.ErrUnsupportedReportFormat
		validation  *validator.ErrValidation
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &invalid), errors.As(err, &unsupported), errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeRaw reads a loosely typed JSON object. An empty body is an empty object.
func decodeRaw(r *http.Request) (map[string]any, error) {
	raw := map[string]any{}
	if err := render.DecodeJSON(r.Body, &raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func newValidator(rules ...[]validator.ValidationRule) *validator.Validator {
	v := validator.NewValidator()
	for _, r := range rules {
		v.Register(r...)
	}
	return v
}
