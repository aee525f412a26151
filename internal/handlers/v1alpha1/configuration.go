package v1alpha1

import (
	"net/http"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/handlers/v1alpha1/mappers"
	"github.com/firesafe/estimator/internal/handlers/validator"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const configFailedMessage = "failed to update configuration"

// (GET /api/config)
func (h *ServiceHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configSrv.Get(r.Context())
	if err != nil {
		log.NewDebugLogger("configuration_handler").WithContext(r.Context()).
			Operation("get_configuration").Build().
			Error(err).Log()
		respondServiceError(w, r, err, "failed to read configuration")
		return
	}
	respondData(w, r, http.StatusOK, cfg)
}

// (PUT /api/config)
func (h *ServiceHandler) UpdateConfiguration(w http.ResponseWriter, r *http.Request) {
	var cfg estimation.Configuration
	if err := render.DecodeJSON(r.Body, &cfg); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondConfig(w, r, "update_configuration", func() (estimation.Configuration, error) {
		return h.configSrv.Update(r.Context(), cfg)
	})
}

// (POST /api/config/reset)
func (h *ServiceHandler) ResetConfiguration(w http.ResponseWriter, r *http.Request) {
	h.respondConfig(w, r, "reset_configuration", func() (estimation.Configuration, error) {
		return h.configSrv.Reset(r.Context())
	})
}

// (PUT /api/config/rules)
func (h *ServiceHandler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var rules estimation.Rules
	if err := render.DecodeJSON(r.Body, &rules); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respondConfig(w, r, "update_rules", func() (estimation.Configuration, error) {
		return h.configSrv.UpdateRules(r.Context(), rules)
	})
}

// (PUT /api/config/company)
func (h *ServiceHandler) UpdateCompanyInfo(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.CompanyInfoRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validator.NewValidator().Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.respondConfig(w, r, "update_company_info", func() (estimation.Configuration, error) {
		return h.configSrv.UpdateCompanyInfo(r.Context(), mappers.CompanyInfoFormApi(req))
	})
}

// (POST /api/config/equipments)
func (h *ServiceHandler) AddEquipment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEquipment(w, r)
	if !ok {
		return
	}
	if req.ID == "" {
		respondError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	h.respondConfigStatus(w, r, http.StatusCreated, "add_equipment", func() (estimation.Configuration, error) {
		return h.configSrv.AddEquipment(r.Context(), mappers.EquipmentFormApi(req))
	})
}

// (PUT /api/config/equipments/{id})
func (h *ServiceHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEquipment(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	h.respondConfig(w, r, "update_equipment", func() (estimation.Configuration, error) {
		return h.configSrv.UpdateEquipment(r.Context(), id, mappers.EquipmentFormApi(req))
	})
}

// (DELETE /api/config/equipments/{id})
func (h *ServiceHandler) RemoveEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.respondConfig(w, r, "remove_equipment", func() (estimation.Configuration, error) {
		return h.configSrv.RemoveEquipment(r.Context(), id)
	})
}

func decodeEquipment(w http.ResponseWriter, r *http.Request) (v1alpha1.EquipmentRequest, bool) {
	var req v1alpha1.EquipmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := newValidator(validator.NewEquipmentValidationRules()).Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (h *ServiceHandler) respondConfig(w http.ResponseWriter, r *http.Request, operation string, fn func() (estimation.Configuration, error)) {
	h.respondConfigStatus(w, r, http.StatusOK, operation, fn)
}

func (h *ServiceHandler) respondConfigStatus(w http.ResponseWriter, r *http.Request, status int, operation string, fn func() (estimation.Configuration, error)) {
	logger := log.NewDebugLogger("configuration_handler").
		WithContext(r.Context()).
		Operation(operation).
		Build()

	cfg, err := fn()
	if err != nil {
		logger.Error(err).Log()
		respondServiceError(w, r, err, configFailedMessage)
		return
	}

	logger.Success().WithInt("equipments", len(cfg.Equipments)).Log()
	respondData(w, r, status, cfg)
}
