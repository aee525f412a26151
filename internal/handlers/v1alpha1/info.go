package v1alpha1

import (
	"net/http"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/pkg/version"
	"github.com/go-chi/render"
)

// (GET /api/health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, v1alpha1.Health{Status: "ok", Message: healthMessage})
}

// (GET /api/info)
func (h *ServiceHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()
	render.JSON(w, r, v1alpha1.Info{
		GitCommit:   versionInfo.GitCommit,
		VersionName: versionInfo.GitVersion,
	})
}

// (GET /api/building-types)
func (h *ServiceHandler) ListBuildingTypes(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, estimation.Infos())
}
