package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/estimation"
	handlers "github.com/firesafe/estimator/internal/handlers/v1alpha1"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](rec *httptest.ResponseRecorder) v1alpha1.Envelope[T] {
	var env v1alpha1.Envelope[T]
	Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
	return env
}

func decodeError(rec *httptest.ResponseRecorder) v1alpha1.Error {
	var e v1alpha1.Error
	Expect(json.Unmarshal(rec.Body.Bytes(), &e)).To(Succeed())
	return e
}

var _ = Describe("service handler", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		router chi.Router
	)

	BeforeAll(func() {
		cfg, err := config.NewDefault()
		Expect(err).To(BeNil())
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		configSrv := service.NewConfigurationService(s)
		estimationSrv := service.NewEstimationService(configSrv, estimation.PackageSmart)
		h := handlers.NewServiceHandler(
			estimationSrv,
			configSrv,
			service.NewProjectService(s, estimationSrv, 50),
			service.NewReportService(),
		)
		router = chi.NewRouter()
		h.Routes(router, nil)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM configurations;")
		gormdb.Exec("DELETE FROM projects;")
	})

	Context("health", func() {
		It("reports the backend as active", func() {
			rec := doRequest(router, http.MethodGet, "/api/health", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var health v1alpha1.Health
			Expect(json.Unmarshal(rec.Body.Bytes(), &health)).To(Succeed())
			Expect(health.Status).To(Equal("ok"))
			Expect(health.Message).To(Equal("FireSafe Backend is active"))
		})
	})

	Context("estimate", func() {
		It("estimates a residential building", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"buildingType": "residential",
				"packageType":  "independent",
				"floors":       1,
				"rooms":        2,
				"kitchenAltar": 1,
				"totalArea":    50,
			})
			Expect(rec.Code).To(Equal(http.StatusOK))

			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Success).To(BeTrue())
			Expect(env.Timestamp.IsZero()).To(BeFalse())
			Expect(env.Data.PackageType).To(Equal(estimation.PackageIndependent))
			Expect(env.Data.RequestedPackageType).To(BeNil())
			Expect(env.Data.EquipmentList).To(HaveLen(2))
			Expect(env.Data.TotalCost).To(Equal(3 * 650000.0))
		})

		It("accepts numbers sent as strings", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", `{"buildingType":"residential","packageType":"independent","rooms":"3"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Data.Input.Rooms).To(Equal(3))
		})

		It("reports a coerced package for warehouses", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"buildingType": "warehouse",
				"packageType":  "independent",
				"totalArea":    200,
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Data.PackageType).To(Equal(estimation.PackageSmart))
			Expect(env.Data.RequestedPackageType).NotTo(BeNil())
			Expect(*env.Data.RequestedPackageType).To(Equal(estimation.PackageIndependent))
		})

		It("uses the config sent with the request", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"buildingType": "residential",
				"rooms":        4,
				"config": map[string]any{
					"equipments": []map[string]any{
						{"id": "smoke", "name": "Smoke", "price": 10, "calcMethod": map[string]any{"type": "per_room"}},
					},
				},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Data.TotalCost).To(Equal(40.0))
		})

		It("skips request config entries with an unknown method", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"buildingType": "residential",
				"packageType":  "independent",
				"rooms":        2,
				"config": map[string]any{
					"equipments": []map[string]any{
						{"id": "smoke", "name": "Smoke", "price": 100, "category": "smoke", "calcMethod": map[string]any{"type": "per_room"}},
						{"id": "x", "name": "X", "price": 7, "category": "other", "calcMethod": map[string]any{"type": "per_window"}},
					},
				},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Data.TotalCost).To(Equal(200.0))
			Expect(env.Data.EquipmentList).To(HaveLen(1))
			Expect(env.Data.Skipped).To(HaveLen(1))
			Expect(env.Data.Skipped[0].ID).To(Equal("x"))
			Expect(env.Data.Skipped[0].Note).To(ContainSubstring("unknown calculation method"))
		})

		It("does not price request config entries without a method", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"buildingType": "residential",
				"packageType":  "independent",
				"rooms":        2,
				"config": map[string]any{
					"equipments": []map[string]any{
						{"id": "smoke", "name": "Smoke", "price": 100, "calcMethod": map[string]any{"type": "per_room"}},
						{"id": "extinguisher", "name": "Extinguisher", "price": 7},
					},
				},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[v1alpha1.EstimateResponse](rec)
			Expect(env.Data.TotalCost).To(Equal(200.0))
			Expect(env.Data.Skipped).To(HaveLen(1))
			Expect(env.Data.Skipped[0].Note).To(Equal("no calculation method"))
		})

		It("rejects unknown enum values", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{"buildingType": "castle"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			e := decodeError(rec)
			Expect(e.Success).To(BeFalse())
			Expect(e.Message).To(ContainSubstring("buildingType"))
		})

		It("rejects an invalid config", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", map[string]any{
				"config": map[string]any{"equipments": []map[string]any{{"id": "x", "price": -1}}},
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects malformed json", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate", "{not json")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("compares the packages of a building", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate/compare", map[string]any{
				"buildingType": "office",
				"floors":       2,
				"rooms":        6,
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[[]v1alpha1.PackageEstimate](rec)
			Expect(env.Data).To(HaveLen(3))
		})

		It("exports an estimate as csv", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate/export?format=csv", map[string]any{
				"buildingType": "warehouse",
				"totalArea":    100,
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("firesafe-estimate-warehouse.csv"))
			Expect(rec.Body.String()).To(ContainSubstring("EQUIPMENT"))
		})

		It("rejects unknown export formats", func() {
			rec := doRequest(router, http.MethodPost, "/api/estimate/export?format=pdf", map[string]any{})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("configuration", func() {
		It("returns the default configuration", func() {
			rec := doRequest(router, http.MethodGet, "/api/config", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[estimation.Configuration](rec)
			Expect(env.Data.Equipments).To(HaveLen(len(estimation.DefaultEquipments())))
		})

		It("adds, updates and removes an equipment", func() {
			rec := doRequest(router, http.MethodPost, "/api/config/equipments", v1alpha1.EquipmentRequest{
				ID:         "exit_sign",
				Name:       "Exit sign",
				Price:      120000,
				CalcMethod: v1alpha1.CalcMethod{Type: estimation.PerFloor},
			})
			Expect(rec.Code).To(Equal(http.StatusCreated))
			env := decodeEnvelope[estimation.Configuration](rec)
			_, found := env.Data.Equipment("exit_sign")
			Expect(found).To(BeTrue())
			Expect(env.Data.UpdatedAt).NotTo(BeNil())

			rec = doRequest(router, http.MethodPost, "/api/config/equipments", v1alpha1.EquipmentRequest{ID: "exit_sign", Name: "Exit sign"})
			Expect(rec.Code).To(Equal(http.StatusConflict))

			rec = doRequest(router, http.MethodPut, "/api/config/equipments/exit_sign", v1alpha1.EquipmentRequest{Name: "Exit sign", Price: 99})
			Expect(rec.Code).To(Equal(http.StatusOK))
			env = decodeEnvelope[estimation.Configuration](rec)
			eq, _ := env.Data.Equipment("exit_sign")
			Expect(eq.Price).To(Equal(99.0))

			rec = doRequest(router, http.MethodDelete, "/api/config/equipments/exit_sign", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = doRequest(router, http.MethodDelete, "/api/config/equipments/exit_sign", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("validates equipment requests", func() {
			rec := doRequest(router, http.MethodPost, "/api/config/equipments", v1alpha1.EquipmentRequest{ID: "bad id", Name: "x", Price: -1})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = doRequest(router, http.MethodPost, "/api/config/equipments", v1alpha1.EquipmentRequest{Name: "x"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("replaces the whole configuration and resets it", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Equipments = cfg.Equipments[:2]
			rec := doRequest(router, http.MethodPut, "/api/config", cfg)
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = doRequest(router, http.MethodGet, "/api/config", nil)
			Expect(decodeEnvelope[estimation.Configuration](rec).Data.Equipments).To(HaveLen(2))

			rec = doRequest(router, http.MethodPost, "/api/config/reset", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope[estimation.Configuration](rec).Data.Equipments).To(HaveLen(len(estimation.DefaultEquipments())))
		})

		It("updates rules and company info", func() {
			rec := doRequest(router, http.MethodPut, "/api/config/rules", estimation.Rules{
				Warehouse: &estimation.WarehouseRules{SmokeDetectorArea: 50, CabinetArea: 100, CableRatios: estimation.CableRatios{General: 1, Flammable: 2, Chemical: 3}},
			})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope[estimation.Configuration](rec).Data.Rules.Warehouse.SmokeDetectorArea).To(Equal(50.0))

			rec = doRequest(router, http.MethodPut, "/api/config/company", v1alpha1.CompanyInfoRequest{Name: "Acme", Email: "not-an-email"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = doRequest(router, http.MethodPut, "/api/config/company", v1alpha1.CompanyInfoRequest{Name: "Acme", Email: "sales@acme.vn"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope[estimation.Configuration](rec).Data.CompanyInfo.Name).To(Equal("Acme"))
		})

		It("lists building types with their packages", func() {
			rec := doRequest(router, http.MethodGet, "/api/building-types", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope[[]estimation.BuildingInfo](rec)
			Expect(env.Data).To(HaveLen(3))
			Expect(env.Data[2].ApplicablePackages).To(Equal([]estimation.PackageType{estimation.PackageSmart}))
		})
	})

	Context("projects", func() {
		It("saves, reads, exports and deletes a project", func() {
			rec := doRequest(router, http.MethodPost, "/api/projects", map[string]any{
				"name":         "Villa",
				"buildingType": "residential",
				"packageType":  "smart",
				"floors":       3,
				"rooms":        5,
			})
			Expect(rec.Code).To(Equal(http.StatusCreated))
			created := decodeEnvelope[v1alpha1.Project](rec).Data
			Expect(created.Name).To(Equal("Villa"))
			Expect(created.TotalCost).To(BeNumerically(">", 0))

			rec = doRequest(router, http.MethodGet, fmt.Sprintf("/api/projects/%s", created.Id), nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope[v1alpha1.Project](rec).Data.Result.TotalCost).To(Equal(created.TotalCost))

			rec = doRequest(router, http.MethodGet, "/api/projects?buildingType=residential", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope[v1alpha1.ProjectList](rec).Data).To(HaveLen(1))

			rec = doRequest(router, http.MethodGet, fmt.Sprintf("/api/projects/%s/export?format=html", created.Id), nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Villa"))

			rec = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/projects/%s", created.Id), nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			rec = doRequest(router, http.MethodGet, fmt.Sprintf("/api/projects/%s", created.Id), nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects bad ids and filters", func() {
			rec := doRequest(router, http.MethodGet, "/api/projects/not-a-uuid", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = doRequest(router, http.MethodGet, "/api/projects?buildingType=castle", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = doRequest(router, http.MethodGet, "/api/projects?limit=abc", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/projects/%s", uuid.New()), nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
