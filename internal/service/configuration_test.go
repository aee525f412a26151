package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConfigurationService", func() {
	var (
		mockStore *MockStore
		srv       *service.ConfigurationService
		ctx       context.Context
		now       time.Time
	)

	BeforeEach(func() {
		mockStore = NewMockStore()
		now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		srv = service.NewConfigurationService(mockStore).WithClock(func() time.Time { return now })
		ctx = context.Background()
	})

	Describe("Get", func() {
		It("returns the default configuration when nothing is stored", func() {
			cfg, err := srv.Get(ctx)
			Expect(err).To(BeNil())
			Expect(cfg).To(Equal(estimation.DefaultConfiguration()))
		})

		It("migrates a legacy document", func() {
			mockStore.config = &estimation.Configuration{
				Equipments: []estimation.Equipment{
					{ID: "smoke", Name: "Smoke detector", Price: 1, CalcMethod: estimation.CalcMethod{Type: estimation.PerRoom}},
					{ID: "custom", Name: "Exit sign", Price: 2},
				},
			}

			cfg, err := srv.Get(ctx)
			Expect(err).To(BeNil())
			Expect(cfg.SchemaVersion).To(Equal(estimation.CurrentSchemaVersion))
			Expect(cfg.Equipments[0].Category).To(Equal(estimation.CategorySmoke))
			Expect(cfg.Equipments[1].Category).To(Equal(estimation.CategoryOther))
			Expect(cfg.Equipments[1].CalcMethod.Type).To(BeEmpty())
			Expect(cfg.Rules.Residential).NotTo(BeNil())
			Expect(cfg.Rules.Warehouse).NotTo(BeNil())
		})

		It("returns store errors other than not found", func() {
			mockStore.getError = errors.New("connection refused")

			_, err := srv.Get(ctx)
			Expect(err).NotTo(BeNil())
			Expect(err.Error()).To(ContainSubstring("connection refused"))
		})
	})

	Describe("Update", func() {
		It("stamps updatedAt and stores the whole document", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Equipments = cfg.Equipments[:1]

			saved, err := srv.Update(ctx, cfg)
			Expect(err).To(BeNil())
			Expect(saved.UpdatedAt).NotTo(BeNil())
			Expect(*saved.UpdatedAt).To(Equal(now))
			Expect(mockStore.config.Equipments).To(HaveLen(1))
		})

		It("rejects duplicate ids and negative prices", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Equipments = append(cfg.Equipments, cfg.Equipments[0])
			cfg.Equipments[1].Price = -5

			_, err := srv.Update(ctx, cfg)
			Expect(err).NotTo(BeNil())
			var invalid *service.ErrInvalidConfiguration
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(errors.Is(err, estimation.ErrDuplicateEquipmentID)).To(BeTrue())
			Expect(errors.Is(err, estimation.ErrNegativePrice)).To(BeTrue())
			Expect(mockStore.saves).To(Equal(0))
		})

		It("rejects unknown calculation methods when saving", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Equipments[0].CalcMethod.Type = "per_window"

			_, err := srv.Update(ctx, cfg)
			Expect(errors.Is(err, estimation.ErrUnknownCalcMethod)).To(BeTrue())
			Expect(mockStore.saves).To(Equal(0))
		})

		It("resolves non-positive rules to the defaults", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Rules.Warehouse.SmokeDetectorArea = -1

			saved, err := srv.Update(ctx, cfg)
			Expect(err).To(BeNil())
			Expect(saved.Rules.Warehouse.SmokeDetectorArea).To(Equal(estimation.DefaultSmokeDetectorArea))
		})
	})

	Describe("Reset", func() {
		It("stores the default configuration", func() {
			mockStore.config = &estimation.Configuration{Equipments: []estimation.Equipment{}}

			saved, err := srv.Reset(ctx)
			Expect(err).To(BeNil())
			Expect(saved.Equipments).To(Equal(estimation.DefaultEquipments()))
			Expect(*mockStore.config.UpdatedAt).To(Equal(now))
		})
	})

	Describe("catalog edits", func() {
		It("adds an equipment at the end of the catalog", func() {
			cfg, err := srv.AddEquipment(ctx, estimation.Equipment{
				ID:         " exit_sign ",
				Name:       "Exit sign",
				Price:      150000,
				IsDefault:  true,
				CalcMethod: estimation.CalcMethod{Type: estimation.PerFloor},
			})
			Expect(err).To(BeNil())

			last := cfg.Equipments[len(cfg.Equipments)-1]
			Expect(last.ID).To(Equal("exit_sign"))
			Expect(last.IsDefault).To(BeFalse())
			Expect(last.Category).To(Equal(estimation.CategoryOther))
			Expect(mockStore.saves).To(Equal(1))
		})

		It("refuses to add an existing id", func() {
			_, err := srv.AddEquipment(ctx, estimation.Equipment{ID: "smoke", Price: 1})
			var dup *service.ErrDuplicateEquipment
			Expect(errors.As(err, &dup)).To(BeTrue())
			Expect(mockStore.saves).To(Equal(0))
		})

		It("updates an equipment in place", func() {
			cfg, err := srv.UpdateEquipment(ctx, "panel", estimation.Equipment{
				Name:       "Addressable panel",
				Price:      9000000,
				Category:   estimation.CategoryPanel,
				CalcMethod: estimation.CalcMethod{Type: estimation.PerBuilding},
			})
			Expect(err).To(BeNil())

			panel, ok := cfg.Equipment("panel")
			Expect(ok).To(BeTrue())
			Expect(panel.Price).To(Equal(9000000.0))
			Expect(panel.IsDefault).To(BeTrue())
			Expect(cfg.Equipments[3].ID).To(Equal("panel"))
		})

		It("returns not found for an unknown equipment", func() {
			_, err := srv.UpdateEquipment(ctx, "nope", estimation.Equipment{Name: "x"})
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())

			_, err = srv.RemoveEquipment(ctx, "nope")
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("removes an equipment", func() {
			cfg, err := srv.RemoveEquipment(ctx, "bell")
			Expect(err).To(BeNil())
			_, ok := cfg.Equipment("bell")
			Expect(ok).To(BeFalse())
			Expect(cfg.Equipments).To(HaveLen(len(estimation.DefaultEquipments()) - 1))
		})
	})

	Describe("rules and company info", func() {
		It("replaces only the rule tables that are given", func() {
			cfg, err := srv.UpdateRules(ctx, estimation.Rules{
				Residential: &estimation.ResidentialRules{CabinetPerFloors: 3, SmokePerRoom: 2, HeatPerKitchenAltar: 1},
			})
			Expect(err).To(BeNil())
			Expect(cfg.Rules.Residential.CabinetPerFloors).To(Equal(3.0))
			Expect(*cfg.Rules.Warehouse).To(Equal(estimation.DefaultWarehouseRules()))
		})

		It("stores company info", func() {
			cfg, err := srv.UpdateCompanyInfo(ctx, estimation.CompanyInfo{Name: "Acme Fire", Phone: "0900"})
			Expect(err).To(BeNil())
			Expect(cfg.CompanyInfo.Name).To(Equal("Acme Fire"))
			Expect(mockStore.config.CompanyInfo.Phone).To(Equal("0900"))
		})
	})
})
