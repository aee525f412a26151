package service_test

import (
	"context"
	"errors"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EstimationService", func() {
	var (
		mockStore *MockStore
		srv       *service.EstimationService
		ctx       context.Context
	)

	BeforeEach(func() {
		mockStore = NewMockStore()
		srv = service.NewEstimationService(service.NewConfigurationService(mockStore), estimation.PackageSmart)
		ctx = context.Background()
	})

	Context("Estimate", func() {
		It("estimates with the default configuration when none is stored", func() {
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input: estimation.UserInput{
					BuildingType: estimation.BuildingTypeResidential,
					Floors:       2,
					Rooms:        3,
					KitchenAltar: 1,
				},
				Package: estimation.PackageIndependent,
			})
			Expect(err).To(BeNil())
			Expect(res.Package).To(Equal(estimation.PackageIndependent))
			Expect(res.PackageCoerced()).To(BeFalse())
			Expect(res.Result.EquipmentList).To(HaveLen(2))
			Expect(res.Result.TotalCost).To(Equal(4 * 650000.0))
		})

		It("uses the stored configuration", func() {
			cfg := estimation.DefaultConfiguration()
			cfg.Equipments = cfg.Equipments[:1]
			cfg.Equipments[0].Price = 100
			mockStore.config = &cfg

			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input:   estimation.UserInput{BuildingType: estimation.BuildingTypeResidential, Rooms: 5},
				Package: estimation.PackageSmart,
			})
			Expect(err).To(BeNil())
			Expect(res.Result.TotalCost).To(Equal(500.0))
		})

		It("falls back to the default package when none is given", func() {
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input: estimation.UserInput{BuildingType: estimation.BuildingTypeOffice, Floors: 1, Rooms: 1},
			})
			Expect(err).To(BeNil())
			Expect(res.Package).To(Equal(estimation.PackageSmart))
			Expect(res.RequestedPackage).To(Equal(estimation.PackageSmart))
		})

		It("coerces a warehouse to the smart package", func() {
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input:   estimation.UserInput{BuildingType: estimation.BuildingTypeWarehouse, TotalArea: 400},
				Package: estimation.PackageLocal,
			})
			Expect(err).To(BeNil())
			Expect(res.RequestedPackage).To(Equal(estimation.PackageLocal))
			Expect(res.Package).To(Equal(estimation.PackageSmart))
			Expect(res.PackageCoerced()).To(BeTrue())
		})

		It("clamps negative inputs", func() {
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input:   estimation.UserInput{BuildingType: estimation.BuildingTypeResidential, Floors: -3, Rooms: -1},
				Package: estimation.PackageLocal,
			})
			Expect(err).To(BeNil())
			Expect(res.Input.Floors).To(Equal(0))
			Expect(res.Input.Rooms).To(Equal(0))
		})

		It("uses a request configuration instead of the stored one", func() {
			stored := estimation.DefaultConfiguration()
			stored.Equipments = []estimation.Equipment{}
			mockStore.config = &stored

			override := estimation.Configuration{Equipments: []estimation.Equipment{
				{ID: "x", Name: "X", Price: 7, CalcMethod: estimation.CalcMethod{Type: estimation.PerBuilding}},
			}}
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input:   estimation.UserInput{BuildingType: estimation.BuildingTypeResidential},
				Package: estimation.PackageSmart,
				Config:  &override,
			})
			Expect(err).To(BeNil())
			Expect(res.Result.TotalCost).To(Equal(7.0))
			Expect(res.Configuration.SchemaVersion).To(Equal(estimation.CurrentSchemaVersion))
		})

		It("reports request entries with unknown or missing methods as skipped", func() {
			override := estimation.Configuration{Equipments: []estimation.Equipment{
				{ID: "smoke", Name: "Smoke", Price: 100, Category: estimation.CategorySmoke, CalcMethod: estimation.CalcMethod{Type: estimation.PerRoom}},
				{ID: "x", Name: "X", Price: 7, Category: estimation.CategoryOther, CalcMethod: estimation.CalcMethod{Type: "per_window"}},
				{ID: "extinguisher", Name: "Extinguisher", Price: 7},
			}}
			res, err := srv.Estimate(ctx, service.EstimateForm{
				Input:   estimation.UserInput{BuildingType: estimation.BuildingTypeResidential, Rooms: 2},
				Package: estimation.PackageIndependent,
				Config:  &override,
			})
			Expect(err).To(BeNil())
			Expect(res.Result.TotalCost).To(Equal(200.0))
			Expect(res.Result.EquipmentList).To(HaveLen(1))
			Expect(res.Result.Skipped).To(HaveLen(2))
			Expect(res.Result.Skipped[0].ID).To(Equal("x"))
			Expect(res.Result.Skipped[0].Note).To(ContainSubstring("per_window"))
			Expect(res.Result.Skipped[1].Note).To(Equal("no calculation method"))
		})

		It("rejects an invalid request configuration", func() {
			override := estimation.Configuration{Equipments: []estimation.Equipment{
				{ID: "x", Price: -1},
			}}
			_, err := srv.Estimate(ctx, service.EstimateForm{
				Input:  estimation.UserInput{BuildingType: estimation.BuildingTypeResidential},
				Config: &override,
			})
			var invalid *service.ErrInvalidConfiguration
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("returns store failures", func() {
			mockStore.getError = errors.New("db down")
			_, err := srv.Estimate(ctx, service.EstimateForm{
				Input: estimation.UserInput{BuildingType: estimation.BuildingTypeResidential},
			})
			Expect(err).NotTo(BeNil())
		})
	})

	Context("Compare", func() {
		It("estimates every package offered for a residential building", func() {
			res, err := srv.Compare(ctx, estimation.UserInput{
				BuildingType: estimation.BuildingTypeResidential,
				Floors:       3,
				Rooms:        4,
				KitchenAltar: 1,
			}, nil)
			Expect(err).To(BeNil())
			Expect(res).To(HaveLen(3))
			Expect(res[0].Package).To(Equal(estimation.PackageIndependent))
			Expect(res[2].Package).To(Equal(estimation.PackageSmart))
			Expect(res[0].Result.TotalCost).To(BeNumerically("<", res[1].Result.TotalCost))
			Expect(res[1].Result.TotalCost).To(BeNumerically("<", res[2].Result.TotalCost))
		})

		It("offers only the smart package for a warehouse", func() {
			res, err := srv.Compare(ctx, estimation.UserInput{BuildingType: estimation.BuildingTypeWarehouse, TotalArea: 100}, nil)
			Expect(err).To(BeNil())
			Expect(res).To(HaveLen(1))
			Expect(res[0].Package).To(Equal(estimation.PackageSmart))
		})
	})
})
