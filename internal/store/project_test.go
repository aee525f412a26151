package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const insertProjectStm = `INSERT INTO projects (id, name, building_type, package_type, input, result, total_cost, created_at) VALUES ('%s', '%s', '%s', 'smart', '{}', '{"totalCost":%f,"equipmentList":[]}', %f, '%s');`

var _ = Describe("project store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg, err := config.NewDefault()
		Expect(err).To(BeNil())
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM projects;")
	})

	insert := func(name, buildingType string, cost float64, createdAt time.Time) uuid.UUID {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, id, name, buildingType, cost, cost, createdAt.UTC().Format("2006-01-02 15:04:05")))
		Expect(tx.Error).To(BeNil())
		return id
	}

	Context("create", func() {
		It("successfully creates a project", func() {
			input := estimation.UserInput{BuildingType: estimation.BuildingTypeWarehouse, TotalArea: 100}
			result := estimation.Result{
				TotalCost:     300,
				EquipmentList: []estimation.LineItem{{ID: "smoke", Quantity: 3, UnitPrice: 100, TotalPrice: 300}},
			}

			project, err := s.Project().Create(context.TODO(), model.NewProject("depot", input, estimation.PackageSmart, result))
			Expect(err).To(BeNil())
			Expect(project.ID).NotTo(Equal(uuid.Nil))

			got, err := s.Project().Get(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(got.Name).To(Equal("depot"))
			Expect(got.BuildingType).To(Equal("warehouse"))
			Expect(got.Input.Data.TotalArea).To(Equal(100.0))
			Expect(got.Result.Data.EquipmentList).To(HaveLen(1))
			Expect(got.TotalCost).To(Equal(300.0))
			Expect(got.CreatedAt.IsZero()).To(BeFalse())
		})

		It("refuses a duplicate id", func() {
			p := model.NewProject("a", estimation.UserInput{}, estimation.PackageSmart, estimation.Result{})
			_, err := s.Project().Create(context.TODO(), p)
			Expect(err).To(BeNil())

			_, err = s.Project().Create(context.TODO(), p)
			Expect(err).To(Equal(store.ErrDuplicateKey))
		})
	})

	Context("list", func() {
		It("lists without filter and options", func() {
			insert("p1", "residential", 10, time.Now())
			insert("p2", "warehouse", 20, time.Now())

			projects, err := s.Project().List(context.TODO(), store.NewProjectQueryFilter(), store.NewProjectQueryOptions())
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(2))
		})

		It("filters by building type and name", func() {
			insert("Main Office", "office", 10, time.Now())
			insert("Depot north", "warehouse", 20, time.Now())
			insert("Depot south", "warehouse", 30, time.Now())

			projects, err := s.Project().List(context.TODO(), store.NewProjectQueryFilter().ByBuildingType("warehouse"), nil)
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(2))

			projects, err = s.Project().List(context.TODO(), store.NewProjectQueryFilter().ByNameLike("depot").ByBuildingType("warehouse"), store.NewProjectQueryOptions().WithSortOrder(store.SortByTotalCost))
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(2))
			Expect(projects[0].Name).To(Equal("Depot south"))
		})

		It("orders by creation time and limits", func() {
			insert("old", "residential", 10, time.Now().Add(-48*time.Hour))
			newest := insert("new", "residential", 10, time.Now())
			insert("mid", "residential", 10, time.Now().Add(-24*time.Hour))

			projects, err := s.Project().List(context.TODO(), nil, store.NewProjectQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc).WithLimit(2))
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(2))
			Expect(projects[0].ID).To(Equal(newest))
			Expect(projects[1].Name).To(Equal("mid"))
		})
	})

	Context("get and delete", func() {
		It("returns ErrRecordNotFound for an unknown project", func() {
			project, err := s.Project().Get(context.TODO(), uuid.New())
			Expect(err).To(Equal(store.ErrRecordNotFound))
			Expect(project).To(BeNil())

			Expect(s.Project().Delete(context.TODO(), uuid.New())).To(Equal(store.ErrRecordNotFound))
		})

		It("deletes a project", func() {
			id := insert("p1", "residential", 10, time.Now())

			Expect(s.Project().Delete(context.TODO(), id)).To(BeNil())

			count := 0
			tx := gormdb.Raw("SELECT COUNT(*) FROM projects;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})

	Context("statistics", func() {
		It("aggregates by building type", func() {
			insert("a", "warehouse", 100, time.Now())
			insert("b", "warehouse", 50, time.Now())
			insert("c", "office", 10, time.Now())

			stats, err := s.Project().Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.TotalByBuildingType).To(HaveKeyWithValue("warehouse", int64(2)))
			Expect(stats.CostByBuildingType).To(HaveKeyWithValue("warehouse", 150.0))
			Expect(stats.CostByBuildingType).To(HaveKeyWithValue("office", 10.0))
		})
	})
})
