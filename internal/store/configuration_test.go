package store_test

import (
	"context"

	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const insertLegacyConfigStm = `INSERT INTO configurations (key, data, updated_at) VALUES ('firesafe_dynamic_config', '{"equipments":[{"id":"smoke","name":"Smoke","price":10}]}', CURRENT_TIMESTAMP);`

var _ = Describe("configuration store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM configurations;")
	})

	Context("get", func() {
		It("returns ErrRecordNotFound when nothing is stored", func() {
			cfg, err := s.Configuration().Get(context.TODO())
			Expect(err).To(Equal(store.ErrRecordNotFound))
			Expect(cfg).To(BeNil())
		})

		It("returns a legacy document as stored", func() {
			tx := gormdb.Exec(insertLegacyConfigStm)
			Expect(tx.Error).To(BeNil())

			cfg, err := s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
			Expect(cfg.SchemaVersion).To(Equal(0))
			Expect(cfg.Equipments).To(HaveLen(1))
			Expect(cfg.Equipments[0].ID).To(Equal("smoke"))
			Expect(string(cfg.Equipments[0].Category)).To(BeEmpty())
			Expect(cfg.UpdatedAt).NotTo(BeNil())
		})
	})

	Context("save", func() {
		It("creates then replaces the single document", func() {
			def := estimation.DefaultConfiguration()
			_, err := s.Configuration().Save(context.TODO(), def)
			Expect(err).To(BeNil())

			def.Equipments = def.Equipments[:2]
			def.CompanyInfo.Name = "Acme"
			_, err = s.Configuration().Save(context.TODO(), def)
			Expect(err).To(BeNil())

			count := 0
			tx := gormdb.Raw("SELECT COUNT(*) FROM configurations;").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(Equal(1))

			got, err := s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
			Expect(got.Equipments).To(HaveLen(2))
			Expect(got.CompanyInfo.Name).To(Equal("Acme"))
			Expect(got.Rules.Warehouse.CableRatios.Chemical).To(Equal(estimation.DefaultCableRatioChemical))
		})
	})

	Context("seed", func() {
		It("writes the defaults once and keeps later edits", func() {
			Expect(s.Seed(context.TODO())).To(BeNil())

			got, err := s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
			Expect(got.Equipments).To(HaveLen(len(estimation.DefaultEquipments())))

			got.Equipments = []estimation.Equipment{}
			_, err = s.Configuration().Save(context.TODO(), *got)
			Expect(err).To(BeNil())

			Expect(s.Seed(context.TODO())).To(BeNil())
			got, err = s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
			Expect(got.Equipments).To(BeEmpty())
		})
	})

	Context("transaction", func() {
		It("discards the write on rollback", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Configuration().Save(ctx, estimation.DefaultConfiguration())
			Expect(err).To(BeNil())

			_, err = store.Rollback(ctx)
			Expect(err).To(BeNil())

			_, err = s.Configuration().Get(context.TODO())
			Expect(err).To(Equal(store.ErrRecordNotFound))
		})

		It("keeps the write on commit", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Configuration().Save(ctx, estimation.DefaultConfiguration())
			Expect(err).To(BeNil())

			_, err = store.Commit(ctx)
			Expect(err).To(BeNil())

			_, err = s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
		})
	})
})
