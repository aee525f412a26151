package migrations_test

import (
	"context"
	"os"
	"path"

	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/pkg/migrations"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("migrations", Ordered, func() {
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
	})

	AfterAll(func() {
		s.Close()
	})

	tableExists := func(name string) bool {
		count := 0
		tx := gormdb.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;", name).Scan(&count)
		Expect(tx.Error).To(BeNil())
		return count == 1
	}

	Context("store migrations", Ordered, func() {
		It("fails to migrate the db -- migration folder does not exist", func() {
			err := migrations.MigrateStore(gormdb, "some folder")
			Expect(err).NotTo(BeNil())
		})

		It("fails to migrate the db -- migration folder is a file", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			err = migrations.MigrateStore(gormdb, path.Join(currentFolder, "migrations.go"))
			Expect(err).NotTo(BeNil())
		})

		It("successfully migrates the db with the embedded scripts", func() {
			Expect(migrations.MigrateStore(gormdb, "")).To(BeNil())

			for _, table := range []string{"configurations", "projects", "goose_db_version"} {
				Expect(tableExists(table)).To(BeTrue(), table)
			}

			// the tables must be usable by the store
			Expect(s.Seed(context.TODO())).To(BeNil())
			cfg, err := s.Configuration().Get(context.TODO())
			Expect(err).To(BeNil())
			Expect(cfg.SchemaVersion).To(Equal(estimation.CurrentSchemaVersion))
		})

		It("successfully migrates the db from a folder", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			Expect(migrations.MigrateStore(gormdb, path.Join(currentFolder, "sql", "sqlite"))).To(BeNil())
			Expect(tableExists("projects")).To(BeTrue())
		})

		AfterEach(func() {
			gormdb.Exec("DROP TABLE IF EXISTS projects;")
			gormdb.Exec("DROP TABLE IF EXISTS configurations;")
			gormdb.Exec("DROP TABLE IF EXISTS goose_db_version;")
		})
	})
})
