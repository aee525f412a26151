package store

import (
	"context"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Configuration() Configuration
	Project() Project
	InitialMigration(ctx context.Context) error
	Seed(ctx context.Context) error
	Close() error
}

type DataStore struct {
	db            *gorm.DB
	configuration Configuration
	project       Project
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		configuration: NewConfigurationStore(db),
		project:       NewProjectStore(db),
		db:            db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Configuration() Configuration {
	return s.configuration
}

func (s *DataStore) Project() Project {
	return s.project
}

// InitialMigration creates the tables from the models. Used with sqlite,
// postgres deployments run the goose migrations instead.
func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&model.ConfigurationRecord{}, &model.Project{})
}

// Seed stores the default configuration unless one is already present.
func (s *DataStore) Seed(ctx context.Context) error {
	record := model.NewConfigurationRecord(estimation.DefaultConfiguration())
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&record).Error
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
