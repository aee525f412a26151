package store

import (
	"context"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Configuration interface {
	// Get returns the stored configuration as it was written, without migration.
	Get(ctx context.Context) (*estimation.Configuration, error)
	Save(ctx context.Context, cfg estimation.Configuration) (*estimation.Configuration, error)
	Delete(ctx context.Context) error
}

type ConfigurationStore struct {
	db *gorm.DB
}

func NewConfigurationStore(db *gorm.DB) Configuration {
	return &ConfigurationStore{db: db}
}

func (c *ConfigurationStore) Get(ctx context.Context) (*estimation.Configuration, error) {
	var record model.ConfigurationRecord
	if err := c.getDB(ctx).WithContext(ctx).Where("key = ?", model.ConfigurationKey).First(&record).Error; err != nil {
		return nil, translateError(err)
	}
	if record.Data == nil {
		return nil, ErrRecordNotFound
	}

	cfg := record.Data.Data
	if cfg.UpdatedAt == nil {
		updatedAt := record.UpdatedAt
		cfg.UpdatedAt = &updatedAt
	}
	return &cfg, nil
}

// Save writes cfg as the whole document. There is no partial update.
func (c *ConfigurationStore) Save(ctx context.Context, cfg estimation.Configuration) (*estimation.Configuration, error) {
	record := model.NewConfigurationRecord(cfg)
	if err := c.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ConfigurationStore) Delete(ctx context.Context) error {
	return c.getDB(ctx).WithContext(ctx).Where("key = ?", model.ConfigurationKey).Delete(&model.ConfigurationRecord{}).Error
}

func (c *ConfigurationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return c.db
}
