package model

import (
	"time"

	"github.com/firesafe/estimator/internal/estimation"
)

// ConfigurationKey is the key of the single dynamic configuration row.
const ConfigurationKey = "firesafe_dynamic_config"

// ConfigurationRecord holds the whole catalog, rules and company info as one document.
type ConfigurationRecord struct {
	Key       string                               `gorm:"primaryKey;column:key;type:VARCHAR(100);"`
	Data      *JSONField[estimation.Configuration] `gorm:"not null"`
	UpdatedAt time.Time                            `gorm:"autoUpdateTime"`
}

func (ConfigurationRecord) TableName() string {
	return "configurations"
}

func NewConfigurationRecord(cfg estimation.Configuration) ConfigurationRecord {
	return ConfigurationRecord{
		Key:  ConfigurationKey,
		Data: MakeJSONField(cfg),
	}
}
