package model

import (
	"encoding/json"
	"time"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/google/uuid"
)

// Project is a saved estimate: the input it was computed from and the result.
type Project struct {
	ID           uuid.UUID                        `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	Name         string                           `gorm:"not null;type:VARCHAR(255)"`
	BuildingType string                           `gorm:"not null;type:VARCHAR(50);index:projects_building_type_idx"`
	PackageType  string                           `gorm:"not null;type:VARCHAR(50)"`
	Input        *JSONField[estimation.UserInput] `gorm:"not null"`
	Result       *JSONField[estimation.Result]    `gorm:"not null"`
	TotalCost    float64                          `gorm:"not null"`
	CreatedAt    time.Time                        `gorm:"autoCreateTime"`
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func NewProject(name string, input estimation.UserInput, pkg estimation.PackageType, result estimation.Result) Project {
	return Project{
		ID:           uuid.New(),
		Name:         name,
		BuildingType: string(input.BuildingType),
		PackageType:  string(pkg),
		Input:        MakeJSONField(input),
		Result:       MakeJSONField(result),
		TotalCost:    result.TotalCost,
	}
}

// ProjectStats aggregates saved projects for the metrics collector.
type ProjectStats struct {
	Total               int64
	TotalByBuildingType map[string]int64
	CostByBuildingType  map[string]float64
}
