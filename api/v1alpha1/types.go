package v1alpha1

import (
	"time"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/google/uuid"
)

// EstimateRequest is the body of the estimate, compare and export endpoints.
// The server also accepts numbers sent as strings; clients of this package send typed values.
type EstimateRequest struct {
	BuildingType  string                    `json:"buildingType,omitempty"`
	PackageType   string                    `json:"packageType,omitempty"`
	Floors        int                       `json:"floors"`
	Rooms         int                       `json:"rooms"`
	KitchenAltar  int                       `json:"kitchenAltar"`
	TotalArea     float64                   `json:"totalArea"`
	OfficeDensity string                    `json:"officeDensity,omitempty"`
	StorageType   string                    `json:"storageType,omitempty"`
	CeilingHeight *float64                  `json:"ceilingHeight,omitempty"`
	Config        *estimation.Configuration `json:"config,omitempty"`
}

type EstimateResponse struct {
	PackageType          estimation.PackageType   `json:"packageType"`
	RequestedPackageType *estimation.PackageType  `json:"requestedPackageType,omitempty"`
	Input                estimation.UserInput     `json:"input"`
	TotalCost            float64                  `json:"totalCost"`
	EquipmentList        []estimation.LineItem    `json:"equipmentList"`
	Skipped              []estimation.SkippedItem `json:"skipped,omitempty"`
}

type PackageEstimate struct {
	PackageType   estimation.PackageType `json:"packageType"`
	TotalCost     float64                `json:"totalCost"`
	EquipmentList []estimation.LineItem  `json:"equipmentList"`
}

type CalcMethod struct {
	Type  estimation.CalcMethodType `json:"type" validate:"omitempty,calc_method"`
	Param *float64                  `json:"param,omitempty" validate:"omitempty,gt=0"`
}

// EquipmentRequest adds or replaces one catalog entry.
type EquipmentRequest struct {
	ID          string              `json:"id" validate:"omitempty,max=64,equipment_id"`
	Name        string              `json:"name" validate:"required,max=200"`
	Description string              `json:"description,omitempty" validate:"max=1000"`
	Price       float64             `json:"price" validate:"gte=0"`
	Icon        string              `json:"icon,omitempty" validate:"max=16"`
	Category    estimation.Category `json:"category,omitempty" validate:"omitempty,category"`
	CalcMethod  CalcMethod          `json:"calcMethod"`
}

type CompanyInfoRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty" validate:"max=500"`
	LogoURL string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

// ProjectQuery is the query string of the project list endpoint.
type ProjectQuery struct {
	BuildingType string `json:"buildingType" validate:"omitempty,building_type"`
	Name         string `json:"name" validate:"max=100,project_name"`
	Limit        int    `json:"limit" validate:"gte=0"`
}

type Project struct {
	Id           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	BuildingType string               `json:"buildingType"`
	PackageType  string               `json:"packageType"`
	Input        estimation.UserInput `json:"input"`
	Result       estimation.Result    `json:"result"`
	TotalCost    float64              `json:"totalCost"`
	CreatedAt    time.Time            `json:"createdAt"`
}

type ProjectList []Project
