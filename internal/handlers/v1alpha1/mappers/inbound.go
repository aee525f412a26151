package mappers

import (
	"fmt"
	"strings"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service"
	"github.com/goccy/go-json"
)

const (
	keyConfig = "config"
	keyName   = "name"
)

// EstimateEnums holds the enum fields of a raw estimate body so they can be validated
// before the lenient parser replaces unknown values with defaults.
type EstimateEnums struct {
	BuildingType  string `json:"buildingType" validate:"omitempty,building_type"`
	PackageType   string `json:"packageType" validate:"omitempty,package_type"`
	StorageType   string `json:"storageType" validate:"omitempty,storage_type"`
	OfficeDensity string `json:"officeDensity" validate:"omitempty,office_density"`
}

type ProjectCreate struct {
	Name string `json:"name" validate:"max=100,project_name"`
}

func EstimateEnumsFromRaw(raw map[string]any) EstimateEnums {
	return EstimateEnums{
		BuildingType:  rawString(raw, estimation.KeyBuildingType),
		PackageType:   rawString(raw, estimation.KeyPackageType),
		StorageType:   rawString(raw, estimation.KeyStorageType),
		OfficeDensity: rawString(raw, estimation.KeyOfficeDensity),
	}
}

func ProjectCreateFromRaw(raw map[string]any) ProjectCreate {
	return ProjectCreate{Name: rawString(raw, keyName)}
}

// EstimateFormFromRaw parses a raw estimate body. A missing package is left empty so the
// service applies its configured default. The optional config field replaces the stored
// configuration for this request only.
func EstimateFormFromRaw(raw map[string]any) (service.EstimateForm, error) {
	input, pkg := estimation.ParseInput(raw)
	if _, ok := raw[estimation.KeyPackageType]; !ok {
		pkg = ""
	}
	form := service.EstimateForm{Input: input, Package: pkg}

	if cfg, ok := raw[keyConfig]; ok && cfg != nil {
		data, err := json.Marshal(cfg)
		if err != nil {
			return service.EstimateForm{}, fmt.Errorf("invalid config: %w", err)
		}
		var override estimation.Configuration
		if err := json.Unmarshal(data, &override); err != nil {
			return service.EstimateForm{}, fmt.Errorf("invalid config: %w", err)
		}
		form.Config = &override
	}
	return form, nil
}

func EquipmentFormApi(req v1alpha1.EquipmentRequest) estimation.Equipment {
	return estimation.Equipment{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Icon:        req.Icon,
		Category:    req.Category,
		CalcMethod: estimation.CalcMethod{
			Type:  req.CalcMethod.Type,
			Param: req.CalcMethod.Param,
		},
	}
}

func CompanyInfoFormApi(req v1alpha1.CompanyInfoRequest) estimation.CompanyInfo {
	return estimation.CompanyInfo{
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		LogoURL: req.LogoURL,
	}
}

func ProjectFilterApi(q v1alpha1.ProjectQuery) service.ProjectFilter {
	return service.ProjectFilter{
		BuildingType: q.BuildingType,
		Name:         strings.TrimSpace(q.Name),
		Limit:        q.Limit,
	}
}

// rawString returns the trimmed string value of key. Non-string values are formatted so
// that enum validation rejects them instead of silently ignoring them.
func rawString(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}
