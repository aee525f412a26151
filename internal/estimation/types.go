package estimation

import (
	"time"
)

type BuildingType string

const (
	BuildingTypeResidential BuildingType = "residential"
	BuildingTypeOffice      BuildingType = "office"
	BuildingTypeWarehouse   BuildingType = "warehouse"
)

// BuildingTypes lists every supported building type in display order.
var BuildingTypes = []BuildingType{BuildingTypeResidential, BuildingTypeOffice, BuildingTypeWarehouse}

func (b BuildingType) Valid() bool {
	switch b {
	case BuildingTypeResidential, BuildingTypeOffice, BuildingTypeWarehouse:
		return true
	default:
		return false
	}
}

// PackageType is the service tier. Tiers are ordered: independent < local < smart.
type PackageType string

const (
	PackageIndependent PackageType = "independent"
	PackageLocal       PackageType = "local"
	PackageSmart       PackageType = "smart"
)

// Packages lists every package in tier order.
var Packages = []PackageType{PackageIndependent, PackageLocal, PackageSmart}

func (p PackageType) Valid() bool {
	return p.Tier() > 0
}

// Tier returns the 1-based position of the package, or 0 for an unknown package.
func (p PackageType) Tier() int {
	switch p {
	case PackageIndependent:
		return 1
	case PackageLocal:
		return 2
	case PackageSmart:
		return 3
	default:
		return 0
	}
}

// OrDefault returns the package itself, or smart when the package is unknown.
func (p PackageType) OrDefault() PackageType {
	if p.Valid() {
		return p
	}
	return PackageSmart
}

// Category tags a catalog entry with the role it plays in the package tables.
type Category string

const (
	CategorySmoke   Category = "smoke"
	CategoryHeat    Category = "heat"
	CategoryCabinet Category = "cabinet"
	CategoryPanel   Category = "panel"
	CategoryBell    Category = "bell"
	CategoryOther   Category = "other"
)

var Categories = []Category{CategorySmoke, CategoryHeat, CategoryCabinet, CategoryPanel, CategoryBell, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type CalcMethodType string

const (
	PerRoom         CalcMethodType = "per_room"
	PerKitchenAltar CalcMethodType = "per_kitchen_altar"
	PerFloor        CalcMethodType = "per_floor"
	PerArea         CalcMethodType = "per_area"
	PerFloorBell    CalcMethodType = "per_floor_bell"
	PerLinearCable  CalcMethodType = "per_linear_cable"
	PerBuilding     CalcMethodType = "per_building"
)

var CalcMethodTypes = []CalcMethodType{PerRoom, PerKitchenAltar, PerFloor, PerArea, PerFloorBell, PerLinearCable, PerBuilding}

func (m CalcMethodType) Valid() bool {
	for _, known := range CalcMethodTypes {
		if m == known {
			return true
		}
	}
	return false
}

// CalcMethod selects how the quantity of an equipment is derived from the building attributes.
// Param is optional: for PerArea it is the area served by one unit, for PerLinearCable it overrides the
// cable ratio of the hazard class, and for every other method it is a multiplier.
type CalcMethod struct {
	Type  CalcMethodType `json:"type"`
	Param *float64       `json:"param,omitempty"`
}

// Multiplier returns Param when it is set and positive, 1 otherwise.
func (c CalcMethod) Multiplier() float64 {
	if c.Param != nil && *c.Param > 0 {
		return *c.Param
	}
	return 1
}

// Equipment is one entry of the configurable catalog.
type Equipment struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Icon        string     `json:"icon"`
	IsDefault   bool       `json:"isDefault"`
	Category    Category   `json:"category"`
	CalcMethod  CalcMethod `json:"calcMethod"`
}

type ResidentialRules struct {
	CabinetPerFloors    float64 `json:"cabinetPerFloors"`
	SmokePerRoom        float64 `json:"smokePerRoom"`
	HeatPerKitchenAltar float64 `json:"heatPerKitchenAltar"`
}

// CableRatios are meters of linear heat cable per square meter of floor, keyed by hazard class.
type CableRatios struct {
	General   float64 `json:"general"`
	Flammable float64 `json:"flammable"`
	Chemical  float64 `json:"chemical"`
}

func (c CableRatios) For(storage StorageType) float64 {
	switch storage {
	case StorageFlammable:
		return c.Flammable
	case StorageChemical:
		return c.Chemical
	default:
		return c.General
	}
}

type WarehouseRules struct {
	SmokeDetectorArea float64     `json:"smokeDetectorArea"`
	CabinetArea       float64     `json:"cabinetArea"`
	CableRatios       CableRatios `json:"cableRatios"`
}

// Rules holds the two rule tables. A nil table resolves to the defaults.
type Rules struct {
	Residential *ResidentialRules `json:"residential,omitempty"`
	Warehouse   *WarehouseRules   `json:"warehouse,omitempty"`
}

type CompanyInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Configuration is the editable catalog and rule set. The engine only reads it.
type Configuration struct {
	SchemaVersion int          `json:"schemaVersion"`
	Equipments    []Equipment  `json:"equipments"`
	Rules         Rules        `json:"rules"`
	CompanyInfo   *CompanyInfo `json:"companyInfo,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
}

// Equipment returns the catalog entry with the given id.
func (c Configuration) Equipment(id string) (Equipment, bool) {
	for _, eq := range c.Equipments {
		if eq.ID == id {
			return eq, true
		}
	}
	return Equipment{}, false
}

type StorageType string

const (
	StorageGeneral   StorageType = "general"
	StorageFlammable StorageType = "flammable"
	StorageChemical  StorageType = "chemical"
)

type OfficeDensity string

const (
	DensityLow    OfficeDensity = "low"
	DensityMedium OfficeDensity = "medium"
	DensityHigh   OfficeDensity = "high"
)

// UserInput describes the building. Numbers are expected to be normalized (see Normalize).
type UserInput struct {
	BuildingType  BuildingType  `json:"buildingType"`
	Floors        int           `json:"floors"`
	Rooms         int           `json:"rooms"`
	KitchenAltar  int           `json:"kitchenAltar"`
	TotalArea     float64       `json:"totalArea"`
	OfficeDensity OfficeDensity `json:"officeDensity,omitempty"`
	StorageType   StorageType   `json:"storageType,omitempty"`
	CeilingHeight *float64      `json:"ceilingHeight,omitempty"`
}

// LineItem is one priced row of the estimate.
type LineItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	Note       string  `json:"note"`
	Icon       string  `json:"icon"`
}

// SkippedItem records a catalog entry that resolved to no quantity, and why.
type SkippedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Note string `json:"note"`
}

// Result is the output of an estimation. It is built fresh on every call.
type Result struct {
	TotalCost     float64       `json:"totalCost"`
	EquipmentList []LineItem    `json:"equipmentList"`
	Skipped       []SkippedItem `json:"skipped,omitempty"`
}

// Quantity is what a Policy resolves for one catalog entry.
type Quantity struct {
	Value int
	Note  string
}

// Policy resolves equipment quantities for one or more building types.
type Policy interface {
	// Name returns the human-readable name of this policy.
	Name() string
	// BuildingTypes returns the building types this policy is responsible for.
	BuildingTypes() []BuildingType
	// Resolve returns one Quantity per catalog entry of cfg, in catalog order.
	Resolve(input UserInput, pkg PackageType, cfg Configuration) []Quantity
}
