package estimation

import (
	"math"
	"strconv"
	"strings"
)

// Raw input keys, as sent by the UI.
const (
	KeyBuildingType  = "buildingType"
	KeyPackageType   = "packageType"
	KeyFloors        = "floors"
	KeyRooms         = "rooms"
	KeyKitchenAltar  = "kitchenAltar"
	KeyTotalArea     = "totalArea"
	KeyOfficeDensity = "officeDensity"
	KeyStorageType   = "storageType"
	KeyCeilingHeight = "ceilingHeight"
)

// ParseInput coerces a loosely typed payload into a normalized UserInput and PackageType.
// Values that are missing or not numbers become zero; it never fails.
func ParseInput(raw map[string]interface{}) (UserInput, PackageType) {
	input := UserInput{
		BuildingType:  BuildingType(getString(raw, KeyBuildingType)),
		Floors:        getInt(raw, KeyFloors),
		Rooms:         getInt(raw, KeyRooms),
		KitchenAltar:  getInt(raw, KeyKitchenAltar),
		TotalArea:     getFloat(raw, KeyTotalArea),
		OfficeDensity: OfficeDensity(getString(raw, KeyOfficeDensity)),
		StorageType:   StorageType(getString(raw, KeyStorageType)),
	}
	if _, ok := raw[KeyCeilingHeight]; ok {
		h := getFloat(raw, KeyCeilingHeight)
		input.CeilingHeight = &h
	}
	return input.Normalize(), PackageType(getString(raw, KeyPackageType)).OrDefault()
}

// Normalize clamps negative numbers to zero and replaces unknown enum values with their defaults.
func (u UserInput) Normalize() UserInput {
	if !u.BuildingType.Valid() {
		u.BuildingType = BuildingTypeResidential
	}
	u.Floors = max(u.Floors, 0)
	u.Rooms = max(u.Rooms, 0)
	u.KitchenAltar = max(u.KitchenAltar, 0)
	u.TotalArea = nonNegative(u.TotalArea)

	switch u.StorageType {
	case StorageGeneral, StorageFlammable, StorageChemical:
	default:
		u.StorageType = StorageGeneral
	}
	switch u.OfficeDensity {
	case DensityLow, DensityMedium, DensityHigh:
	default:
		u.OfficeDensity = DensityMedium
	}
	if u.CeilingHeight != nil {
		h := nonNegative(*u.CeilingHeight)
		u.CeilingHeight = &h
	}
	return u
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func getString(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func getInt(raw map[string]interface{}, key string) int {
	f := getFloat(raw, key)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func getFloat(raw map[string]interface{}, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return nonNegative(v) // JSON default
	case float32:
		return nonNegative(float64(v))
	case int:
		return nonNegative(float64(v))
	case int64:
		return nonNegative(float64(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return nonNegative(f)
	default:
		return 0
	}
}
