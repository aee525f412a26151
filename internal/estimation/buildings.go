package estimation

import "slices"

// BuildingInfo describes a building type to the UI.
type BuildingInfo struct {
	Type               BuildingType  `json:"type"`
	Label              string        `json:"label"`
	Description        string        `json:"description"`
	TechnicalNotes     []string      `json:"technicalNotes"`
	ApplicablePackages []PackageType `json:"applicablePackages"`
}

var buildingInfos = map[BuildingType]BuildingInfo{
	BuildingTypeResidential: {
		Type:        BuildingTypeResidential,
		Label:       "Residential",
		Description: "Town houses, villas and apartments.",
		TechnicalNotes: []string{
			"1 smoke detector per room, or at most 35m² per detector.",
			"Kitchens and altar rooms use heat detectors to avoid false alarms.",
			"The smart package can forward alarms to a phone.",
		},
		ApplicablePackages: []PackageType{PackageIndependent, PackageLocal, PackageSmart},
	},
	BuildingTypeOffice: {
		Type:        BuildingTypeOffice,
		Label:       "Office",
		Description: "Office floors and small commercial buildings.",
		TechnicalNotes: []string{
			"Rooms and floors follow the residential table.",
			"Staff density is recorded with the estimate but does not change quantities.",
		},
		ApplicablePackages: []PackageType{PackageIndependent, PackageLocal, PackageSmart},
	},
	BuildingTypeWarehouse: {
		Type:        BuildingTypeWarehouse,
		Label:       "Warehouse / factory",
		Description: "Production halls, storage warehouses and plants.",
		TechnicalNotes: []string{
			"Detectors are counted by area: 35m² per detector by default.",
			"Combination units are counted by area: 200m² per unit by default.",
			"Flammable or chemical storage requires linear heat detection cable.",
			"A central panel with a backup power supply is mandatory.",
		},
		ApplicablePackages: []PackageType{PackageSmart},
	},
}

// Info returns a copy of the description of a building type. Unknown types describe the residential table.
func Info(bt BuildingType) BuildingInfo {
	info, ok := buildingInfos[bt]
	if !ok {
		info = buildingInfos[BuildingTypeResidential]
	}
	info.TechnicalNotes = slices.Clone(info.TechnicalNotes)
	info.ApplicablePackages = slices.Clone(info.ApplicablePackages)
	return info
}

// Infos returns the description of every building type in display order.
func Infos() []BuildingInfo {
	res := make([]BuildingInfo, 0, len(BuildingTypes))
	for _, bt := range BuildingTypes {
		res = append(res, Info(bt))
	}
	return res
}

// ApplicablePackages returns the packages offered for the building type, in tier order. The slice is a
// copy the caller may modify.
func ApplicablePackages(bt BuildingType) []PackageType {
	return Info(bt).ApplicablePackages
}

// ResolvePackage returns pkg when it is offered for bt. Otherwise it returns the highest offered package and
// false, so callers can report the substitution.
func ResolvePackage(bt BuildingType, pkg PackageType) (PackageType, bool) {
	allowed := ApplicablePackages(bt)
	for _, p := range allowed {
		if p == pkg {
			return pkg, true
		}
	}
	return allowed[len(allowed)-1], false
}
