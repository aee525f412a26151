package estimation

// Default prefix = values used when a rule is missing, zero or negative.
const (
	DefaultCabinetPerFloors    = 2.0
	DefaultSmokePerRoom        = 1.0
	DefaultHeatPerKitchenAltar = 1.0

	DefaultSmokeDetectorArea = 35.0
	DefaultCabinetArea       = 200.0

	DefaultCableRatioGeneral   = 0.5
	DefaultCableRatioFlammable = 1.0
	DefaultCableRatioChemical  = 1.5

	// DefaultAreaPerUnit is the area served by one unit for per_area items without a param.
	DefaultAreaPerUnit = 50.0

	// CurrentSchemaVersion is the version written on every saved Configuration.
	CurrentSchemaVersion = 2
)

func DefaultResidentialRules() ResidentialRules {
	return ResidentialRules{
		CabinetPerFloors:    DefaultCabinetPerFloors,
		SmokePerRoom:        DefaultSmokePerRoom,
		HeatPerKitchenAltar: DefaultHeatPerKitchenAltar,
	}
}

func DefaultWarehouseRules() WarehouseRules {
	return WarehouseRules{
		SmokeDetectorArea: DefaultSmokeDetectorArea,
		CabinetArea:       DefaultCabinetArea,
		CableRatios: CableRatios{
			General:   DefaultCableRatioGeneral,
			Flammable: DefaultCableRatioFlammable,
			Chemical:  DefaultCableRatioChemical,
		},
	}
}

// DefaultEquipments returns a fresh copy of the built-in catalog.
func DefaultEquipments() []Equipment {
	return []Equipment{
		{
			ID:          "smoke",
			Name:        "Smoke detector",
			Description: "Early smoke detection in bedrooms and living rooms.",
			Price:       650000,
			Icon:        "💨",
			IsDefault:   true,
			Category:    CategorySmoke,
			CalcMethod:  CalcMethod{Type: PerRoom},
		},
		{
			ID:          "heat",
			Name:        "Heat detector",
			Description: "For kitchens and altar rooms where smoke detectors raise false alarms.",
			Price:       650000,
			Icon:        "🔥",
			IsDefault:   true,
			Category:    CategoryHeat,
			CalcMethod:  CalcMethod{Type: PerKitchenAltar},
		},
		{
			ID:          "combination",
			Name:        "Combination unit (bell, light, call point)",
			Description: "Floor-level audible and visual alarm.",
			Price:       1890000,
			Icon:        "🔔",
			IsDefault:   true,
			Category:    CategoryCabinet,
			CalcMethod:  CalcMethod{Type: PerFloor},
		},
		{
			ID:          "panel",
			Name:        "Fire alarm control panel",
			Description: "Central control unit of the whole fire alarm system.",
			Price:       4650000,
			Icon:        "🧠",
			IsDefault:   true,
			Category:    CategoryPanel,
			CalcMethod:  CalcMethod{Type: PerBuilding},
		},
		{
			ID:          "bell",
			Name:        "Fire alarm bell",
			Description: "Loud bell for corridors.",
			Price:       320000,
			Icon:        "🔊",
			IsDefault:   true,
			Category:    CategoryBell,
			CalcMethod:  CalcMethod{Type: PerFloorBell},
		},
		{
			ID:          "heat_cable",
			Name:        "Linear heat detection cable (m)",
			Description: "Required for flammable and chemical storage.",
			Price:       85000,
			Icon:        "〰️",
			IsDefault:   true,
			Category:    CategoryOther,
			CalcMethod:  CalcMethod{Type: PerLinearCable},
		},
	}
}

func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:  "FireSafe Pro",
		Phone: "1900 xxxx",
	}
}

// DefaultConfiguration returns a fresh built-in configuration. The caller owns the returned value.
func DefaultConfiguration() Configuration {
	residential := DefaultResidentialRules()
	warehouse := DefaultWarehouseRules()
	company := DefaultCompanyInfo()
	return Configuration{
		SchemaVersion: CurrentSchemaVersion,
		Equipments:    DefaultEquipments(),
		Rules: Rules{
			Residential: &residential,
			Warehouse:   &warehouse,
		},
		CompanyInfo: &company,
	}
}

// ResolveResidential fills every missing, zero or negative rule with its default.
func ResolveResidential(r *ResidentialRules) ResidentialRules {
	res := DefaultResidentialRules()
	if r == nil {
		return res
	}
	res.CabinetPerFloors = positiveOr(r.CabinetPerFloors, res.CabinetPerFloors)
	res.SmokePerRoom = positiveOr(r.SmokePerRoom, res.SmokePerRoom)
	res.HeatPerKitchenAltar = positiveOr(r.HeatPerKitchenAltar, res.HeatPerKitchenAltar)
	return res
}

// ResolveWarehouse fills every missing, zero or negative rule with its default.
func ResolveWarehouse(w *WarehouseRules) WarehouseRules {
	res := DefaultWarehouseRules()
	if w == nil {
		return res
	}
	res.SmokeDetectorArea = positiveOr(w.SmokeDetectorArea, res.SmokeDetectorArea)
	res.CabinetArea = positiveOr(w.CabinetArea, res.CabinetArea)
	res.CableRatios.General = positiveOr(w.CableRatios.General, res.CableRatios.General)
	res.CableRatios.Flammable = positiveOr(w.CableRatios.Flammable, res.CableRatios.Flammable)
	res.CableRatios.Chemical = positiveOr(w.CableRatios.Chemical, res.CableRatios.Chemical)
	return res
}

func positiveOr(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
