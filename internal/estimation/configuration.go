package estimation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyEquipmentID     = errors.New("equipment id is required")
	ErrDuplicateEquipmentID = errors.New("duplicate equipment id")
	ErrNegativePrice        = errors.New("equipment price must be non-negative")
	ErrUnknownCategory      = errors.New("unknown equipment category")
	ErrUnknownCalcMethod    = errors.New("unknown calculation method")
	ErrInvalidRule          = errors.New("rule values must be positive")
)

// Migrate upgrades a stored or submitted configuration to CurrentSchemaVersion.
// Missing rule tables and rule values are filled from the defaults and entries without a category get one
// inferred from their id and name. Entries without a calculation method keep it empty: the engine never
// prices them.
// A nil catalog becomes the default catalog; an explicitly empty catalog stays empty.
func Migrate(cfg Configuration) Configuration {
	res := cfg

	if cfg.Equipments == nil {
		res.Equipments = DefaultEquipments()
	} else {
		res.Equipments = make([]Equipment, len(cfg.Equipments))
		copy(res.Equipments, cfg.Equipments)
	}
	for i := range res.Equipments {
		eq := &res.Equipments[i]
		eq.ID = strings.TrimSpace(eq.ID)
		if eq.Category == "" {
			eq.Category = InferCategory(eq.ID, eq.Name)
		}
	}

	residential := ResolveResidential(cfg.Rules.Residential)
	warehouse := ResolveWarehouse(cfg.Rules.Warehouse)
	res.Rules = Rules{Residential: &residential, Warehouse: &warehouse}

	if cfg.CompanyInfo == nil {
		company := DefaultCompanyInfo()
		res.CompanyInfo = &company
	} else {
		company := *cfg.CompanyInfo
		res.CompanyInfo = &company
	}

	res.SchemaVersion = CurrentSchemaVersion
	return res
}

// InferCategory maps the id and name of a legacy entry, saved before categories existed, to a category.
// It is only used while migrating; the engine reads the stored category.
func InferCategory(id, name string) Category {
	id = strings.ToLower(id)
	name = strings.ToLower(name)
	has := func(s string, markers ...string) bool {
		for _, m := range markers {
			if strings.Contains(s, m) {
				return true
			}
		}
		return false
	}

	isCable := has(id, "cable") || has(name, "cable", "cáp")
	switch {
	case has(id, "smoke") || has(name, "smoke", "khói"):
		return CategorySmoke
	case !isCable && (has(id, "heat") || has(name, "heat", "nhiệt")):
		return CategoryHeat
	case has(id, "cabinet", "combination") || has(name, "combination", "tủ tổ hợp", "chuông đèn"):
		return CategoryCabinet
	case has(id, "panel") || has(name, "control panel", "tủ trung tâm", "điều khiển"):
		return CategoryPanel
	case has(id, "bell") || has(name, "bell", "chuông báo"):
		return CategoryBell
	default:
		return CategoryOther
	}
}

// Validate checks a migrated configuration before it is stored. All problems are joined into one error.
func Validate(cfg Configuration) error {
	return validate(cfg, ValidateEquipment)
}

// ValidateOverride checks a configuration sent along with a single estimate. Only entries that make the
// catalog ambiguous or a price meaningless are rejected. Unknown categories and calculation methods are
// left to the engine, which reports those entries as skipped.
func ValidateOverride(cfg Configuration) error {
	return validate(cfg, validateEntryShape)
}

func validate(cfg Configuration, checkEntry func(Equipment) error) error {
	var errs []error
	seen := make(map[string]struct{}, len(cfg.Equipments))
	for _, eq := range cfg.Equipments {
		if eq.ID == "" {
			errs = append(errs, ErrEmptyEquipmentID)
			continue
		}
		if _, found := seen[eq.ID]; found {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateEquipmentID, eq.ID))
		}
		seen[eq.ID] = struct{}{}
		if err := checkEntry(eq); err != nil {
			errs = append(errs, err)
		}
	}

	if r := cfg.Rules.Residential; r != nil {
		if r.CabinetPerFloors <= 0 || r.SmokePerRoom <= 0 || r.HeatPerKitchenAltar <= 0 {
			errs = append(errs, fmt.Errorf("%w: residential", ErrInvalidRule))
		}
	}
	if w := cfg.Rules.Warehouse; w != nil {
		if w.SmokeDetectorArea <= 0 || w.CabinetArea <= 0 ||
			w.CableRatios.General <= 0 || w.CableRatios.Flammable <= 0 || w.CableRatios.Chemical <= 0 {
			errs = append(errs, fmt.Errorf("%w: warehouse", ErrInvalidRule))
		}
	}
	return errors.Join(errs...)
}

// ValidateEquipment checks a single catalog entry. An empty calculation method is accepted, such
// entries are kept in the catalog but never priced.
func ValidateEquipment(eq Equipment) error {
	errs := []error{validateEntryShape(eq)}
	if !eq.Category.Valid() {
		errs = append(errs, fmt.Errorf("%w %q: %s", ErrUnknownCategory, eq.Category, eq.ID))
	}
	if eq.CalcMethod.Type != "" && !eq.CalcMethod.Type.Valid() {
		errs = append(errs, fmt.Errorf("%w %q: %s", ErrUnknownCalcMethod, eq.CalcMethod.Type, eq.ID))
	}
	if eq.CalcMethod.Param != nil && *eq.CalcMethod.Param <= 0 {
		errs = append(errs, fmt.Errorf("%w: calculation param of %s", ErrInvalidRule, eq.ID))
	}
	return errors.Join(errs...)
}

func validateEntryShape(eq Equipment) error {
	var errs []error
	if strings.TrimSpace(eq.ID) == "" {
		errs = append(errs, ErrEmptyEquipmentID)
	}
	if eq.Price < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNegativePrice, eq.ID))
	}
	return errors.Join(errs...)
}
