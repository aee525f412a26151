package policies

import (
	"fmt"

	"github.com/firesafe/estimator/internal/estimation"
)

// Compile-time assertion that Residential implements the Policy interface.
var _ estimation.Policy = (*Residential)(nil)

// Residential resolves quantities from rooms, kitchens and floors, gated by the package tier.
// Offices share the same table.
type Residential struct {
	buildingTypes []estimation.BuildingType
	areaPerUnit   float64
}

// ResidentialOption configuration option for the policy
type ResidentialOption func(*Residential)

// WithResidentialBuildingTypes sets the building types handled by the policy.
func WithResidentialBuildingTypes(types ...estimation.BuildingType) ResidentialOption {
	return func(r *Residential) {
		if len(types) > 0 {
			r.buildingTypes = types
		}
	}
}

// WithAreaPerUnit sets the area served by one unit for per_area items that carry no param.
// Non-positive values are ignored and the default is kept.
func WithAreaPerUnit(area float64) ResidentialOption {
	return func(r *Residential) {
		if area > 0 {
			r.areaPerUnit = area
		}
	}
}

// NewResidential creates a Residential policy for residential and office buildings with default settings
// that can be overridden by Options.
func NewResidential(opts ...ResidentialOption) *Residential {
	res := Residential{
		buildingTypes: []estimation.BuildingType{estimation.BuildingTypeResidential, estimation.BuildingTypeOffice},
		areaPerUnit:   estimation.DefaultAreaPerUnit,
	}

	for _, opt := range opts {
		opt(&res)
	}

	return &res
}

func (p *Residential) Name() string { return "Residential" }

func (p *Residential) BuildingTypes() []estimation.BuildingType {
	return p.buildingTypes
}

// Resolve applies the package table to smoke, heat, cabinet, bell and panel entries and falls back to the
// entry's calculation method for everything else.
func (p *Residential) Resolve(input estimation.UserInput, pkg estimation.PackageType, cfg estimation.Configuration) []estimation.Quantity {
	rules := estimation.ResolveResidential(cfg.Rules.Residential)
	res := make([]estimation.Quantity, 0, len(cfg.Equipments))
	for _, eq := range cfg.Equipments {
		res = append(res, p.resolveOne(eq, input, pkg, rules))
	}
	return res
}

func (p *Residential) resolveOne(eq estimation.Equipment, input estimation.UserInput, pkg estimation.PackageType, rules estimation.ResidentialRules) estimation.Quantity {
	if eq.CalcMethod.Type == "" {
		return noMethod()
	}
	switch eq.Category {
	case estimation.CategorySmoke:
		return p.smoke(input, rules)
	case estimation.CategoryHeat:
		return p.heat(input, rules)
	case estimation.CategoryCabinet, estimation.CategoryBell:
		if pkg == estimation.PackageIndependent {
			return notUsedIn(pkg)
		}
		return p.cabinet(input, rules)
	case estimation.CategoryPanel:
		if pkg != estimation.PackageSmart {
			return notUsedIn(pkg)
		}
		return estimation.Quantity{Value: 1, Note: "1 central control panel"}
	default:
		return p.fallback(eq.CalcMethod, input, rules)
	}
}

func (p *Residential) smoke(input estimation.UserInput, rules estimation.ResidentialRules) estimation.Quantity {
	if input.Rooms <= 0 {
		return estimation.Quantity{Note: "no bedrooms or living rooms"}
	}
	return estimation.Quantity{
		Value: ceil(float64(input.Rooms) * rules.SmokePerRoom),
		Note:  fmt.Sprintf("%d room(s) x %g per room", input.Rooms, rules.SmokePerRoom),
	}
}

func (p *Residential) heat(input estimation.UserInput, rules estimation.ResidentialRules) estimation.Quantity {
	if input.KitchenAltar <= 0 {
		return estimation.Quantity{Note: "no kitchen or altar room"}
	}
	return estimation.Quantity{
		Value: ceil(float64(input.KitchenAltar) * rules.HeatPerKitchenAltar),
		Note:  fmt.Sprintf("%d kitchen/altar room(s) x %g per room", input.KitchenAltar, rules.HeatPerKitchenAltar),
	}
}

func (p *Residential) cabinet(input estimation.UserInput, rules estimation.ResidentialRules) estimation.Quantity {
	q := atLeastOne(ceilDiv(float64(input.Floors), rules.CabinetPerFloors))
	return estimation.Quantity{
		Value: q,
		Note:  fmt.Sprintf("1 unit every %g floor(s), rounded up: ceil(%d / %g) = %d", rules.CabinetPerFloors, input.Floors, guardDivisor(rules.CabinetPerFloors), q),
	}
}

func (p *Residential) fallback(method estimation.CalcMethod, input estimation.UserInput, rules estimation.ResidentialRules) estimation.Quantity {
	mult := method.Multiplier()
	switch method.Type {
	case estimation.PerRoom:
		if input.Rooms <= 0 {
			return estimation.Quantity{Note: "no bedrooms or living rooms"}
		}
		return estimation.Quantity{
			Value: ceil(float64(input.Rooms) * rules.SmokePerRoom * mult),
			Note:  fmt.Sprintf("per room: %d x %g x %g", input.Rooms, rules.SmokePerRoom, mult),
		}
	case estimation.PerKitchenAltar:
		if input.KitchenAltar <= 0 {
			return estimation.Quantity{Note: "no kitchen or altar room"}
		}
		return estimation.Quantity{
			Value: ceil(float64(input.KitchenAltar) * rules.HeatPerKitchenAltar * mult),
			Note:  fmt.Sprintf("per kitchen/altar room: %d x %g x %g", input.KitchenAltar, rules.HeatPerKitchenAltar, mult),
		}
	case estimation.PerFloor:
		return estimation.Quantity{
			Value: ceil(float64(input.Floors) * mult),
			Note:  fmt.Sprintf("per floor: %d x %g", input.Floors, mult),
		}
	case estimation.PerFloorBell:
		return estimation.Quantity{
			Value: ceil(float64(input.Floors) * mult),
			Note:  fmt.Sprintf("per floor (bell): %d x %g", input.Floors, mult),
		}
	case estimation.PerArea:
		area := p.areaPerUnit
		if method.Param != nil && *method.Param > 0 {
			area = *method.Param
		}
		return estimation.Quantity{
			Value: ceilDiv(input.TotalArea, area),
			Note:  fmt.Sprintf("per floor area: ceil(%gm² / %gm²)", input.TotalArea, guardDivisor(area)),
		}
	case estimation.PerBuilding:
		return estimation.Quantity{
			Value: ceil(mult),
			Note:  "fixed per building",
		}
	case estimation.PerLinearCable:
		return estimation.Quantity{Note: "linear heat cable applies to warehouses only"}
	default:
		return unknownMethod(method.Type)
	}
}

func notUsedIn(pkg estimation.PackageType) estimation.Quantity {
	return estimation.Quantity{Note: fmt.Sprintf("not used in the %s package", pkg)}
}

// noMethod is the quantity of a catalog entry saved without a calculation method. Such entries are listed
// but never priced, whatever their category.
func noMethod() estimation.Quantity {
	return estimation.Quantity{Note: "no calculation method"}
}

func unknownMethod(t estimation.CalcMethodType) estimation.Quantity {
	return estimation.Quantity{Note: fmt.Sprintf("unknown calculation method %q", t)}
}
