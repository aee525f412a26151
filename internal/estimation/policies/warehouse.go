package policies

import (
	"fmt"

	"github.com/firesafe/estimator/internal/estimation"
)

// Compile-time assertion that Warehouse implements the Policy interface.
var _ estimation.Policy = (*Warehouse)(nil)

// Warehouse resolves quantities from the floor area. Warehouses always get the complete tier, whatever
// package was requested.
type Warehouse struct{}

func NewWarehouse() *Warehouse {
	return &Warehouse{}
}

func (p *Warehouse) Name() string { return "Warehouse" }

func (p *Warehouse) BuildingTypes() []estimation.BuildingType {
	return []estimation.BuildingType{estimation.BuildingTypeWarehouse}
}

// Resolve runs a heat pre-pass first: zones covered by heat detectors are subtracted from the area-based
// smoke detector count.
func (p *Warehouse) Resolve(input estimation.UserInput, _ estimation.PackageType, cfg estimation.Configuration) []estimation.Quantity {
	rules := estimation.ResolveWarehouse(cfg.Rules.Warehouse)

	heatCount := 0
	for _, eq := range cfg.Equipments {
		if eq.Category == estimation.CategoryHeat {
			heatCount += heatByMethod(eq.CalcMethod.Type, input)
		}
	}

	res := make([]estimation.Quantity, 0, len(cfg.Equipments))
	for _, eq := range cfg.Equipments {
		res = append(res, p.resolveOne(eq, input, rules, heatCount))
	}
	return res
}

func (p *Warehouse) resolveOne(eq estimation.Equipment, input estimation.UserInput, rules estimation.WarehouseRules, heatCount int) estimation.Quantity {
	if eq.CalcMethod.Type == "" {
		return noMethod()
	}
	switch eq.Category {
	case estimation.CategoryHeat:
		q := heatByMethod(eq.CalcMethod.Type, input)
		return estimation.Quantity{Value: q, Note: fmt.Sprintf("as configured (%s): %d", eq.CalcMethod.Type, q)}
	case estimation.CategorySmoke:
		total := ceilDiv(input.TotalArea, rules.SmokeDetectorArea)
		q := total - heatCount
		if q < 0 {
			q = 0
		}
		return estimation.Quantity{
			Value: q,
			Note:  fmt.Sprintf("area coverage ceil(%gm² / %gm²) = %d minus %d heat detector(s)", input.TotalArea, guardDivisor(rules.SmokeDetectorArea), total, heatCount),
		}
	case estimation.CategoryCabinet, estimation.CategoryBell:
		return p.byCabinetArea(input, rules)
	case estimation.CategoryPanel:
		return estimation.Quantity{Value: 1, Note: "1 central control panel"}
	default:
		return p.fallback(eq.CalcMethod, input, rules)
	}
}

func (p *Warehouse) byCabinetArea(input estimation.UserInput, rules estimation.WarehouseRules) estimation.Quantity {
	return estimation.Quantity{
		Value: atLeastOne(ceilDiv(input.TotalArea, rules.CabinetArea)),
		Note:  fmt.Sprintf("by area (%gm² / %gm²)", input.TotalArea, guardDivisor(rules.CabinetArea)),
	}
}

func (p *Warehouse) fallback(method estimation.CalcMethod, input estimation.UserInput, rules estimation.WarehouseRules) estimation.Quantity {
	switch method.Type {
	case estimation.PerRoom, estimation.PerArea:
		return estimation.Quantity{
			Value: atLeastOne(ceilDiv(input.TotalArea, rules.SmokeDetectorArea)),
			Note:  fmt.Sprintf("1 unit every %gm² of floor", guardDivisor(rules.SmokeDetectorArea)),
		}
	case estimation.PerFloor:
		return estimation.Quantity{
			Value: atLeastOne(ceilDiv(input.TotalArea, rules.CabinetArea)),
			Note:  fmt.Sprintf("1 unit every %gm² of storage", guardDivisor(rules.CabinetArea)),
		}
	case estimation.PerBuilding:
		return estimation.Quantity{Value: 1, Note: "1 per warehouse"}
	case estimation.PerLinearCable:
		ratio := rules.CableRatios.For(input.StorageType)
		if method.Param != nil && *method.Param > 0 {
			ratio = *method.Param
		}
		return estimation.Quantity{
			Value: ceil(input.TotalArea * ratio),
			Note:  fmt.Sprintf("%gm² x %g m/m² (%s storage)", input.TotalArea, ratio, input.StorageType),
		}
	case estimation.PerKitchenAltar:
		return estimation.Quantity{Note: "kitchen/altar rooms do not apply to warehouses"}
	case estimation.PerFloorBell:
		return estimation.Quantity{Note: "floor bells are counted with the combination units in warehouses"}
	default:
		return unknownMethod(method.Type)
	}
}

// heatByMethod is the contribution of one heat detector entry, used both by the pre-pass and the entry itself.
func heatByMethod(t estimation.CalcMethodType, input estimation.UserInput) int {
	switch t {
	case estimation.PerRoom:
		return max(input.Rooms, 0)
	case estimation.PerKitchenAltar:
		return max(input.KitchenAltar, 0)
	case estimation.PerFloor:
		return max(input.Floors, 0)
	case estimation.PerBuilding:
		return 1
	default:
		return 0
	}
}
