package estimation

import (
	"fmt"
)

// Engine dispatches to the Policy registered for the building type and prices the quantities it resolves.
// An Engine is immutable once its policies are registered and is safe for concurrent use.
type Engine struct {
	policies []Policy
	byType   map[BuildingType]Policy
}

// NewEngine creates a new Engine with no policies registered.
func NewEngine() *Engine {
	return &Engine{
		policies: make([]Policy, 0),
		byType:   make(map[BuildingType]Policy),
	}
}

// Register adds a Policy to the engine.
// Register panics if a policy with the same Name() is already registered, or if another policy already
// covers one of its building types, as the second one would never be used.
func (e *Engine) Register(p Policy) {
	for _, existing := range e.policies {
		if existing.Name() == p.Name() {
			panic(fmt.Sprintf("estimation: policy %q already registered", p.Name()))
		}
	}
	for _, bt := range p.BuildingTypes() {
		if existing, found := e.byType[bt]; found {
			panic(fmt.Sprintf("estimation: building type %q already handled by policy %q", bt, existing.Name()))
		}
	}
	e.policies = append(e.policies, p)
	for _, bt := range p.BuildingTypes() {
		e.byType[bt] = p
	}
}

// PolicyFor returns the policy registered for the building type.
func (e *Engine) PolicyFor(bt BuildingType) (Policy, bool) {
	p, ok := e.byType[bt]
	return p, ok
}

// Estimate computes the priced equipment list. It never fails: a building type without a policy yields an
// empty result where every catalog entry is reported as skipped.
func (e *Engine) Estimate(input UserInput, pkg PackageType, cfg Configuration) Result {
	input = input.Normalize()
	pkg = pkg.OrDefault()

	result := Result{EquipmentList: make([]LineItem, 0, len(cfg.Equipments))}

	policy, ok := e.byType[input.BuildingType]
	if !ok {
		for _, eq := range cfg.Equipments {
			result.Skipped = append(result.Skipped, SkippedItem{
				ID:   eq.ID,
				Name: eq.Name,
				Note: fmt.Sprintf("no policy for building type %q", input.BuildingType),
			})
		}
		return result
	}

	quantities := policy.Resolve(input, pkg, cfg)
	for i, eq := range cfg.Equipments {
		var q Quantity
		if i < len(quantities) {
			q = quantities[i]
		}
		if q.Value <= 0 {
			result.Skipped = append(result.Skipped, SkippedItem{ID: eq.ID, Name: eq.Name, Note: q.Note})
			continue
		}

		unitPrice := eq.Price
		if unitPrice < 0 {
			unitPrice = 0
		}
		item := LineItem{
			ID:         eq.ID,
			Name:       eq.Name,
			Quantity:   q.Value,
			UnitPrice:  unitPrice,
			TotalPrice: float64(q.Value) * unitPrice,
			Note:       q.Note,
			Icon:       eq.Icon,
		}
		result.EquipmentList = append(result.EquipmentList, item)
		result.TotalCost += item.TotalPrice
	}
	return result
}
