package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewEstimateValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("building_type", buildingTypeValidator),
		},
		{
			Rule: registerFn("package_type", packageTypeValidator),
		},
		{
			Rule: registerFn("storage_type", storageTypeValidator),
		},
		{
			Rule: registerFn("office_density", officeDensityValidator),
		},
	}
}

func NewEquipmentValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("equipment_id", equipmentIDValidator),
		},
		{
			Rule: registerFn("category", categoryValidator),
		},
		{
			Rule: registerFn("calc_method", calcMethodValidator),
		},
	}
}

func NewProjectValidationRules() []ValidationRule {
	rules := []ValidationRule{
		{
			Rule: registerFn("project_name", projectNameValidator),
		},
	}
	return append(rules, NewEstimateValidationRules()...)
}
