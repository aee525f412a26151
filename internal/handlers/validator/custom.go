package validator

import (
	"reflect"
	"regexp"
	"unicode"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/go-playground/validator/v10"
)

var equipmentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// stringValue accepts string fields and named string types such as estimation.BuildingType.
func stringValue(fl validator.FieldLevel) (string, bool) {
	if fl.Field().Kind() != reflect.String {
		return "", false
	}
	return fl.Field().String(), true
}

func buildingTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	return ok && estimation.BuildingType(val).Valid()
}

func packageTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	return ok && estimation.PackageType(val).Valid()
}

func storageTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	switch estimation.StorageType(val) {
	case estimation.StorageGeneral, estimation.StorageFlammable, estimation.StorageChemical:
		return true
	default:
		return false
	}
}

func officeDensityValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	switch estimation.OfficeDensity(val) {
	case estimation.DensityLow, estimation.DensityMedium, estimation.DensityHigh:
		return true
	default:
		return false
	}
}

func categoryValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	return ok && estimation.Category(val).Valid()
}

func calcMethodValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	return ok && estimation.CalcMethodType(val).Valid()
}

func equipmentIDValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	return ok && equipmentIDRegex.MatchString(val)
}

// projectNameValidator rejects control characters. Empty names are allowed and named by the service.
func projectNameValidator(fl validator.FieldLevel) bool {
	val, ok := stringValue(fl)
	if !ok {
		return false
	}
	for _, r := range val {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
