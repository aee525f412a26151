package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrProjectNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id.String(), "project")
}

func NewErrEquipmentNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "equipment")
}

type ErrInvalidConfiguration struct {
	error
}

func NewErrInvalidConfiguration(err error) *ErrInvalidConfiguration {
	return &ErrInvalidConfiguration{fmt.Errorf("invalid configuration: %w", err)}
}

func (e *ErrInvalidConfiguration) Unwrap() error {
	return e.error
}

type ErrDuplicateEquipment struct {
	error
}

func NewErrDuplicateEquipment(id string) *ErrDuplicateEquipment {
	return &ErrDuplicateEquipment{fmt.Errorf("equipment %s already exists", id)}
}

type ErrUnsupportedReportFormat struct {
	error
}

func NewErrUnsupportedReportFormat(format string) *ErrUnsupportedReportFormat {
	return &ErrUnsupportedReportFormat{fmt.Errorf("unsupported report format: %q", format)}
}
