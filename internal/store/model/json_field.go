package model

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// JSONField stores a value of T as a json document column.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

func (j *JSONField[T]) Scan(src any) error {
	if src == nil {
		var empty T
		j.Data = empty
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("unsupported type for json field: %T", src)
	}
}

func (j JSONField[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (JSONField[T]) GormDataType() string {
	return "json"
}

// GormDBDataType picks jsonb on postgres and text elsewhere.
func (JSONField[T]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

// GormValue casts the value on postgres so it can be compared with jsonb columns.
func (j JSONField[T]) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	data, err := json.Marshal(j.Data)
	if err != nil {
		_ = db.AddError(err)
	}
	if db.Dialector.Name() == "postgres" {
		return clause.Expr{SQL: "?::jsonb", Vars: []any{string(data)}}
	}
	return clause.Expr{SQL: "?", Vars: []any{string(data)}}
}

func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}
