package store

import (
	"strings"

	"gorm.io/gorm"
)

type SortOrder int

const (
	Unsorted SortOrder = iota
	SortByName
	SortByCreatedTime
	SortByCreatedTimeDesc
	SortByTotalCost
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type ProjectQueryFilter BaseQuerier

func NewProjectQueryFilter() *ProjectQueryFilter {
	return &ProjectQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ProjectQueryFilter) ByBuildingType(buildingType string) *ProjectQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("building_type = ?", buildingType)
	})
	return f
}

// ByNameLike matches names containing pattern, case insensitive on both dialects.
func (f *ProjectQueryFilter) ByNameLike(pattern string) *ProjectQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(pattern)+"%")
	})
	return f
}

type ProjectQueryOptions BaseQuerier

func NewProjectQueryOptions() *ProjectQueryOptions {
	return &ProjectQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *ProjectQueryOptions) WithSortOrder(sort SortOrder) *ProjectQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByName:
			return tx.Order("name")
		case SortByCreatedTime:
			return tx.Order("created_at")
		case SortByCreatedTimeDesc:
			return tx.Order("created_at DESC")
		case SortByTotalCost:
			return tx.Order("total_cost DESC")
		default:
			return tx
		}
	})
	return o
}

func (o *ProjectQueryOptions) WithLimit(limit int) *ProjectQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit)
	})
	return o
}

func (o *ProjectQueryOptions) WithOffset(offset int) *ProjectQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}
