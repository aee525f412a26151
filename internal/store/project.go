package store

import (
	"context"

	"github.com/firesafe/estimator/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project interface {
	List(ctx context.Context, filter *ProjectQueryFilter, opts *ProjectQueryOptions) (model.ProjectList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context) (model.ProjectStats, error)
}

type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (p *ProjectStore) List(ctx context.Context, filter *ProjectQueryFilter, opts *ProjectQueryOptions) (model.ProjectList, error) {
	var projects model.ProjectList
	tx := p.getDB(ctx).WithContext(ctx)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Model(&projects).Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

func (p *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project := &model.Project{}

	if err := p.getDB(ctx).WithContext(ctx).Where("id = ?", id).First(project).Error; err != nil {
		return nil, translateError(err)
	}

	return project, nil
}

func (p *ProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if err := p.getDB(ctx).WithContext(ctx).Create(&project).Error; err != nil {
		return nil, translateError(err)
	}

	return &project, nil
}

func (p *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.getDB(ctx).WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *ProjectStore) Statistics(ctx context.Context) (model.ProjectStats, error) {
	var rows []struct {
		BuildingType string
		Total        int64
		Cost         float64
	}
	err := p.getDB(ctx).WithContext(ctx).
		Model(&model.Project{}).
		Select("building_type, COUNT(*) AS total, COALESCE(SUM(total_cost), 0) AS cost").
		Group("building_type").
		Scan(&rows).Error
	if err != nil {
		return model.ProjectStats{}, err
	}

	stats := model.ProjectStats{
		TotalByBuildingType: make(map[string]int64, len(rows)),
		CostByBuildingType:  make(map[string]float64, len(rows)),
	}
	for _, r := range rows {
		stats.Total += r.Total
		stats.TotalByBuildingType[r.BuildingType] = r.Total
		stats.CostByBuildingType[r.BuildingType] = r.Cost
	}
	return stats, nil
}

func (p *ProjectStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
