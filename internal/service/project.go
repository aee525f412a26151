package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/internal/store/model"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/google/uuid"
)

type ProjectFilter struct {
	BuildingType string
	Name         string
	Limit        int
}

// ProjectService stores estimates so they can be reopened and exported later.
type ProjectService struct {
	store         store.Store
	estimationSrv *EstimationService
	maxLimit      int
	logger        *log.StructuredLogger
}

func NewProjectService(s store.Store, estimationSrv *EstimationService, maxLimit int) *ProjectService {
	return &ProjectService{
		store:         s,
		estimationSrv: estimationSrv,
		maxLimit:      maxLimit,
		logger:        log.NewDebugLogger("project_service"),
	}
}

// Save estimates form and stores the input and the result under name.
func (p *ProjectService) Save(ctx context.Context, name string, form EstimateForm) (*model.Project, error) {
	name = strings.TrimSpace(name)
	tracer := p.logger.WithContext(ctx).Operation("save_project").
		WithString("name", name).
		Build()

	estimate, err := p.estimationSrv.Estimate(ctx, form)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("%s estimate", estimation.Info(estimate.Input.BuildingType).Label)
	}

	project, err := p.store.Project().Create(ctx, model.NewProject(name, estimate.Input, estimate.Package, estimate.Result))
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	tracer.Success().WithUUID("project_id", project.ID).WithFloat("total_cost", project.TotalCost).Log()
	return project, nil
}

func (p *ProjectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := p.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List returns the newest projects first.
func (p *ProjectService) List(ctx context.Context, filter ProjectFilter) (model.ProjectList, error) {
	tracer := p.logger.WithContext(ctx).Operation("list_projects").
		WithString("building_type", filter.BuildingType).
		WithString("name", filter.Name).
		Build()

	qf := store.NewProjectQueryFilter()
	if filter.BuildingType != "" {
		qf = qf.ByBuildingType(filter.BuildingType)
	}
	if filter.Name != "" {
		qf = qf.ByNameLike(filter.Name)
	}

	limit := filter.Limit
	if limit <= 0 || (p.maxLimit > 0 && limit > p.maxLimit) {
		limit = p.maxLimit
	}

	projects, err := p.store.Project().List(ctx, qf, store.NewProjectQueryOptions().
		WithSortOrder(store.SortByCreatedTimeDesc).
		WithLimit(limit))
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tracer.Success().WithInt("count", len(projects)).Log()
	return projects, nil
}

func (p *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	tracer := p.logger.WithContext(ctx).Operation("delete_project").WithUUID("project_id", id).Build()

	if err := p.store.Project().Delete(ctx, id); err != nil {
		tracer.Error(err).Log()
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrProjectNotFound(id)
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	tracer.Success().Log()
	return nil
}

// Estimate rebuilds the EstimationResult of a saved project for exports.
func (p *ProjectService) Estimate(project *model.Project) *EstimationResult {
	res := &EstimationResult{
		Package:          estimation.PackageType(project.PackageType),
		RequestedPackage: estimation.PackageType(project.PackageType),
	}
	if project.Input != nil {
		res.Input = project.Input.Data
	}
	if project.Result != nil {
		res.Result = project.Result.Data
	}
	return res
}
