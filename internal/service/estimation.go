package service

import (
	"context"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/estimation/policies"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/firesafe/estimator/pkg/metrics"
)

// EstimateForm is a parsed estimate request. Config, when set, replaces the
// stored configuration for this request only.
type EstimateForm struct {
	Input   estimation.UserInput
	Package estimation.PackageType
	Config  *estimation.Configuration
}

// EstimationResult is the engine result together with what it was computed from.
type EstimationResult struct {
	Input            estimation.UserInput
	Package          estimation.PackageType
	RequestedPackage estimation.PackageType
	Result           estimation.Result
	Configuration    estimation.Configuration
}

// PackageCoerced reports whether the requested package was replaced because
// it does not apply to the building type.
func (r EstimationResult) PackageCoerced() bool {
	return r.Package != r.RequestedPackage
}

// PackageEstimate is one row of a package comparison.
type PackageEstimate struct {
	Package estimation.PackageType `json:"packageType"`
	Result  estimation.Result      `json:"result"`
}

// EstimationService resolves the configuration for a request, applies the
// package applicability table and runs the estimation engine.
type EstimationService struct {
	configSrv      *ConfigurationService
	engine         *estimation.Engine
	defaultPackage estimation.PackageType
	logger         *log.StructuredLogger
}

// NewEstimationService creates an EstimationService with the default set of policies registered.
func NewEstimationService(configSrv *ConfigurationService, defaultPackage estimation.PackageType) *EstimationService {
	if !defaultPackage.Valid() {
		defaultPackage = estimation.PackageSmart
	}
	return &EstimationService{
		configSrv:      configSrv,
		engine:         policies.Default(),
		defaultPackage: defaultPackage,
		logger:         log.NewDebugLogger("estimation_service"),
	}
}

func (es *EstimationService) Estimate(ctx context.Context, form EstimateForm) (*EstimationResult, error) {
	input := form.Input.Normalize()
	requested := form.Package
	if !requested.Valid() {
		requested = es.defaultPackage
	}

	tracer := es.logger.WithContext(ctx).Operation("estimate").
		WithString("building_type", string(input.BuildingType)).
		WithString("package", string(requested)).
		Build()

	cfg, err := es.resolveConfiguration(ctx, form.Config)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	pkg, ok := estimation.ResolvePackage(input.BuildingType, requested)
	if !ok {
		tracer.Step("package_coerced").
			WithString("requested", string(requested)).
			WithString("applied", string(pkg)).
			Log()
		metrics.IncreasePackageCoercedMetric(string(input.BuildingType), string(requested))
	}

	result := es.engine.Estimate(input, pkg, cfg)

	metrics.IncreaseEstimatesTotalMetric(string(input.BuildingType), string(pkg))
	metrics.ObserveEstimateCost(string(input.BuildingType), result.TotalCost)

	tracer.Success().
		WithInt("items", len(result.EquipmentList)).
		WithInt("skipped", len(result.Skipped)).
		WithFloat("total_cost", result.TotalCost).
		Log()

	return &EstimationResult{
		Input:            input,
		Package:          pkg,
		RequestedPackage: requested,
		Result:           result,
		Configuration:    cfg,
	}, nil
}

// Compare estimates the input once for every package applicable to its building type,
// from the lowest tier to the highest.
func (es *EstimationService) Compare(ctx context.Context, input estimation.UserInput, override *estimation.Configuration) ([]PackageEstimate, error) {
	input = input.Normalize()
	tracer := es.logger.WithContext(ctx).Operation("compare_packages").
		WithString("building_type", string(input.BuildingType)).
		Build()

	cfg, err := es.resolveConfiguration(ctx, override)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	packages := estimation.ApplicablePackages(input.BuildingType)
	res := make([]PackageEstimate, 0, len(packages))
	for _, pkg := range packages {
		res = append(res, PackageEstimate{Package: pkg, Result: es.engine.Estimate(input, pkg, cfg)})
	}

	tracer.Success().WithInt("packages", len(res)).Log()
	return res, nil
}

// resolveConfiguration migrates and checks a per-request configuration, or loads the stored one.
// Entries with unknown methods are kept and end up in the skipped list of the result.
func (es *EstimationService) resolveConfiguration(ctx context.Context, override *estimation.Configuration) (estimation.Configuration, error) {
	if override == nil {
		return es.configSrv.Get(ctx)
	}
	cfg := estimation.Migrate(*override)
	if err := estimation.ValidateOverride(cfg); err != nil {
		return estimation.Configuration{}, NewErrInvalidConfiguration(err)
	}
	return cfg, nil
}
