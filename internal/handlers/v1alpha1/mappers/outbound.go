package mappers

import (
	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/internal/store/model"
)

func EstimateToApi(res *service.EstimationResult) v1alpha1.EstimateResponse {
	resp := v1alpha1.EstimateResponse{
		PackageType:   res.Package,
		Input:         res.Input,
		TotalCost:     res.Result.TotalCost,
		EquipmentList: nonNilLines(res.Result.EquipmentList),
		Skipped:       res.Result.Skipped,
	}
	if res.PackageCoerced() {
		requested := res.RequestedPackage
		resp.RequestedPackageType = &requested
	}
	return resp
}

func PackageEstimatesToApi(estimates []service.PackageEstimate) []v1alpha1.PackageEstimate {
	res := make([]v1alpha1.PackageEstimate, 0, len(estimates))
	for _, e := range estimates {
		res = append(res, v1alpha1.PackageEstimate{
			PackageType:   e.Package,
			TotalCost:     e.Result.TotalCost,
			EquipmentList: nonNilLines(e.Result.EquipmentList),
		})
	}
	return res
}

func ProjectToApi(p model.Project) v1alpha1.Project {
	res := v1alpha1.Project{
		Id:           p.ID,
		Name:         p.Name,
		BuildingType: p.BuildingType,
		PackageType:  p.PackageType,
		TotalCost:    p.TotalCost,
		CreatedAt:    p.CreatedAt,
	}
	if p.Input != nil {
		res.Input = p.Input.Data
	}
	if p.Result != nil {
		res.Result = p.Result.Data
		res.Result.EquipmentList = nonNilLines(res.Result.EquipmentList)
	}
	return res
}

func ProjectListToApi(projects model.ProjectList) v1alpha1.ProjectList {
	res := make(v1alpha1.ProjectList, 0, len(projects))
	for _, p := range projects {
		res = append(res, ProjectToApi(p))
	}
	return res
}

// nonNilLines keeps empty estimates serialized as [] rather than null.
func nonNilLines(lines []estimation.LineItem) []estimation.LineItem {
	if lines == nil {
		return []estimation.LineItem{}
	}
	return lines
}
