package report

import (
	"fmt"
	"time"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/service/report/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatVND prints an amount the way quotes are written, e.g. "1.890.000 ₫".
func FormatVND(v float64) string {
	return printer.Sprintf("%.0f ₫", v)
}

type StandardEstimateProcessor struct {
	now func() time.Time
}

func NewStandardEstimateProcessor() *StandardEstimateProcessor {
	return &StandardEstimateProcessor{now: time.Now}
}

func (p *StandardEstimateProcessor) ProcessEstimate(in types.EstimateInput) (*types.ReportData, error) {
	if !in.Input.BuildingType.Valid() {
		return nil, fmt.Errorf("unknown building type %q", in.Input.BuildingType)
	}

	company := estimation.DefaultCompanyInfo()
	if in.Company != nil {
		company = *in.Company
	}

	lines := make([]types.LineDetail, 0, len(in.Result.EquipmentList))
	for i, item := range in.Result.EquipmentList {
		lines = append(lines, types.LineDetail{
			Index:      i + 1,
			ID:         item.ID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Unit:       FormatVND(item.UnitPrice),
			Amount:     FormatVND(item.TotalPrice),
			Note:       item.Note,
		})
	}

	info := estimation.Info(in.Input.BuildingType)
	return &types.ReportData{
		Title: "FIRE SAFETY EQUIPMENT ESTIMATE",
		Building: types.BuildingSummary{
			Type:    string(in.Input.BuildingType),
			Label:   info.Label,
			Package: string(in.Package),
			Facts:   p.facts(in.Input),
		},
		Company:    company,
		Lines:      lines,
		Skipped:    in.Result.Skipped,
		TotalCost:  in.Result.TotalCost,
		Total:      FormatVND(in.Result.TotalCost),
		Timestamps: p.generateTimestamps(),
	}, nil
}

func (p *StandardEstimateProcessor) facts(in estimation.UserInput) [][2]string {
	facts := [][2]string{
		{"Floors", fmt.Sprintf("%d", in.Floors)},
		{"Total area (m²)", fmt.Sprintf("%.1f", in.TotalArea)},
	}
	switch in.BuildingType {
	case estimation.BuildingTypeWarehouse:
		facts = append(facts, [2]string{"Storage type", string(in.StorageType)})
	case estimation.BuildingTypeOffice:
		facts = append(facts,
			[2]string{"Rooms", fmt.Sprintf("%d", in.Rooms)},
			[2]string{"Kitchens / altar rooms", fmt.Sprintf("%d", in.KitchenAltar)},
			[2]string{"Occupancy density", string(in.OfficeDensity)},
		)
	default:
		facts = append(facts,
			[2]string{"Rooms", fmt.Sprintf("%d", in.Rooms)},
			[2]string{"Kitchens / altar rooms", fmt.Sprintf("%d", in.KitchenAltar)},
		)
	}
	if in.CeilingHeight != nil {
		facts = append(facts, [2]string{"Ceiling height (m)", fmt.Sprintf("%.1f", *in.CeilingHeight)})
	}
	return facts
}

func (p *StandardEstimateProcessor) generateTimestamps() types.ReportTimestamps {
	now := p.now()
	return types.ReportTimestamps{
		Generated:     now.Format("02/01/2006"),
		GeneratedTime: now.Format("15:04:05"),
	}
}
