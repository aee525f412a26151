package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/firesafe/estimator/internal/service/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

// Render writes the quote as sections separated by blank rows. Amounts are
// written as plain numbers so the file can be summed in a spreadsheet.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{data.Title})
	csvRows = append(csvRows, []string{fmt.Sprintf("Generated: %s at %s",
		data.Timestamps.Generated, data.Timestamps.GeneratedTime)})
	if data.Options.ProjectName != "" {
		csvRows = append(csvRows, []string{"Project", data.Options.ProjectName})
	}
	csvRows = append(csvRows, []string{""})

	csvRows = r.addCompany(csvRows, data)
	csvRows = r.addBuilding(csvRows, data.Building)
	csvRows = r.addEquipment(csvRows, data)

	if data.Options.IncludeSkipped && len(data.Skipped) > 0 {
		csvRows = r.addSkipped(csvRows, data)
	}

	return r.convertRowsToCSV(csvRows)
}

func (r *Renderer) addCompany(csvRows [][]string, data *types.ReportData) [][]string {
	csvRows = append(csvRows, []string{"SUPPLIER"})
	csvRows = append(csvRows, []string{"Name", data.Company.Name})
	csvRows = append(csvRows, []string{"Phone", data.Company.Phone})
	if data.Company.Email != "" {
		csvRows = append(csvRows, []string{"Email", data.Company.Email})
	}
	if data.Company.Address != "" {
		csvRows = append(csvRows, []string{"Address", data.Company.Address})
	}
	csvRows = append(csvRows, []string{""})
	return csvRows
}

func (r *Renderer) addBuilding(csvRows [][]string, building types.BuildingSummary) [][]string {
	csvRows = append(csvRows, []string{"BUILDING"})
	csvRows = append(csvRows, []string{"Building type", building.Label})
	csvRows = append(csvRows, []string{"Package", building.Package})
	for _, fact := range building.Facts {
		csvRows = append(csvRows, []string{fact[0], fact[1]})
	}
	csvRows = append(csvRows, []string{""})
	return csvRows
}

func (r *Renderer) addEquipment(csvRows [][]string, data *types.ReportData) [][]string {
	csvRows = append(csvRows, []string{"EQUIPMENT"})
	csvRows = append(csvRows, []string{"#", "ID", "Equipment", "Quantity", "Unit price", "Total", "Note"})
	for _, line := range data.Lines {
		csvRows = append(csvRows, []string{
			strconv.Itoa(line.Index),
			line.ID,
			line.Name,
			strconv.Itoa(line.Quantity),
			formatAmount(line.UnitPrice),
			formatAmount(line.TotalPrice),
			line.Note,
		})
	}
	csvRows = append(csvRows, []string{"", "", "TOTAL", "", "", formatAmount(data.TotalCost), ""})
	csvRows = append(csvRows, []string{""})
	return csvRows
}

func (r *Renderer) addSkipped(csvRows [][]string, data *types.ReportData) [][]string {
	csvRows = append(csvRows, []string{"NOT INCLUDED"})
	csvRows = append(csvRows, []string{"ID", "Equipment", "Reason"})
	for _, s := range data.Skipped {
		csvRows = append(csvRows, []string{s.ID, s.Name, s.Note})
	}
	csvRows = append(csvRows, []string{""})
	return csvRows
}

func (r *Renderer) convertRowsToCSV(csvRows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
