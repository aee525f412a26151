package xlsx

import (
	"bytes"
	"fmt"

	"github.com/firesafe/estimator/internal/service/report/types"
	"github.com/xuri/excelize/v2"
)

const (
	quoteSheet   = "Estimate"
	skippedSheet = "Not included"
	moneyFormat  = `#,##0 "₫"`
)

var headers = []string{"#", "ID", "Equipment", "Quantity", "Unit price", "Total", "Note"}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", quoteSheet); err != nil {
		return nil, err
	}

	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(moneyFormat)})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: quoteSheet, row: 1}
	w.write(data.Title)
	_ = f.SetCellStyle(quoteSheet, "A1", "A1", bold)
	w.write(fmt.Sprintf("Generated: %s at %s", data.Timestamps.Generated, data.Timestamps.GeneratedTime))
	if data.Options.ProjectName != "" {
		w.write("Project", data.Options.ProjectName)
	}
	w.write("Supplier", data.Company.Name)
	w.write("Phone", data.Company.Phone)
	w.write("Building type", data.Building.Label)
	w.write("Package", data.Building.Package)
	for _, fact := range data.Building.Facts {
		w.write(fact[0], fact[1])
	}
	w.row++

	headerRow := w.row
	w.write(toAny(headers)...)
	if err := w.styleRow(headerRow, len(headers), bold); err != nil {
		return nil, err
	}

	firstLine := w.row
	for _, line := range data.Lines {
		w.write(line.Index, line.ID, line.Name, line.Quantity, line.UnitPrice, line.TotalPrice, line.Note)
	}

	totalRow := w.row
	w.write("", "", "TOTAL")
	totalCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	if err := f.SetCellValue(quoteSheet, totalCell, data.TotalCost); err != nil {
		return nil, err
	}
	if err := w.styleRow(totalRow, len(headers), bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(quoteSheet, fmt.Sprintf("E%d", firstLine), fmt.Sprintf("F%d", totalRow), money); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(quoteSheet, "C", "C", 36)
	_ = f.SetColWidth(quoteSheet, "E", "F", 16)
	_ = f.SetColWidth(quoteSheet, "G", "G", 60)

	if data.Options.IncludeSkipped && len(data.Skipped) > 0 {
		if _, err := f.NewSheet(skippedSheet); err != nil {
			return nil, err
		}
		sw := &sheetWriter{f: f, sheet: skippedSheet, row: 1}
		sw.write("ID", "Equipment", "Reason")
		for _, s := range data.Skipped {
			sw.write(s.ID, s.Name, s.Note)
		}
		if sw.err != nil {
			return nil, sw.err
		}
	}

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) write(values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.row++
}

func (w *sheetWriter) styleRow(row, cols, style int) error {
	from, _ := excelize.CoordinatesToCellName(1, row)
	to, _ := excelize.CoordinatesToCellName(cols, row)
	return w.f.SetCellStyle(w.sheet, from, to, style)
}

func toAny(values []string) []any {
	res := make([]any, len(values))
	for i, v := range values {
		res[i] = v
	}
	return res
}

func strPtr(s string) *string {
	return &s
}
