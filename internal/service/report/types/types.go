package types

import (
	"github.com/firesafe/estimator/internal/estimation"
)

type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
	SupportedFormat() ReportFormat
}

type EstimateProcessor interface {
	ProcessEstimate(input EstimateInput) (*ReportData, error)
}

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatHTML ReportFormat = "html"
)

// ContentType is the media type served for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatCSV:
		return "text/csv; charset=utf-8"
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ReportFormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

type ReportOptions struct {
	Format         ReportFormat
	ProjectName    string
	IncludeSkipped bool
}

// EstimateInput is what the processor needs to describe one estimate.
type EstimateInput struct {
	Input   estimation.UserInput
	Package estimation.PackageType
	Result  estimation.Result
	Company *estimation.CompanyInfo
}

type ReportData struct {
	Title      string
	Building   BuildingSummary
	Company    estimation.CompanyInfo
	Lines      []LineDetail
	Skipped    []estimation.SkippedItem
	TotalCost  float64
	Total      string
	Options    ReportOptions
	Timestamps ReportTimestamps
}

type BuildingSummary struct {
	Type    string
	Label   string
	Package string
	// Facts lists the input figures as label/value pairs in display order.
	Facts [][2]string
}

type LineDetail struct {
	Index      int
	ID         string
	Name       string
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
	Unit       string
	Amount     string
	Note       string
}

type ReportTimestamps struct {
	Generated     string
	GeneratedTime string
}
