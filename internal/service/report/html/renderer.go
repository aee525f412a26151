package html

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/firesafe/estimator/internal/service/report/types"
)

// Renderer produces a printable quote page.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("quote").Parse(quoteTemplate))}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatHTML
}

func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, struct {
		*types.ReportData
		CSS template.CSS
	}{data, quoteCSS}); err != nil {
		return nil, fmt.Errorf("failed to execute quote template: %w", err)
	}
	return buf.Bytes(), nil
}

const quoteCSS = `
body { font-family: Arial, Helvetica, sans-serif; color: #1f2933; margin: 32px; }
header { display: flex; justify-content: space-between; border-bottom: 3px solid #c81e1e; padding-bottom: 12px; }
header img { max-height: 64px; }
h1 { color: #c81e1e; font-size: 22px; margin: 24px 0 8px; }
table { border-collapse: collapse; width: 100%; margin-top: 12px; }
th, td { border: 1px solid #d2d6dc; padding: 6px 8px; font-size: 13px; vertical-align: top; }
th { background: #f4f5f7; text-align: left; }
td.num { text-align: right; white-space: nowrap; }
tr.total td { font-weight: bold; background: #fdf2f2; }
.facts td:first-child { width: 220px; color: #52606d; }
.note { color: #52606d; font-size: 12px; }
@media print { body { margin: 0; } }
`

const quoteTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<header>
  <div>
    {{if .Company.LogoURL}}<img src="{{.Company.LogoURL}}" alt="{{.Company.Name}}">{{end}}
    <strong>{{.Company.Name}}</strong><br>
    {{.Company.Phone}}{{if .Company.Email}} · {{.Company.Email}}{{end}}
    {{if .Company.Address}}<br>{{.Company.Address}}{{end}}
  </div>
  <div>{{.Timestamps.Generated}} {{.Timestamps.GeneratedTime}}</div>
</header>

<h1>{{.Title}}</h1>
{{if .Options.ProjectName}}<p>Project: <strong>{{.Options.ProjectName}}</strong></p>{{end}}

<table class="facts">
  <tr><td>Building type</td><td>{{.Building.Label}}</td></tr>
  <tr><td>Package</td><td>{{.Building.Package}}</td></tr>
  {{range .Building.Facts}}<tr><td>{{index . 0}}</td><td>{{index . 1}}</td></tr>
  {{end}}
</table>

<table>
  <tr><th>#</th><th>Equipment</th><th>Quantity</th><th>Unit price</th><th>Total</th></tr>
  {{range .Lines}}<tr>
    <td>{{.Index}}</td>
    <td>{{.Name}}<div class="note">{{.Note}}</div></td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">{{.Unit}}</td>
    <td class="num">{{.Amount}}</td>
  </tr>
  {{else}}<tr><td colspan="5">No equipment required.</td></tr>
  {{end}}
  <tr class="total"><td colspan="4">TOTAL</td><td class="num">{{.Total}}</td></tr>
</table>

{{if and .Options.IncludeSkipped .Skipped}}
<h1>Not included</h1>
<table>
  <tr><th>Equipment</th><th>Reason</th></tr>
  {{range .Skipped}}<tr><td>{{.Name}}</td><td>{{.Note}}</td></tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`
