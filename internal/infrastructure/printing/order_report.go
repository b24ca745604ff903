package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OrderReportData is the print-ready view of one vendor order: the header
// facts plus the normalized rectangular item table.
type OrderReportData struct {
	Vendor       string
	LocationName string
	BusinessDate time.Time
	ShiftNumber  int
	Fields       []string
	Rows         []OrderReportRow
	GeneratedAt  time.Time
}

// OrderReportRow is one table line with values in field order
type OrderReportRow struct {
	ItemName string
	Values   []decimal.Decimal
}

// Title returns the document title used in PDF metadata and the page header
func (d OrderReportData) Title() string {
	return d.Vendor + " Order - " + d.BusinessDate.Format("2006-01-02")
}

var fieldTitleCaser = cases.Title(language.AmericanEnglish)

// FieldLabel turns a quantity field name into a printable column header,
// e.g. "yesterday_order" becomes "Yesterday Order" and "boh" stays "BOH".
func FieldLabel(field string) string {
	if field == "boh" {
		return "BOH"
	}
	return fieldTitleCaser.String(strings.ReplaceAll(field, "_", " "))
}

var orderReportTemplate = template.Must(template.New("order_report").Funcs(template.FuncMap{
	"label": FieldLabel,
}).Parse(`<div class="report">
  <style>
    .report { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; }
    .report h1 { font-size: 18px; margin-bottom: 2px; }
    .report .meta { font-size: 11px; color: #555; margin-bottom: 14px; }
    .report table { width: 100%; border-collapse: collapse; font-size: 12px; }
    .report th, .report td { border: 1px solid #bbb; padding: 5px 8px; text-align: right; }
    .report th { background: #efefef; }
    .report th.item, .report td.item { text-align: left; }
    .report .footer { font-size: 10px; color: #888; margin-top: 12px; }
  </style>
  <h1>{{.Vendor}} Order</h1>
  <div class="meta">
    {{if .LocationName}}{{.LocationName}} &middot; {{end}}{{.BusinessDate.Format "Monday, January 2, 2006"}} &middot; Shift {{.ShiftNumber}}
  </div>
  <table>
    <thead>
      <tr>
        <th class="item">Item</th>
        {{range .Fields}}<th>{{label .}}</th>{{end}}
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}<tr>
        <td class="item">{{.ItemName}}</td>
        {{range .Values}}<td>{{.}}</td>{{end}}
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="footer">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</div>
</div>`))

// BuildOrderReportHTML renders the report table to an HTML fragment suitable
// for RenderHTML.
func BuildOrderReportHTML(data OrderReportData) (string, error) {
	var buf bytes.Buffer
	if err := orderReportTemplate.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeInvalidReport, "failed to render report template", err)
	}
	return buf.String(), nil
}
