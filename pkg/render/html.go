package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

// HTMLRenderer is the fallback backend, used when PDF generation is not
// wanted. html/template escapes every user-supplied field, so feedback and
// event names cannot inject markup into the document.
type HTMLRenderer struct {
	currencyPrefix string
	tmpl           *template.Template
}

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Event Report - {{.EventName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { text-align: center; }
.meta { text-align: center; color: #555; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #999; padding: 6px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
th { background: #ebebeb; }
.over { color: #b41e1e; }
.under { color: #1e781e; }
.totals td { font-weight: bold; }
.footer { font-size: 0.8em; font-style: italic; color: #666; }
</style>
</head>
<body>
<h1>EVENT REPORT</h1>
<h2 class="meta">{{.EventName}}</h2>
<p class="meta">{{.EventDate}} | {{.Location}}<br>Organized by {{.Organizer}}</p>

<h3>Participation</h3>
<ul>
<li>Interested RSVPs: {{.Interested}}</li>
<li>Not interested RSVPs: {{.NotInterested}}</li>
<li>Attendance: {{.Attendance}}</li>
{{if .HasRate}}<li>Attendance rate: {{.Rate}}</li>{{end}}
</ul>

<h3>Financials</h3>
<table>
<tr><th>Cost Item</th><th>Budgeted</th><th>Actual</th><th>Difference</th></tr>
{{range .Lines}}
<tr><td>{{.Name}}</td><td>{{.Budgeted}}</td><td>{{.Actual}}</td><td class="{{.Tag}}">{{.Difference}}</td></tr>
{{end}}
<tr class="totals"><td>Total</td><td>{{.TotalBudgeted}}</td><td>{{.TotalActual}}</td><td class="{{.SavingsTag}}">{{.Savings}}</td></tr>
</table>

<h3>General Feedback</h3>
<p>{{.Feedback}}</p>

<p class="footer">Report dated {{.ReportDate}}. Generated by {{.GeneratedBy}} on {{.GeneratedAt}}.</p>
</body>
</html>
`

// NewHTMLRenderer constructs an HTML renderer.
func NewHTMLRenderer(currencyPrefix string) *HTMLRenderer {
	return &HTMLRenderer{
		currencyPrefix: currencyPrefix,
		tmpl:           template.Must(template.New("report").Parse(htmlReportTemplate)),
	}
}

// MIMEType implements DocumentRenderer.
func (r *HTMLRenderer) MIMEType() string { return "text/html; charset=utf-8" }

// Extension implements DocumentRenderer.
func (r *HTMLRenderer) Extension() string { return "html" }

type htmlLine struct {
	Name       string
	Budgeted   string
	Actual     string
	Difference string
	Tag        string
}

type htmlView struct {
	EventName     string
	EventDate     string
	Location      string
	Organizer     string
	Interested    int
	NotInterested int
	Attendance    int
	HasRate       bool
	Rate          string
	Lines         []htmlLine
	TotalBudgeted string
	TotalActual   string
	Savings       string
	SavingsTag    string
	Feedback      string
	ReportDate    string
	GeneratedBy   string
	GeneratedAt   string
}

// Render implements DocumentRenderer.
func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	view := htmlView{
		EventName:     doc.EventName,
		EventDate:     doc.EventDate.Format("02 Jan 2006"),
		Location:      doc.Location,
		Organizer:     doc.OrganizerName,
		Interested:    doc.Interested,
		NotInterested: doc.NotInterested,
		Attendance:    doc.Attendance,
		HasRate:       doc.AttendanceRate != nil,
		Rate:          rate(doc.AttendanceRate),
		TotalBudgeted: money(r.currencyPrefix, doc.TotalBudgeted),
		TotalActual:   money(r.currencyPrefix, doc.TotalActual),
		Savings:       money(r.currencyPrefix, doc.Savings),
		SavingsTag:    overUnderTag(doc.Savings),
		Feedback:      doc.Feedback,
		ReportDate:    doc.ReportDate.Format("02 Jan 2006"),
		GeneratedBy:   doc.GeneratedBy,
		GeneratedAt:   doc.GeneratedAt.Format("02 Jan 2006 15:04"),
	}
	for _, line := range doc.Lines {
		view.Lines = append(view.Lines, htmlLine{
			Name:       line.Name,
			Budgeted:   money(r.currencyPrefix, line.Budgeted),
			Actual:     money(r.currencyPrefix, line.Actual),
			Difference: money(r.currencyPrefix, line.Difference),
			Tag:        overUnderTag(line.Difference),
		})
	}

	buf := &bytes.Buffer{}
	if err := r.tmpl.Execute(buf, view); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func overUnderTag(difference decimal.Decimal) string {
	if difference.IsNegative() {
		return "over"
	}
	return "under"
}

var (
	_ DocumentRenderer = (*PDFRenderer)(nil)
	_ DocumentRenderer = (*HTMLRenderer)(nil)
)
