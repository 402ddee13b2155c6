package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer produces the rich paginated report document.
type PDFRenderer struct {
	currencyPrefix string
}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer(currencyPrefix string) *PDFRenderer {
	return &PDFRenderer{currencyPrefix: currencyPrefix}
}

// MIMEType implements DocumentRenderer.
func (r *PDFRenderer) MIMEType() string { return "application/pdf" }

// Extension implements DocumentRenderer.
func (r *PDFRenderer) Extension() string { return "pdf" }

// Render lays out the report: event header, participation block, financial
// table with over/under colouring, totals, feedback, generation footer.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "EVENT REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(doc.EventName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	meta := fmt.Sprintf("%s | %s", doc.EventDate.Format("02 Jan 2006"), doc.Location)
	pdf.CellFormat(0, 6, tr(meta), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Organized by "+doc.OrganizerName), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Participation", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Interested RSVPs: %d", doc.Interested), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Not interested RSVPs: %d", doc.NotInterested), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Attendance: %d", doc.Attendance), "", 1, "", false, 0, "")
	if doc.AttendanceRate != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Attendance rate: %s", rate(doc.AttendanceRate)), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Financials", "", 1, "", false, 0, "")

	widths := []float64{66, 40, 40, 40}
	headers := []string{"Cost Item", "Budgeted", "Actual", "Difference"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.Lines {
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(widths[0], 7, tr(line.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(money(r.currencyPrefix, line.Budgeted)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(money(r.currencyPrefix, line.Actual)), "1", 0, "R", false, 0, "")
		if line.Difference.IsNegative() {
			pdf.SetTextColor(180, 30, 30)
		} else {
			pdf.SetTextColor(30, 120, 30)
		}
		pdf.CellFormat(widths[3], 7, tr(money(r.currencyPrefix, line.Difference)), "1", 1, "R", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0], 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(widths[1], 8, tr(money(r.currencyPrefix, doc.TotalBudgeted)), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[2], 8, tr(money(r.currencyPrefix, doc.TotalActual)), "1", 0, "R", false, 0, "")
	if doc.Savings.IsNegative() {
		pdf.SetTextColor(180, 30, 30)
	} else {
		pdf.SetTextColor(30, 120, 30)
	}
	pdf.CellFormat(widths[3], 8, tr(money(r.currencyPrefix, doc.Savings)), "1", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "General Feedback", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(doc.Feedback), "", "", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 8)
	footer := fmt.Sprintf("Report dated %s. Generated by %s on %s.",
		doc.ReportDate.Format("02 Jan 2006"),
		doc.GeneratedBy,
		doc.GeneratedAt.Format("02 Jan 2006 15:04"),
	)
	pdf.CellFormat(0, 5, tr(footer), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
