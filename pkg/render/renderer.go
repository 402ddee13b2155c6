package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Line is one row of the financial table: a budget line with the actual
// amount spent against it.
type Line struct {
	Name       string
	Budgeted   decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal
	Comments   string
}

// Document is the renderer-facing view of an event report. Both backends
// consume the same document and must produce semantically identical output.
type Document struct {
	EventName      string
	EventDate      time.Time
	Location       string
	OrganizerName  string
	Capacity       *int
	Interested     int
	NotInterested  int
	Attendance     int
	AttendanceRate *float64

	Lines         []Line
	TotalBudgeted decimal.Decimal
	TotalActual   decimal.Decimal
	Savings       decimal.Decimal

	Feedback    string
	ReportDate  time.Time
	GeneratedBy string
	GeneratedAt time.Time
}

// DocumentRenderer turns a report document into distributable bytes. The
// backend is selected once at startup, not re-probed per request.
type DocumentRenderer interface {
	Render(doc Document) ([]byte, error)
	MIMEType() string
	Extension() string
}

// Backend names accepted by Select.
const (
	BackendPDF  = "pdf"
	BackendHTML = "html"
)

// Select returns the renderer for the configured backend name.
func Select(backend, currencyPrefix string) (DocumentRenderer, error) {
	switch backend {
	case BackendPDF:
		return NewPDFRenderer(currencyPrefix), nil
	case BackendHTML:
		return NewHTMLRenderer(currencyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown render backend %q", backend)
	}
}

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename builds the download name for a rendered report:
// Event_Report_<sanitized event name>_<report date>.<ext>. Sanitization
// strips everything except alphanumerics, underscore, and hyphen.
func Filename(eventName string, reportDate time.Time, ext string) string {
	sanitized := strings.Trim(filenameSanitizer.ReplaceAllString(eventName, "_"), "_")
	if sanitized == "" {
		sanitized = "Event"
	}
	return fmt.Sprintf("Event_Report_%s_%s.%s", sanitized, reportDate.Format("2006-01-02"), ext)
}

// money formats an amount with the fixed currency prefix and exactly two
// decimal places.
func money(prefix string, amount decimal.Decimal) string {
	return prefix + amount.StringFixed(2)
}

// rate renders an attendance rate percentage with one decimal place, or a
// dash when the rate is unset (no usable capacity).
func rate(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *r*100)
}
