package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	capacity := 50
	attendanceRate := 0.36
	return Document{
		EventName:      "Tech Talk",
		EventDate:      time.Date(2024, 2, 28, 18, 0, 0, 0, time.UTC),
		Location:       "Main Hall",
		OrganizerName:  "Asha Verma",
		Capacity:       &capacity,
		Interested:     20,
		NotInterested:  5,
		Attendance:     18,
		AttendanceRate: &attendanceRate,
		Lines: []Line{
			{Name: "Venue", Budgeted: decimal.NewFromInt(200), Actual: decimal.NewFromInt(180), Difference: decimal.NewFromInt(20)},
			{Name: "Catering", Budgeted: decimal.NewFromInt(150), Actual: decimal.NewFromInt(150), Difference: decimal.Zero},
			{Name: "Prizes", Budgeted: decimal.NewFromInt(50), Actual: decimal.Zero, Difference: decimal.NewFromInt(50)},
		},
		TotalBudgeted: decimal.NewFromInt(400),
		TotalActual:   decimal.NewFromInt(330),
		Savings:       decimal.NewFromInt(70),
		Feedback:      "Great turnout, projector issues in the first half.",
		ReportDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		GeneratedBy:   "Asha Verma",
		GeneratedAt:   time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestSelectBackends(t *testing.T) {
	pdf, err := Select(BackendPDF, "Rs. ")
	require.NoError(t, err)
	require.Equal(t, "application/pdf", pdf.MIMEType())
	require.Equal(t, "pdf", pdf.Extension())

	html, err := Select(BackendHTML, "Rs. ")
	require.NoError(t, err)
	require.Equal(t, "html", html.Extension())

	_, err = Select("docx", "Rs. ")
	require.Error(t, err)
}

func TestFilenameSanitization(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Event_Report_Tech_Talk_2024-03-01.pdf", Filename("Tech Talk", date, "pdf"))
	require.Equal(t, "Event_Report_Fresher_s_Night_50_off_2024-03-01.html", Filename("Fresher's Night: 50% off!", date, "html"))
}

func TestPDFRendererProducesDocument(t *testing.T) {
	renderer := NewPDFRenderer("Rs. ")
	data, err := renderer.Render(sampleDocument())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestHTMLRendererContent(t *testing.T) {
	renderer := NewHTMLRenderer("Rs. ")
	data, err := renderer.Render(sampleDocument())
	require.NoError(t, err)

	body := string(data)
	require.Contains(t, body, "Tech Talk")
	require.Contains(t, body, "Interested RSVPs: 20")
	require.Contains(t, body, "Attendance rate: 36.0%")
	require.Contains(t, body, "Rs. 400.00")
	require.Contains(t, body, "Rs. 330.00")
	require.Contains(t, body, "Rs. 70.00")
	require.Contains(t, body, `class="under"`)
}

func TestHTMLRendererEscapesUserText(t *testing.T) {
	doc := sampleDocument()
	doc.Feedback = `<script>alert("x")</script>`
	doc.EventName = `Gala <b>Night</b>`

	renderer := NewHTMLRenderer("Rs. ")
	data, err := renderer.Render(doc)
	require.NoError(t, err)

	body := string(data)
	require.NotContains(t, body, "<script>")
	require.NotContains(t, body, "<b>Night</b>")
	require.Contains(t, body, "&lt;script&gt;")
}

func TestHTMLRendererOverspendTag(t *testing.T) {
	doc := sampleDocument()
	doc.Lines = []Line{{Name: "Venue", Budgeted: decimal.NewFromInt(100), Actual: decimal.NewFromInt(130), Difference: decimal.NewFromInt(-30)}}
	doc.TotalBudgeted = decimal.NewFromInt(100)
	doc.TotalActual = decimal.NewFromInt(130)
	doc.Savings = decimal.NewFromInt(-30)

	renderer := NewHTMLRenderer("Rs. ")
	data, err := renderer.Render(doc)
	require.NoError(t, err)
	require.Contains(t, string(data), `class="over"`)
	require.Contains(t, string(data), "Rs. -30.00")
}
