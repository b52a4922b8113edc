package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 190.0
	notAvailable = "n/a"
)

var (
	headerColor       = [3]int{40, 40, 40}
	headerTextColor   = [3]int{255, 255, 255}
	sectionTitleColor = [3]int{0, 0, 0}
	bodyTextColor     = [3]int{50, 50, 50}
	lineColor         = [3]int{200, 200, 200}
	zebraColor        = [3]int{245, 245, 245}
	barColor          = [3]int{52, 101, 164}
)

// ExportToPDF gera o dashboard para os stakeholders: indicadores principais,
// tabelas mensais e anuais, mix de tipos de mensagem e a comparação de churn.
func (r *ExportRepositoryImpl) ExportToPDF(report *entity.Report, target types.OutputTarget) (string, error) {
	outputFilename, err := generateFilename(baseName(target.Prefix, dashboardBaseName), target, "pdf", stampOf(report))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := stampOf(report)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by SMS KPI Dashboard (Go) | %s", generated.Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  SMS Revenue KPI Dashboard"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	subtitle := fmt.Sprintf("  Window: %s   |   Generated: %s", report.Window, generated.Format(time.RFC1123))
	pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	drawHeadline(pdf, tr, report.KPIs.Headline)

	drawSectionTitle(pdf, "Monthly KPIs")
	monthlyRows := make([][]string, 0, len(report.KPIs.Monthly))
	for _, m := range report.KPIs.Monthly {
		monthlyRows = append(monthlyRows, []string{
			m.Month.String(),
			strconv.Itoa(m.ActiveClients),
			formatInt(m.TotalSMS),
			fmt.Sprintf("%.2f", m.TotalRevenue),
			formatRatio(m.RevenuePerSMS),
			formatInt(m.TotalAppointments),
		})
	}
	drawTable(pdf, tr,
		[]float64{30, 28, 32, 36, 32, 32},
		[]string{"Month", "Clients", "SMS", "Revenue", "Revenue/SMS", "Appointments"},
		monthlyRows)

	drawSectionTitle(pdf, "Monthly SMS Volume")
	drawBars(pdf, tr, report.KPIs.Monthly)

	drawSectionTitle(pdf, "Year over Year")
	yearlyRows := make([][]string, 0, len(report.KPIs.Yearly))
	for _, y := range report.KPIs.Yearly {
		yearlyRows = append(yearlyRows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Months),
			formatInt(y.TotalSMS),
			fmt.Sprintf("%.2f", y.TotalRevenue),
			formatRatio(y.RevenuePerSMS),
			formatChange(y.SMSChange),
			formatChange(y.RevenueChange),
		})
	}
	drawTable(pdf, tr,
		[]float64{20, 18, 30, 32, 30, 30, 30},
		[]string{"Year", "Months", "SMS", "Revenue", "Revenue/SMS", "SMS YoY", "Revenue YoY"},
		yearlyRows)

	drawSectionTitle(pdf, "Top Message Types")
	typeRows := make([][]string, 0, len(report.KPIs.TopMessageTypes))
	for i, t := range report.KPIs.TopMessageTypes {
		typeRows = append(typeRows, []string{
			strconv.Itoa(i + 1),
			t.MessageType,
			formatInt(t.SMSCount),
			formatShare(t.Share),
		})
	}
	drawTable(pdf, tr,
		[]float64{15, 85, 45, 45},
		[]string{"#", "Message Type", "SMS", "Share"},
		typeRows)

	drawSectionTitle(pdf, "Churned vs Retained")
	summaryRows := make([][]string, 0, len(report.KPIs.ChurnSummary))
	for _, c := range report.KPIs.ChurnSummary {
		summaryRows = append(summaryRows, []string{
			cohortLabel(c.Churned),
			strconv.Itoa(c.Clients),
			formatRatio(c.AvgSMS),
			formatRatio(c.AvgRevenue),
			formatRatio(c.AvgRevenuePerSMS),
		})
	}
	drawTable(pdf, tr,
		[]float64{40, 25, 40, 45, 40},
		[]string{"Cohort", "Clients", "Avg SMS", "Avg Revenue", "Avg Revenue/SMS"},
		summaryRows)

	churnRows := make([][]string, 0, len(report.KPIs.ChurnComparison))
	for _, c := range report.KPIs.ChurnComparison {
		churnRows = append(churnRows, []string{
			c.Month.String(),
			cohortLabel(c.Churned),
			strconv.Itoa(c.Clients),
			formatRatio(c.AvgSMS),
			formatRatio(c.AvgRevenue),
			formatRatio(c.AvgRevenuePerSMS),
		})
	}
	drawTable(pdf, tr,
		[]float64{25, 30, 20, 35, 40, 40},
		[]string{"Month", "Cohort", "Clients", "Avg SMS", "Avg Revenue", "Avg Revenue/SMS"},
		churnRows)

	if report.Summary != nil {
		drawSectionTitle(pdf, "Data Quality")
		qualityRows := make([][]string, 0, len(report.Summary.Tables))
		for _, st := range report.Summary.SortedTables() {
			qualityRows = append(qualityRows, []string{
				string(st.Table),
				strconv.Itoa(st.Read),
				strconv.Itoa(st.Dropped()),
				strconv.Itoa(st.Kept),
			})
		}
		drawTable(pdf, tr,
			[]float64{55, 45, 45, 45},
			[]string{"Table", "Read", "Dropped", "Kept"},
			qualityRows)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d issue(s) recorded during the run.", len(report.Summary.Issues))), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
	pdf.Cell(0, 8, title)
	pdf.Ln(7)

	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+pageWidth, pdf.GetY())
	pdf.Ln(4)
}

// drawHeadline desenha os quatro indicadores principais lado a lado.
func drawHeadline(pdf *gofpdf.Fpdf, tr func(string) string, h entity.Headline) {
	drawSectionTitle(pdf, "Headline")

	cards := []struct{ label, value string }{
		{"Clients", strconv.Itoa(h.Clients)},
		{"Total SMS", formatInt(h.TotalSMS)},
		{"Total Revenue", fmt.Sprintf("%.2f", h.TotalRevenue)},
		{"Revenue per SMS", formatRatio(h.AvgRevenuePerSMS)},
	}
	cardWidth := pageWidth / float64(len(cards))

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(100, 100, 100)
	for _, c := range cards {
		pdf.CellFormat(cardWidth, 5, tr(c.label), "", 0, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	for _, c := range cards {
		pdf.CellFormat(cardWidth, 12, tr(c.value), "", 0, "L", false, 0, "")
	}
	pdf.Ln(16)
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	if len(rows) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, "No data.", "", 1, "L", false, 0, "")
		pdf.Ln(6)
		return
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFillColor(zebraColor[0], zebraColor[1], zebraColor[2])
	for n, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "", 0, align, n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

// drawBars desenha barras horizontais proporcionais ao volume mensal de SMS.
func drawBars(pdf *gofpdf.Fpdf, tr func(string) string, monthly []entity.MonthlyKPI) {
	if len(monthly) == 0 {
		drawTable(pdf, tr, nil, nil, nil)
		return
	}

	var maxSMS int64
	for _, m := range monthly {
		if m.TotalSMS > maxSMS {
			maxSMS = m.TotalSMS
		}
	}

	const labelWidth, valueWidth, barHeight = 25.0, 30.0, 4.0
	barSpace := pageWidth - labelWidth - valueWidth

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFillColor(barColor[0], barColor[1], barColor[2])
	for _, m := range monthly {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(labelWidth, 6, m.Month.String(), "", 0, "L", false, 0, "")
		if maxSMS > 0 && m.TotalSMS > 0 {
			w := barSpace * float64(m.TotalSMS) / float64(maxSMS)
			pdf.Rect(x+labelWidth, y+1, w, barHeight, "F")
		}
		pdf.SetX(x + labelWidth + barSpace)
		pdf.CellFormat(valueWidth, 6, formatInt(m.TotalSMS), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func cohortLabel(churned bool) string {
	if churned {
		return "Churned"
	}
	return "Retained"
}

func formatRatio(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatShare(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func formatChange(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%+.1f%%", *v*100)
}
