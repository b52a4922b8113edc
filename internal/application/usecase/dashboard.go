package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/diillson/sms-kpi-dashboard-go/pkg/console"
)

// maxListedIssues limita quantas ocorrências são listadas individualmente no resumo.
const maxListedIssues = 20

// renderDashboard exibe o painel da execução no console.
func (uc *ReportUseCase) renderDashboard(report *entity.Report) {
	kpis := report.KPIs

	monthly := uc.console.CreateTable()
	for _, col := range []string{"Month", "Active Clients", "SMS", "Revenue", "Revenue/SMS", "Appointments"} {
		monthly.AddColumn(col)
	}
	for _, m := range kpis.Monthly {
		monthly.AddRow(m.Month.String(), m.ActiveClients, m.TotalSMS, fmt.Sprintf("%.2f", m.TotalRevenue), formatRatio(m.RevenuePerSMS), m.TotalAppointments)
	}
	uc.console.Println(monthly.Render())

	smsValues := make([]types.MonthlyValue, 0, len(kpis.Monthly))
	revenueValues := make([]types.MonthlyValue, 0, len(kpis.Monthly))
	for _, m := range kpis.Monthly {
		smsValues = append(smsValues, types.MonthlyValue{Month: m.Month.String(), Value: float64(m.TotalSMS)})
		revenueValues = append(revenueValues, types.MonthlyValue{Month: m.Month.String(), Value: m.TotalRevenue})
	}
	uc.console.DisplayTrendBars("Monthly SMS Volume", smsValues, "sms")
	uc.console.DisplayTrendBars("Monthly Revenue", revenueValues, "")

	if len(kpis.Yearly) > 0 {
		yearly := uc.console.CreateTable()
		for _, col := range []string{"Year", "Months", "SMS", "Revenue", "Revenue/SMS", "SMS YoY", "Revenue YoY", "Revenue/SMS YoY"} {
			yearly.AddColumn(col)
		}
		for _, y := range kpis.Yearly {
			yearly.AddRow(y.Year, y.Months, y.TotalSMS, fmt.Sprintf("%.2f", y.TotalRevenue), formatRatio(y.RevenuePerSMS),
				formatChange(y.SMSChange), formatChange(y.RevenueChange), formatChange(y.RevenuePerSMSChange))
		}
		uc.console.Println(yearly.Render())
	}

	if len(kpis.TopMessageTypes) > 0 {
		top := uc.console.CreateTable()
		for _, col := range []string{"#", "Message Type", "SMS", "Share"} {
			top.AddColumn(col)
		}
		for i, t := range kpis.TopMessageTypes {
			top.AddRow(i+1, t.MessageType, t.SMSCount, formatShare(t.Share))
		}
		uc.console.Println(top.Render())
	}

	churn := uc.console.CreateTable()
	for _, col := range []string{"Month", "Cohort", "Clients", "Avg SMS", "Avg Revenue", "Avg Revenue/SMS", "Status"} {
		churn.AddColumn(col)
	}
	for _, c := range kpis.ChurnComparison {
		churn.AddRow(c.Month.String(), cohortLabel(c.Churned), c.Clients, formatRatio(c.AvgSMS), formatRatio(c.AvgRevenue), formatRatio(c.AvgRevenuePerSMS), c.Status)
	}
	for _, c := range kpis.ChurnSummary {
		churn.AddRow("total", cohortLabel(c.Churned), c.Clients, formatRatio(c.AvgSMS), formatRatio(c.AvgRevenue), formatRatio(c.AvgRevenuePerSMS), c.Status)
	}
	uc.console.Println(churn.Render())

	uc.console.DisplayPanel("Headline", headlineText(report.Window, kpis.Headline))
}

func headlineText(window entity.Window, h entity.Headline) string {
	lines := []string{
		fmt.Sprintf("Window:          %s", window),
		fmt.Sprintf("Clients:         %d", h.Clients),
		fmt.Sprintf("Total SMS:       %d", h.TotalSMS),
		fmt.Sprintf("Total revenue:   %.2f", h.TotalRevenue),
		fmt.Sprintf("Revenue per SMS: %s", formatRatio(h.AvgRevenuePerSMS)),
	}
	return strings.Join(lines, "\n")
}

// printRunSummary é exibido mesmo com --quiet: linhas lidas e descartadas por tabela e as ocorrências.
func (uc *ReportUseCase) printRunSummary(summary *entity.RunSummary) {
	if summary == nil {
		return
	}

	table := uc.console.CreateTable()
	for _, col := range []string{"Table", "Read", "Invalid", "Missing ID", "Duplicates", "Out of Window", "Orphaned", "Kept"} {
		table.AddColumn(col)
	}
	for _, st := range summary.SortedTables() {
		table.AddRow(console.BrightCyan(st.Table), st.Read,
			dropped(st.Invalid, console.BoldRed), dropped(st.MissingID, console.BoldRed),
			dropped(st.Duplicates, console.BrightYellow), dropped(st.OutOfWindow, console.BrightYellow),
			dropped(st.Orphaned, console.BoldRed), console.BrightGreen(st.Kept))
	}
	uc.console.Println(table.Render())

	window := console.BrightMagenta(summary.Window.String())
	if len(summary.Issues) == 0 {
		uc.console.LogSuccess("Run completed for %s with no data issues", window)
		return
	}

	counts := make(map[entity.IssueKind]int)
	for _, is := range summary.Issues {
		counts[is.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[entity.IssueKind(k)]))
	}
	uc.console.LogWarning("Run completed for %s with %d data issue(s): %s", window, len(summary.Issues), strings.Join(parts, ", "))

	for i, is := range summary.Issues {
		if i == maxListedIssues {
			uc.console.LogWarning("... and %d more", len(summary.Issues)-maxListedIssues)
			break
		}
		uc.console.LogWarning("[%s] %s", is.Kind, is.Message)
	}
}

// dropped destaca contagens diferentes de zero.
func dropped(n int, paint func(a ...interface{}) string) string {
	if n == 0 {
		return "0"
	}
	return paint(n)
}

func cohortLabel(churned bool) string {
	if churned {
		return "churned"
	}
	return "retained"
}

func formatRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatShare(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func formatChange(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *v*100)
}
