package export

import (
	"strconv"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

// Nomes das tabelas exportadas; também usados como nome base dos arquivos CSV.
const (
	TableMonthlyKPIs     = "monthly_kpis"
	TableMessageTypeMix  = "message_type_mix"
	TableChurnComparison = "churn_comparison"
	TableClientMonthFact = "client_month_fact"
	TableYearlyTrend     = "yearly_trend"
	TableChurnSummary    = "churn_summary"
)

// flatTable é uma tabela já convertida em texto, pronta para CSV.
type flatTable struct {
	name   string
	header []string
	rows   [][]string
}

// reportTables achata o relatório nas tabelas consumidas pelas ferramentas de dashboard.
func reportTables(report *entity.Report) []flatTable {
	return []flatTable{
		monthlyTable(report.KPIs.Monthly),
		mixTable(report.KPIs.MessageTypeMix),
		churnTable(report.KPIs.ChurnComparison),
		factTable(report.Facts),
		yearlyTable(report.KPIs.Yearly),
		churnSummaryTable(report.KPIs.ChurnSummary),
	}
}

func monthlyTable(rows []entity.MonthlyKPI) flatTable {
	t := flatTable{
		name:   TableMonthlyKPIs,
		header: []string{"month", "total_sms", "total_revenue", "revenue_per_sms", "active_clients", "total_appointments"},
	}
	for _, m := range rows {
		t.rows = append(t.rows, []string{
			m.Month.String(),
			formatInt(m.TotalSMS),
			formatFloat(m.TotalRevenue),
			formatOptional(m.RevenuePerSMS),
			strconv.Itoa(m.ActiveClients),
			formatInt(m.TotalAppointments),
		})
	}
	return t
}

func mixTable(rows []entity.MessageTypeShare) flatTable {
	t := flatTable{
		name:   TableMessageTypeMix,
		header: []string{"month", "message_type", "share", "sms_count"},
	}
	for _, s := range rows {
		t.rows = append(t.rows, []string{
			s.Month.String(),
			s.MessageType,
			formatOptional(s.Share),
			formatInt(s.SMSCount),
		})
	}
	return t
}

func churnTable(rows []entity.ChurnComparison) flatTable {
	t := flatTable{
		name:   TableChurnComparison,
		header: []string{"month", "churned", "avg_sms", "avg_revenue", "avg_revenue_per_sms", "clients", "status"},
	}
	for _, c := range rows {
		t.rows = append(t.rows, []string{
			c.Month.String(),
			strconv.FormatBool(c.Churned),
			formatOptional(c.AvgSMS),
			formatOptional(c.AvgRevenue),
			formatOptional(c.AvgRevenuePerSMS),
			strconv.Itoa(c.Clients),
			string(c.Status),
		})
	}
	return t
}

// factTable expande SMSByType em colunas sms_<TYPE>, na ordem alfabética dos tipos.
func factTable(facts []entity.ClientMonthFact) flatTable {
	msgTypes := entity.MessageTypes(facts)
	header := []string{
		"client_id", "month", "total_sms", "revenue", "revenue_per_sms",
		"appointment_count", "avg_staff_count", "estimated_sms_cost",
		"region", "currency", "churned",
	}
	for _, mt := range msgTypes {
		header = append(header, "sms_"+mt)
	}

	t := flatTable{name: TableClientMonthFact, header: header}
	for _, f := range facts {
		row := []string{
			f.ClientID,
			f.Month.String(),
			formatInt(f.TotalSMS),
			formatFloat(f.Revenue),
			formatOptional(f.RevenuePerSMS),
			formatInt(f.AppointmentCount),
			formatOptional(f.AvgStaffCount),
			formatFloat(f.EstimatedSMSCost),
			f.Region,
			f.Currency,
			strconv.FormatBool(f.Churned),
		}
		for _, mt := range msgTypes {
			row = append(row, formatInt(f.SMSByType[mt]))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func yearlyTable(rows []entity.YearlyTrend) flatTable {
	t := flatTable{
		name: TableYearlyTrend,
		header: []string{
			"year", "months", "total_sms", "total_revenue", "revenue_per_sms",
			"sms_change", "revenue_change", "revenue_per_sms_change",
		},
	}
	for _, y := range rows {
		t.rows = append(t.rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Months),
			formatInt(y.TotalSMS),
			formatFloat(y.TotalRevenue),
			formatOptional(y.RevenuePerSMS),
			formatOptional(y.SMSChange),
			formatOptional(y.RevenueChange),
			formatOptional(y.RevenuePerSMSChange),
		})
	}
	return t
}

func churnSummaryTable(rows []entity.ChurnSummary) flatTable {
	t := flatTable{
		name:   TableChurnSummary,
		header: []string{"churned", "clients", "status", "avg_sms_total", "avg_revenue_total", "avg_revenue_per_sms_total"},
	}
	for _, c := range rows {
		t.rows = append(t.rows, []string{
			strconv.FormatBool(c.Churned),
			strconv.Itoa(c.Clients),
			string(c.Status),
			formatOptional(c.AvgSMS),
			formatOptional(c.AvgRevenue),
			formatOptional(c.AvgRevenuePerSMS),
		})
	}
	return t
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional escreve uma célula vazia para valores indefinidos.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
