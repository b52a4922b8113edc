package entity

// MonthlyKPI holds the totals of one calendar month across all clients.
type MonthlyKPI struct {
	Month             Month    `json:"month"`
	ActiveClients     int      `json:"active_clients"`
	TotalSMS          int64    `json:"total_sms"`
	TotalRevenue      float64  `json:"total_revenue"`
	TotalAppointments int64    `json:"total_appointments"`
	RevenuePerSMS     *float64 `json:"revenue_per_sms"`
}

// MessageTypeShare is the part of a month's SMS volume sent as one message type.
type MessageTypeShare struct {
	Month       Month    `json:"month"`
	MessageType string   `json:"message_type"`
	SMSCount    int64    `json:"sms_count"`
	Share       *float64 `json:"share"`
}

// YearlyTrend holds the totals of a calendar year and the change against the previous one.
// Change fields are fractions (0.25 means +25%) and nil when no baseline exists.
type YearlyTrend struct {
	Year                int      `json:"year"`
	Months              int      `json:"months"`
	TotalSMS            int64    `json:"total_sms"`
	TotalRevenue        float64  `json:"total_revenue"`
	RevenuePerSMS       *float64 `json:"revenue_per_sms"`
	SMSChange           *float64 `json:"sms_change"`
	RevenueChange       *float64 `json:"revenue_change"`
	RevenuePerSMSChange *float64 `json:"revenue_per_sms_change"`
}

// CohortStatus tells whether a churn cohort row could be computed.
type CohortStatus string

const (
	CohortOK               CohortStatus = "ok"
	CohortInsufficientData CohortStatus = "insufficient_data"
)

// ChurnComparison holds the per-month averages of one churn cohort.
type ChurnComparison struct {
	Month            Month        `json:"month"`
	Churned          bool         `json:"churned"`
	Clients          int          `json:"clients"`
	Status           CohortStatus `json:"status"`
	AvgSMS           *float64     `json:"avg_sms"`
	AvgRevenue       *float64     `json:"avg_revenue"`
	AvgRevenuePerSMS *float64     `json:"avg_revenue_per_sms"`
}

// ChurnSummary compares cohorts on whole-window client totals.
type ChurnSummary struct {
	Churned          bool         `json:"churned"`
	Clients          int          `json:"clients"`
	Status           CohortStatus `json:"status"`
	AvgSMS           *float64     `json:"avg_sms_total"`
	AvgRevenue       *float64     `json:"avg_revenue_total"`
	AvgRevenuePerSMS *float64     `json:"avg_revenue_per_sms_total"`
}

// MessageTypeVolume is the whole-window volume of one message type.
type MessageTypeVolume struct {
	MessageType string   `json:"message_type"`
	SMSCount    int64    `json:"sms_count"`
	Share       *float64 `json:"share"`
}

// Headline is the short summary printed at the end of a run.
type Headline struct {
	FirstMonth       Month    `json:"first_month"`
	LastMonth        Month    `json:"last_month"`
	Clients          int      `json:"clients"`
	TotalSMS         int64    `json:"total_sms"`
	TotalRevenue     float64  `json:"total_revenue"`
	AvgRevenuePerSMS *float64 `json:"avg_revenue_per_sms"`
}

// KPISet bundles every KPI computed from one fact table.
type KPISet struct {
	Monthly         []MonthlyKPI        `json:"monthly_kpis"`
	MessageTypeMix  []MessageTypeShare  `json:"message_type_mix"`
	Yearly          []YearlyTrend       `json:"yearly_trend"`
	ChurnComparison []ChurnComparison   `json:"churn_comparison"`
	ChurnSummary    []ChurnSummary      `json:"churn_summary"`
	TopMessageTypes []MessageTypeVolume `json:"top_message_types"`
	Headline        Headline            `json:"headline"`
}
