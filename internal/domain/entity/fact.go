package entity

import "sort"

// ClientMonthFact is one client's activity in one calendar month.
type ClientMonthFact struct {
	ClientID         string           `json:"client_id"`
	Month            Month            `json:"month"`
	TotalSMS         int64            `json:"total_sms"`
	Revenue          float64          `json:"revenue"`
	RevenuePerSMS    *float64         `json:"revenue_per_sms"`
	AppointmentCount int64            `json:"appointment_count"`
	AvgStaffCount    *float64         `json:"avg_staff_count,omitempty"`
	SMSByType        map[string]int64 `json:"sms_by_type"`
	EstimatedSMSCost float64          `json:"estimated_sms_cost"`
	Region           string           `json:"region,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	Churned          bool             `json:"churned"`
}

// SMSTypeSum adds up the per-type counts.
func (f ClientMonthFact) SMSTypeSum() int64 {
	var n int64
	for _, c := range f.SMSByType {
		n += c
	}
	return n
}

// MessageTypes returns every message type seen in the facts, sorted.
func MessageTypes(facts []ClientMonthFact) []string {
	seen := make(map[string]struct{})
	for _, f := range facts {
		for t := range f.SMSByType {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
