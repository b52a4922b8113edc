package pipeline

import (
	"fmt"
	"sort"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

// ComputeKPIs derives every KPI table from a fact table. topTypes limits the
// message-type ranking; zero or less keeps every type.
func ComputeKPIs(facts []entity.ClientMonthFact, topTypes int) entity.KPISet {
	monthly := MonthlyTotals(facts)
	return entity.KPISet{
		Monthly:         monthly,
		MessageTypeMix:  MessageTypeMix(facts),
		Yearly:          YearOverYear(monthly),
		ChurnComparison: ChurnComparison(facts),
		ChurnSummary:    ChurnSummary(facts),
		TopMessageTypes: TopMessageTypes(facts, topTypes),
		Headline:        Summarize(monthly, facts),
	}
}

// MonthlyTotals sums SMS volume, revenue and appointments per calendar month.
// Revenue per SMS is derived from the sums, never averaged from client ratios.
func MonthlyTotals(facts []entity.ClientMonthFact) []entity.MonthlyKPI {
	byMonth := make(map[entity.Month]*entity.MonthlyKPI)
	for _, f := range facts {
		k, ok := byMonth[f.Month]
		if !ok {
			k = &entity.MonthlyKPI{Month: f.Month}
			byMonth[f.Month] = k
		}
		k.ActiveClients++
		k.TotalSMS += f.TotalSMS
		k.TotalRevenue += f.Revenue
		k.TotalAppointments += f.AppointmentCount
	}

	out := make([]entity.MonthlyKPI, 0, len(byMonth))
	for _, k := range byMonth {
		k.RevenuePerSMS = Ratio(k.TotalRevenue, float64(k.TotalSMS))
		out = append(out, *k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// MessageTypeMix returns, per month, the share of SMS volume of each message type.
func MessageTypeMix(facts []entity.ClientMonthFact) []entity.MessageTypeShare {
	type key struct {
		month entity.Month
		typ   string
	}
	counts := make(map[key]int64)
	totals := make(map[entity.Month]int64)
	for _, f := range facts {
		totals[f.Month] += f.TotalSMS
		for t, n := range f.SMSByType {
			counts[key{f.Month, t}] += n
		}
	}

	out := make([]entity.MessageTypeShare, 0, len(counts))
	for k, n := range counts {
		out = append(out, entity.MessageTypeShare{
			Month:       k.month,
			MessageType: k.typ,
			SMSCount:    n,
			Share:       Ratio(float64(n), float64(totals[k.month])),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].MessageType < out[j].MessageType
	})
	return out
}

// YearOverYear groups monthly totals by calendar year and compares each year
// with the one right before it. Without that baseline the change is nil.
func YearOverYear(monthly []entity.MonthlyKPI) []entity.YearlyTrend {
	byYear := make(map[int]*entity.YearlyTrend)
	for _, m := range monthly {
		y, ok := byYear[m.Month.Year]
		if !ok {
			y = &entity.YearlyTrend{Year: m.Month.Year}
			byYear[m.Month.Year] = y
		}
		y.Months++
		y.TotalSMS += m.TotalSMS
		y.TotalRevenue += m.TotalRevenue
	}

	out := make([]entity.YearlyTrend, 0, len(byYear))
	for _, y := range byYear {
		y.RevenuePerSMS = Ratio(y.TotalRevenue, float64(y.TotalSMS))
		out = append(out, *y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], &out[i]
		if prev.Year != cur.Year-1 {
			continue
		}
		cur.SMSChange = change(float64(cur.TotalSMS), float64(prev.TotalSMS))
		cur.RevenueChange = change(cur.TotalRevenue, prev.TotalRevenue)
		if cur.RevenuePerSMS != nil && prev.RevenuePerSMS != nil {
			cur.RevenuePerSMSChange = change(*cur.RevenuePerSMS, *prev.RevenuePerSMS)
		}
	}
	return out
}

func change(cur, prev float64) *float64 {
	return Ratio(cur-prev, prev)
}

// ChurnComparison averages client-month activity per month for the churned
// and the retained cohort. A cohort without members in a month is marked as
// insufficient data instead of being averaged over an empty set.
func ChurnComparison(facts []entity.ClientMonthFact) []entity.ChurnComparison {
	type key struct {
		month   entity.Month
		churned bool
	}
	groups := make(map[key][]entity.ClientMonthFact)
	months := make(map[entity.Month]struct{})
	for _, f := range facts {
		months[f.Month] = struct{}{}
		k := key{f.Month, f.Churned}
		groups[k] = append(groups[k], f)
	}

	sorted := make([]entity.Month, 0, len(months))
	for m := range months {
		sorted = append(sorted, m)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := make([]entity.ChurnComparison, 0, len(sorted)*2)
	for _, m := range sorted {
		for _, churned := range []bool{false, true} {
			row := entity.ChurnComparison{Month: m, Churned: churned}
			members := groups[key{m, churned}]
			row.Clients = len(members)
			if len(members) == 0 {
				row.Status = entity.CohortInsufficientData
				out = append(out, row)
				continue
			}
			row.Status = entity.CohortOK
			var sms, revenue float64
			var ratios []float64
			for _, f := range members {
				sms += float64(f.TotalSMS)
				revenue += f.Revenue
				if f.RevenuePerSMS != nil {
					ratios = append(ratios, *f.RevenuePerSMS)
				}
			}
			n := float64(len(members))
			row.AvgSMS = Ratio(sms, n)
			row.AvgRevenue = Ratio(revenue, n)
			row.AvgRevenuePerSMS = mean(ratios)
			out = append(out, row)
		}
	}
	return out
}

// ChurnSummary compares the cohorts on per-client totals over the whole window.
func ChurnSummary(facts []entity.ClientMonthFact) []entity.ChurnSummary {
	type totals struct {
		sms     int64
		revenue float64
		churned bool
	}
	perClient := make(map[string]*totals)
	for _, f := range facts {
		t, ok := perClient[f.ClientID]
		if !ok {
			t = &totals{churned: f.Churned}
			perClient[f.ClientID] = t
		}
		t.sms += f.TotalSMS
		t.revenue += f.Revenue
	}

	out := make([]entity.ChurnSummary, 0, 2)
	for _, churned := range []bool{false, true} {
		row := entity.ChurnSummary{Churned: churned}
		var sms, revenue float64
		var ratios []float64
		for _, t := range perClient {
			if t.churned != churned {
				continue
			}
			row.Clients++
			sms += float64(t.sms)
			revenue += t.revenue
			if r := Ratio(t.revenue, float64(t.sms)); r != nil {
				ratios = append(ratios, *r)
			}
		}
		if row.Clients == 0 {
			row.Status = entity.CohortInsufficientData
			out = append(out, row)
			continue
		}
		row.Status = entity.CohortOK
		n := float64(row.Clients)
		row.AvgSMS = Ratio(sms, n)
		row.AvgRevenue = Ratio(revenue, n)
		row.AvgRevenuePerSMS = mean(ratios)
		out = append(out, row)
	}
	return out
}

// TopMessageTypes ranks message types by whole-window volume, ties by name.
func TopMessageTypes(facts []entity.ClientMonthFact, n int) []entity.MessageTypeVolume {
	counts := make(map[string]int64)
	var total int64
	for _, f := range facts {
		total += f.TotalSMS
		for t, c := range f.SMSByType {
			counts[t] += c
		}
	}

	out := make([]entity.MessageTypeVolume, 0, len(counts))
	for t, c := range counts {
		out = append(out, entity.MessageTypeVolume{
			MessageType: t,
			SMSCount:    c,
			Share:       Ratio(float64(c), float64(total)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SMSCount != out[j].SMSCount {
			return out[i].SMSCount > out[j].SMSCount
		}
		return out[i].MessageType < out[j].MessageType
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize builds the headline numbers of a run.
func Summarize(monthly []entity.MonthlyKPI, facts []entity.ClientMonthFact) entity.Headline {
	var h entity.Headline
	if len(monthly) > 0 {
		h.FirstMonth = monthly[0].Month
		h.LastMonth = monthly[len(monthly)-1].Month
	}
	var ratios []float64
	for _, m := range monthly {
		h.TotalSMS += m.TotalSMS
		h.TotalRevenue += m.TotalRevenue
		if m.RevenuePerSMS != nil {
			ratios = append(ratios, *m.RevenuePerSMS)
		}
	}
	h.AvgRevenuePerSMS = mean(ratios)

	clients := make(map[string]struct{})
	for _, f := range facts {
		clients[f.ClientID] = struct{}{}
	}
	h.Clients = len(clients)
	return h
}

// InsufficientCohorts turns churn rows that could not be computed into issues.
func InsufficientCohorts(rows []entity.ChurnComparison) []entity.Issue {
	var issues []entity.Issue
	for _, r := range rows {
		if r.Status != entity.CohortInsufficientData {
			continue
		}
		cohort := "retained"
		if r.Churned {
			cohort = "churned"
		}
		key := fmt.Sprintf("%s/%s", r.Month, cohort)
		issues = append(issues, entity.NewIssue(entity.IssueInsufficient, "", key,
			fmt.Errorf("%s: no %s clients, churn comparison not computed", r.Month, cohort)))
	}
	return issues
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Ratio(sum, float64(len(values)))
}
