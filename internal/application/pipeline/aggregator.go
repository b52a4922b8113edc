package pipeline

import (
	"sort"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// AggregateResult is the output of Aggregate.
type AggregateResult struct {
	Facts  []entity.ClientMonthFact
	Stats  []entity.TableStats
	Issues []entity.Issue
}

type factKey struct {
	clientID string
	month    entity.Month
}

type factBuilder struct {
	fact       entity.ClientMonthFact
	staffSum   float64
	staffRows  int
	rowsByName map[entity.TableName]int
}

// Aggregate outer-joins revenue, SMS and appointment rows on (client, month)
// and enriches each key from the client dimension. Absent measures default
// to zero; keys whose client is unknown are excluded and reported.
func Aggregate(ds entity.Dataset) AggregateResult {
	builders := make(map[factKey]*factBuilder)
	get := func(id string, m entity.Month, table entity.TableName) *factBuilder {
		k := factKey{clientID: id, month: m}
		b, ok := builders[k]
		if !ok {
			b = &factBuilder{
				fact: entity.ClientMonthFact{
					ClientID:  id,
					Month:     m,
					SMSByType: make(map[string]int64),
				},
				rowsByName: make(map[entity.TableName]int),
			}
			builders[k] = b
		}
		b.rowsByName[table]++
		return b
	}

	for _, r := range ds.Revenue {
		b := get(r.ClientID, r.Month, entity.TableRevenue)
		b.fact.Revenue += r.RevenueAmount
	}
	for _, r := range ds.SMS {
		b := get(r.ClientID, r.Month, entity.TableSMS)
		b.fact.SMSByType[r.MessageType] += r.SMSCount
		b.fact.TotalSMS += r.SMSCount
	}
	for _, r := range ds.Appointments {
		b := get(r.ClientID, r.Month, entity.TableAppointment)
		b.fact.AppointmentCount += r.AppointmentCount
		if r.StaffCount != nil {
			b.staffSum += *r.StaffCount
			b.staffRows++
		}
	}

	clients := make(map[string]entity.Client, len(ds.Clients))
	for _, c := range ds.Clients {
		clients[c.ClientID] = c
	}

	var res AggregateResult
	orphanMonths := make(map[string]int)
	orphanRows := make(map[entity.TableName]int)

	for k, b := range builders {
		c, ok := clients[k.clientID]
		if !ok {
			orphanMonths[k.clientID]++
			for t, n := range b.rowsByName {
				orphanRows[t] += n
			}
			continue
		}
		f := b.fact
		f.RevenuePerSMS = Ratio(f.Revenue, float64(f.TotalSMS))
		if b.staffRows > 0 {
			avg := b.staffSum / float64(b.staffRows)
			f.AvgStaffCount = &avg
		}
		f.EstimatedSMSCost = float64(f.TotalSMS) * c.SMSUnitCost
		f.Region = c.Region
		f.Currency = c.Currency
		f.Churned = c.Churned
		res.Facts = append(res.Facts, f)
	}

	sort.Slice(res.Facts, func(i, j int) bool {
		a, b := res.Facts[i], res.Facts[j]
		if a.Month != b.Month {
			return a.Month.Before(b.Month)
		}
		return a.ClientID < b.ClientID
	})

	orphans := make([]string, 0, len(orphanMonths))
	for id := range orphanMonths {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		err := &types.MissingClientError{ClientID: id, Months: orphanMonths[id]}
		res.Issues = append(res.Issues, entity.NewIssue(entity.IssueMissingClient, "", id, err))
	}

	for _, t := range []entity.TableName{entity.TableRevenue, entity.TableSMS, entity.TableAppointment} {
		res.Stats = append(res.Stats, entity.TableStats{
			Table:    t,
			Orphaned: orphanRows[t],
			Kept:     ds.RowCount(t) - orphanRows[t],
		})
	}

	return res
}

// Ratio divides num by den and returns nil instead of a non-finite value.
func Ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

