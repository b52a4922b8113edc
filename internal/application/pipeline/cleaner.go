package pipeline

import (
	"fmt"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownMessageType replaces blank message types.
const UnknownMessageType = "UNKNOWN"

// CleanResult is the output of Clean.
type CleanResult struct {
	Dataset entity.Dataset
	Window  entity.Window
	Stats   []entity.TableStats
	Issues  []entity.Issue
}

// NormalizeMessageType maps a raw message type to its canonical form:
// trimmed, inner whitespace collapsed, upper-cased, spaces replaced by "_".
func NormalizeMessageType(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return UnknownMessageType
	}
	return cases.Upper(language.Und).String(strings.Join(fields, "_"))
}

// Clean drops rows without a client id, normalizes message types and
// restricts the monthly tables to their common month window.
func Clean(raw entity.Dataset) (CleanResult, error) {
	var res CleanResult

	clients, clientStats, issues := cleanClients(raw.Clients)
	res.Issues = append(res.Issues, issues...)

	revenue := filterRows(raw.Revenue, func(r entity.RevenueRecord) string { return r.ClientID })
	sms := filterRows(raw.SMS, func(r entity.SmsRecord) string { return r.ClientID })
	appts := filterRows(raw.Appointments, func(r entity.AppointmentRecord) string { return r.ClientID })

	for i := range sms.rows {
		sms.rows[i].MessageType = NormalizeMessageType(sms.rows[i].MessageType)
	}

	window, err := overlapWindow(
		monthRange(entity.TableRevenue, revenue.rows, func(r entity.RevenueRecord) entity.Month { return r.Month }),
		monthRange(entity.TableSMS, sms.rows, func(r entity.SmsRecord) entity.Month { return r.Month }),
		monthRange(entity.TableAppointment, appts.rows, func(r entity.AppointmentRecord) entity.Month { return r.Month }),
	)
	if err != nil {
		return CleanResult{}, err
	}
	res.Window = window

	revKept, revOut := inWindow(revenue.rows, window, func(r entity.RevenueRecord) entity.Month { return r.Month })
	smsKept, smsOut := inWindow(sms.rows, window, func(r entity.SmsRecord) entity.Month { return r.Month })
	apptKept, apptOut := inWindow(appts.rows, window, func(r entity.AppointmentRecord) entity.Month { return r.Month })

	res.Dataset = entity.Dataset{
		Clients:      clients,
		Revenue:      revKept,
		SMS:          smsKept,
		Appointments: apptKept,
	}

	res.Stats = []entity.TableStats{
		clientStats,
		{Table: entity.TableRevenue, MissingID: revenue.missing, OutOfWindow: revOut, Kept: len(revKept)},
		{Table: entity.TableSMS, MissingID: sms.missing, OutOfWindow: smsOut, Kept: len(smsKept)},
		{Table: entity.TableAppointment, MissingID: appts.missing, OutOfWindow: apptOut, Kept: len(apptKept)},
	}
	for _, st := range res.Stats {
		if st.MissingID > 0 {
			res.Issues = append(res.Issues, entity.NewIssue(entity.IssueMissingClientID, st.Table, "",
				fmt.Errorf("%d row(s) without client_id dropped", st.MissingID)))
		}
	}

	return res, nil
}

func cleanClients(rows []entity.Client) ([]entity.Client, entity.TableStats, []entity.Issue) {
	stats := entity.TableStats{Table: entity.TableClients}
	seen := make(map[string]struct{}, len(rows))
	out := make([]entity.Client, 0, len(rows))
	var issues []entity.Issue

	for _, c := range rows {
		id := strings.TrimSpace(c.ClientID)
		if id == "" {
			stats.MissingID++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.Duplicates++
			issues = append(issues, entity.NewIssue(entity.IssueDuplicateClient, entity.TableClients, id,
				fmt.Errorf("client %q listed more than once, first row kept", id)))
			continue
		}
		seen[id] = struct{}{}
		c.ClientID = id
		out = append(out, c)
	}
	stats.Kept = len(out)
	return out, stats, issues
}

type filtered[T any] struct {
	rows    []T
	missing int
}

func filterRows[T any](rows []T, id func(T) string) filtered[T] {
	out := filtered[T]{rows: make([]T, 0, len(rows))}
	for _, r := range rows {
		if strings.TrimSpace(id(r)) == "" {
			out.missing++
			continue
		}
		out.rows = append(out.rows, r)
	}
	return out
}

func monthRange[T any](table entity.TableName, rows []T, month func(T) entity.Month) types.TableRange {
	rng := types.TableRange{Table: string(table), Rows: len(rows)}
	if len(rows) == 0 {
		return rng
	}
	lo, hi := month(rows[0]), month(rows[0])
	for _, r := range rows[1:] {
		m := month(r)
		if m.Before(lo) {
			lo = m
		}
		if m.After(hi) {
			hi = m
		}
	}
	rng.From, rng.To = lo, hi
	return rng
}

// overlapWindow intersects the [min, max] month range of every table.
func overlapWindow(ranges ...types.TableRange) (entity.Window, error) {
	var w entity.Window
	for i, r := range ranges {
		if r.Rows == 0 {
			return entity.Window{}, &types.DataRangeError{Ranges: ranges}
		}
		if i == 0 || r.From.After(w.From) {
			w.From = r.From
		}
		if i == 0 || r.To.Before(w.To) {
			w.To = r.To
		}
	}
	if w.IsEmpty() {
		return entity.Window{}, &types.DataRangeError{Ranges: ranges}
	}
	return w, nil
}

func inWindow[T any](rows []T, w entity.Window, month func(T) entity.Month) ([]T, int) {
	out := make([]T, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		if !w.Contains(month(r)) {
			dropped++
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}
