package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFacts(t *testing.T) []entity.ClientMonthFact {
	t.Helper()
	res := Aggregate(sampleDataset())
	require.Empty(t, res.Issues)
	return res.Facts
}

func TestMonthlyTotals(t *testing.T) {
	monthly := MonthlyTotals(sampleFacts(t))
	require.Len(t, monthly, 4)

	want := []struct {
		month   entity.Month
		sms     int64
		revenue float64
		appts   int64
	}{
		{month(2022, time.January), 75, 150, 14},
		{month(2022, time.February), 80, 160, 15},
		{month(2023, time.January), 90, 180, 16},
		{month(2023, time.February), 80, 160, 17},
	}
	for i, w := range want {
		got := monthly[i]
		assert.Equal(t, w.month, got.Month)
		assert.Equal(t, w.sms, got.TotalSMS)
		assert.InDelta(t, w.revenue, got.TotalRevenue, 1e-9)
		assert.Equal(t, w.appts, got.TotalAppointments)
		assert.Equal(t, 2, got.ActiveClients)
		require.NotNil(t, got.RevenuePerSMS)
		assert.InDelta(t, 2.0, *got.RevenuePerSMS, 1e-9)
	}
}

func TestMonthlyTotals_ConservesSMSVolume(t *testing.T) {
	ds := sampleDataset()
	cleaned, err := Clean(ds)
	require.NoError(t, err)

	perMonth := map[entity.Month]int64{}
	for _, r := range cleaned.Dataset.SMS {
		perMonth[r.Month] += r.SMSCount
	}

	monthly := MonthlyTotals(Aggregate(cleaned.Dataset).Facts)
	require.Len(t, monthly, len(perMonth))
	for _, m := range monthly {
		assert.Equal(t, perMonth[m.Month], m.TotalSMS, "month %s", m.Month)
	}
}

func TestMonthlyTotals_ZeroVolumeMonth(t *testing.T) {
	m := month(2023, time.March)
	facts := []entity.ClientMonthFact{
		{ClientID: "C1", Month: m, Revenue: 12},
		{ClientID: "C2", Month: m},
	}

	monthly := MonthlyTotals(facts)
	require.Len(t, monthly, 1)
	assert.Equal(t, int64(0), monthly[0].TotalSMS)
	assert.Nil(t, monthly[0].RevenuePerSMS)
}

func TestMessageTypeMix(t *testing.T) {
	mix := MessageTypeMix(sampleFacts(t))

	sums := map[entity.Month]float64{}
	for _, row := range mix {
		require.NotNil(t, row.Share, "%s %s", row.Month, row.MessageType)
		sums[row.Month] += *row.Share
	}
	for m, s := range sums {
		assert.InDelta(t, 1.0, s, 1e-9, "shares of %s", m)
	}

	jan22 := month(2022, time.January)
	var got []entity.MessageTypeShare
	for _, row := range mix {
		if row.Month == jan22 {
			got = append(got, row)
		}
	}
	require.Len(t, got, 2)
	assert.Equal(t, "MARKETING", got[0].MessageType)
	assert.InDelta(t, 10.0/75.0, *got[0].Share, 1e-9)
	assert.Equal(t, "REMINDER", got[1].MessageType)
	assert.Equal(t, int64(65), got[1].SMSCount)
}

func TestMessageTypeMix_ZeroVolumeMonthHasNilShares(t *testing.T) {
	m := month(2023, time.March)
	facts := []entity.ClientMonthFact{
		{ClientID: "C1", Month: m, SMSByType: map[string]int64{"REMINDER": 0}},
	}

	mix := MessageTypeMix(facts)
	require.Len(t, mix, 1)
	assert.Nil(t, mix[0].Share)
}

func TestYearOverYear(t *testing.T) {
	yearly := YearOverYear(MonthlyTotals(sampleFacts(t)))
	require.Len(t, yearly, 2)

	first := yearly[0]
	assert.Equal(t, 2022, first.Year)
	assert.Equal(t, 2, first.Months)
	assert.Nil(t, first.SMSChange)
	assert.Nil(t, first.RevenueChange)
	assert.Nil(t, first.RevenuePerSMSChange)

	second := yearly[1]
	assert.Equal(t, int64(170), second.TotalSMS)
	require.NotNil(t, second.SMSChange)
	assert.InDelta(t, 15.0/155.0, *second.SMSChange, 1e-9)
	require.NotNil(t, second.RevenueChange)
	assert.InDelta(t, 30.0/310.0, *second.RevenueChange, 1e-9)
	require.NotNil(t, second.RevenuePerSMSChange)
	assert.InDelta(t, 0.0, *second.RevenuePerSMSChange, 1e-9)
}

func TestYearOverYear_NoBaseline(t *testing.T) {
	monthly := []entity.MonthlyKPI{
		{Month: month(2020, time.June), TotalSMS: 0, TotalRevenue: 0},
		{Month: month(2021, time.June), TotalSMS: 10, TotalRevenue: 20, RevenuePerSMS: floatPtr(2)},
		{Month: month(2023, time.June), TotalSMS: 30, TotalRevenue: 30, RevenuePerSMS: floatPtr(1)},
	}

	yearly := YearOverYear(monthly)
	require.Len(t, yearly, 3)

	assert.Nil(t, yearly[0].SMSChange, "first year has no baseline")
	assert.Nil(t, yearly[1].SMSChange, "zero baseline must not divide")
	assert.Nil(t, yearly[1].RevenueChange)
	assert.Nil(t, yearly[1].RevenuePerSMSChange)
	assert.Nil(t, yearly[2].SMSChange, "2022 is missing")
}

func TestChurnComparison(t *testing.T) {
	rows := ChurnComparison(sampleFacts(t))
	require.Len(t, rows, 8)

	find := func(m entity.Month, churned bool) entity.ChurnComparison {
		for _, r := range rows {
			if r.Month == m && r.Churned == churned {
				return r
			}
		}
		t.Fatalf("no row for %s churned=%v", m, churned)
		return entity.ChurnComparison{}
	}

	jan22 := find(month(2022, time.January), true)
	assert.Equal(t, entity.CohortOK, jan22.Status)
	assert.Equal(t, 1, jan22.Clients)
	assert.InDelta(t, 25.0, *jan22.AvgSMS, 1e-9)
	assert.InDelta(t, 50.0, *jan22.AvgRevenue, 1e-9)

	feb23 := find(month(2023, time.February), false)
	assert.Equal(t, 2, feb23.Clients)
	assert.InDelta(t, 40.0, *feb23.AvgSMS, 1e-9)
	assert.InDelta(t, 80.0, *feb23.AvgRevenue, 1e-9)
	require.NotNil(t, feb23.AvgRevenuePerSMS)
	assert.InDelta(t, 2.0, *feb23.AvgRevenuePerSMS, 1e-9, "client-months without volume are left out")
}

func TestChurnComparison_OnlyChurnedClientsInMonth(t *testing.T) {
	m := month(2023, time.January)
	facts := []entity.ClientMonthFact{
		{ClientID: "C1", Month: m, TotalSMS: 10, Revenue: 20, RevenuePerSMS: floatPtr(2), Churned: true},
		{ClientID: "C2", Month: m, TotalSMS: 30, Revenue: 30, RevenuePerSMS: floatPtr(1), Churned: true},
	}

	rows := ChurnComparison(facts)
	require.Len(t, rows, 2)

	retained, churned := rows[0], rows[1]
	assert.False(t, retained.Churned)
	assert.Equal(t, entity.CohortInsufficientData, retained.Status)
	assert.Equal(t, 0, retained.Clients)
	assert.Nil(t, retained.AvgSMS)
	assert.Nil(t, retained.AvgRevenue)
	assert.Nil(t, retained.AvgRevenuePerSMS)

	assert.True(t, churned.Churned)
	assert.Equal(t, entity.CohortOK, churned.Status)
	assert.InDelta(t, 20.0, *churned.AvgSMS, 1e-9)
	assert.InDelta(t, 25.0, *churned.AvgRevenue, 1e-9)
	assert.InDelta(t, 1.5, *churned.AvgRevenuePerSMS, 1e-9)

	issues := InsufficientCohorts(rows)
	require.Len(t, issues, 1)
	assert.Equal(t, entity.IssueInsufficient, issues[0].Kind)
	assert.Equal(t, "2023-01/retained", issues[0].Key)
}

func TestChurnSummary(t *testing.T) {
	rows := ChurnSummary(sampleFacts(t))
	require.Len(t, rows, 2)

	retained, churned := rows[0], rows[1]
	assert.Equal(t, 2, retained.Clients)
	assert.InDelta(t, 140.0, *retained.AvgSMS, 1e-9)
	assert.InDelta(t, 280.0, *retained.AvgRevenue, 1e-9)
	assert.InDelta(t, 2.0, *retained.AvgRevenuePerSMS, 1e-9)

	assert.Equal(t, 1, churned.Clients)
	assert.InDelta(t, 45.0, *churned.AvgSMS, 1e-9)
	assert.InDelta(t, 90.0, *churned.AvgRevenue, 1e-9)
}

func TestTopMessageTypes(t *testing.T) {
	facts := sampleFacts(t)

	top := TopMessageTypes(facts, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "REMINDER", top[0].MessageType)
	assert.Equal(t, int64(270), top[0].SMSCount)
	assert.Equal(t, "CONFIRMATION", top[1].MessageType)
	assert.InDelta(t, 45.0/325.0, *top[1].Share, 1e-9)

	assert.Len(t, TopMessageTypes(facts, 0), 3)
}

func TestSummarize(t *testing.T) {
	facts := sampleFacts(t)
	h := Summarize(MonthlyTotals(facts), facts)

	assert.Equal(t, month(2022, time.January), h.FirstMonth)
	assert.Equal(t, month(2023, time.February), h.LastMonth)
	assert.Equal(t, 3, h.Clients)
	assert.Equal(t, int64(325), h.TotalSMS)
	assert.InDelta(t, 650.0, h.TotalRevenue, 1e-9)
	require.NotNil(t, h.AvgRevenuePerSMS)
	assert.InDelta(t, 2.0, *h.AvgRevenuePerSMS, 1e-9)
}

func TestComputeKPIs_NeverProducesNonFiniteValues(t *testing.T) {
	m := month(2023, time.January)
	facts := []entity.ClientMonthFact{
		{ClientID: "C1", Month: m, Revenue: 5, SMSByType: map[string]int64{}},
	}

	kpis := ComputeKPIs(facts, 10)
	check := func(name string, v *float64) {
		if v != nil {
			assert.False(t, math.IsNaN(*v) || math.IsInf(*v, 0), "%s is not finite", name)
		}
	}
	for _, row := range kpis.Monthly {
		check("revenue_per_sms", row.RevenuePerSMS)
	}
	for _, row := range kpis.ChurnComparison {
		check("avg_revenue_per_sms", row.AvgRevenuePerSMS)
	}
	for _, row := range kpis.ChurnSummary {
		check("avg_revenue_per_sms_total", row.AvgRevenuePerSMS)
	}
	check("headline", kpis.Headline.AvgRevenuePerSMS)
	assert.Nil(t, kpis.Monthly[0].RevenuePerSMS)
}
