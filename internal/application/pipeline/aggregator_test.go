package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SingleClientMonth(t *testing.T) {
	m := month(2023, time.January)
	ds := entity.Dataset{
		Clients:      []entity.Client{{ClientID: "C1", Churned: false, SMSUnitCost: 0.03}},
		Revenue:      []entity.RevenueRecord{rev("C1", m, 100)},
		SMS:          []entity.SmsRecord{sms("C1", m, "REMINDER", 50)},
		Appointments: []entity.AppointmentRecord{appt("C1", m, 10)},
	}

	res := Aggregate(ds)
	require.Len(t, res.Facts, 1)

	f := res.Facts[0]
	assert.Equal(t, "C1", f.ClientID)
	assert.Equal(t, m, f.Month)
	assert.Equal(t, int64(50), f.TotalSMS)
	assert.Equal(t, 100.0, f.Revenue)
	require.NotNil(t, f.RevenuePerSMS)
	assert.InDelta(t, 2.0, *f.RevenuePerSMS, 1e-9)
	assert.Equal(t, int64(10), f.AppointmentCount)
	assert.InDelta(t, 1.5, f.EstimatedSMSCost, 1e-9)
	assert.Empty(t, res.Issues)
}

func TestAggregate_ZeroVolumeHasNilRevenuePerSMS(t *testing.T) {
	m := month(2023, time.January)
	ds := entity.Dataset{
		Clients: []entity.Client{{ClientID: "C1"}},
		Revenue: []entity.RevenueRecord{rev("C1", m, 0)},
		SMS: []entity.SmsRecord{
			sms("C1", m, "REMINDER", 0),
			sms("C1", m, "MARKETING", 0),
		},
	}

	res := Aggregate(ds)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, int64(0), res.Facts[0].TotalSMS)
	assert.Nil(t, res.Facts[0].RevenuePerSMS)
}

func TestAggregate_NormalizedTypesAreSummed(t *testing.T) {
	m := month(2023, time.January)
	raw := entity.Dataset{
		Clients:      []entity.Client{{ClientID: "C1"}},
		Revenue:      []entity.RevenueRecord{rev("C1", m, 30)},
		SMS:          []entity.SmsRecord{sms("C1", m, "Reminder", 20), sms("C1", m, "reminder ", 10)},
		Appointments: []entity.AppointmentRecord{appt("C1", m, 1)},
	}

	cleaned, err := Clean(raw)
	require.NoError(t, err)
	res := Aggregate(cleaned.Dataset)

	require.Len(t, res.Facts, 1)
	assert.Equal(t, map[string]int64{"REMINDER": 30}, res.Facts[0].SMSByType)
	assert.Equal(t, int64(30), res.Facts[0].TotalSMS)
}

func TestAggregate_OuterJoinDefaultsMissingMeasuresToZero(t *testing.T) {
	jan, feb, mar := month(2023, time.January), month(2023, time.February), month(2023, time.March)
	ds := entity.Dataset{
		Clients:      []entity.Client{{ClientID: "C1"}},
		Revenue:      []entity.RevenueRecord{rev("C1", jan, 10)},
		SMS:          []entity.SmsRecord{sms("C1", feb, "REMINDER", 5)},
		Appointments: []entity.AppointmentRecord{appt("C1", mar, 7)},
	}

	res := Aggregate(ds)
	require.Len(t, res.Facts, 3)

	assert.Equal(t, jan, res.Facts[0].Month)
	assert.Equal(t, int64(0), res.Facts[0].TotalSMS)
	assert.Nil(t, res.Facts[0].RevenuePerSMS)
	assert.Empty(t, res.Facts[0].SMSByType)

	assert.Equal(t, feb, res.Facts[1].Month)
	assert.Equal(t, 0.0, res.Facts[1].Revenue)
	require.NotNil(t, res.Facts[1].RevenuePerSMS)
	assert.Equal(t, 0.0, *res.Facts[1].RevenuePerSMS)

	assert.Equal(t, mar, res.Facts[2].Month)
	assert.Equal(t, int64(7), res.Facts[2].AppointmentCount)
}

func TestAggregate_ExcludesUnknownClients(t *testing.T) {
	jan, feb := month(2023, time.January), month(2023, time.February)
	ds := entity.Dataset{
		Clients: []entity.Client{{ClientID: "C1"}},
		Revenue: []entity.RevenueRecord{rev("C1", jan, 10), rev("GHOST", jan, 99), rev("GHOST", feb, 1)},
		SMS:     []entity.SmsRecord{sms("C1", jan, "REMINDER", 5), sms("GHOST", jan, "REMINDER", 50)},
	}

	res := Aggregate(ds)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, "C1", res.Facts[0].ClientID)

	require.Len(t, res.Issues, 1)
	is := res.Issues[0]
	assert.Equal(t, entity.IssueMissingClient, is.Kind)
	assert.Equal(t, "GHOST", is.Key)
	assert.True(t, errors.Is(is.Err, types.ErrUnknownClient))

	var mce *types.MissingClientError
	require.True(t, errors.As(is.Err, &mce))
	assert.Equal(t, 2, mce.Months)

	for _, st := range res.Stats {
		switch st.Table {
		case entity.TableRevenue:
			assert.Equal(t, 2, st.Orphaned)
			assert.Equal(t, 1, st.Kept)
		case entity.TableSMS:
			assert.Equal(t, 1, st.Orphaned)
		}
	}
}

func TestAggregate_SumsRepeatedRowsAndAveragesStaff(t *testing.T) {
	m := month(2023, time.January)
	one, three := 1.0, 3.0
	ds := entity.Dataset{
		Clients: []entity.Client{{ClientID: "C1", Region: "UK", Currency: "GBP", Churned: true}},
		Revenue: []entity.RevenueRecord{rev("C1", m, 10), rev("C1", m, 5)},
		Appointments: []entity.AppointmentRecord{
			{ClientID: "C1", Month: m, AppointmentCount: 2, StaffCount: &one},
			{ClientID: "C1", Month: m, AppointmentCount: 3, StaffCount: &three},
			{ClientID: "C1", Month: m, AppointmentCount: 4},
		},
	}

	res := Aggregate(ds)
	require.Len(t, res.Facts, 1)
	f := res.Facts[0]
	assert.Equal(t, 15.0, f.Revenue)
	assert.Equal(t, int64(9), f.AppointmentCount)
	require.NotNil(t, f.AvgStaffCount)
	assert.Equal(t, 2.0, *f.AvgStaffCount)
	assert.Equal(t, "UK", f.Region)
	assert.Equal(t, "GBP", f.Currency)
	assert.True(t, f.Churned)
}

func TestAggregate_Invariants(t *testing.T) {
	ds := sampleDataset()
	ds.SMS = append(ds.SMS, sms("ORPHAN", month(2022, time.January), "REMINDER", 500))

	res := Aggregate(ds)
	require.NotEmpty(t, res.Facts)

	clients := map[string]bool{}
	for _, c := range ds.Clients {
		clients[c.ClientID] = true
	}

	type key struct {
		id string
		m  entity.Month
	}
	seen := map[key]bool{}
	for _, f := range res.Facts {
		assert.Equal(t, f.TotalSMS, f.SMSTypeSum(), "sms_by_type must add up for %s/%s", f.ClientID, f.Month)
		assert.True(t, clients[f.ClientID], "unknown client %s in facts", f.ClientID)

		k := key{f.ClientID, f.Month}
		assert.False(t, seen[k], "duplicate fact key %v", k)
		seen[k] = true

		if f.TotalSMS == 0 {
			assert.Nil(t, f.RevenuePerSMS)
		}
	}
}
