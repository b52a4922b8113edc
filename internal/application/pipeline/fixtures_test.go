package pipeline

import (
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

func month(y int, m time.Month) entity.Month {
	return entity.NewMonth(y, m)
}

func rev(id string, m entity.Month, amount float64) entity.RevenueRecord {
	return entity.RevenueRecord{ClientID: id, Month: m, RevenueAmount: amount}
}

func sms(id string, m entity.Month, typ string, n int64) entity.SmsRecord {
	return entity.SmsRecord{ClientID: id, Month: m, MessageType: typ, SMSCount: n}
}

func appt(id string, m entity.Month, n int64) entity.AppointmentRecord {
	return entity.AppointmentRecord{ClientID: id, Month: m, AppointmentCount: n}
}

func floatPtr(v float64) *float64 { return &v }

// sampleDataset covers two years, both cohorts and several message types.
func sampleDataset() entity.Dataset {
	jan22, feb22 := month(2022, time.January), month(2022, time.February)
	jan23, feb23 := month(2023, time.January), month(2023, time.February)
	return entity.Dataset{
		Clients: []entity.Client{
			{ClientID: "C1", Region: "UK", SMSUnitCost: 0.02, Currency: "GBP"},
			{ClientID: "C2", Region: "AU", SMSUnitCost: 0.05, Currency: "AUD", Churned: true},
			{ClientID: "C3", Region: "UK", SMSUnitCost: 0.02, Currency: "GBP"},
		},
		Revenue: []entity.RevenueRecord{
			rev("C1", jan22, 100), rev("C2", jan22, 50),
			rev("C1", feb22, 120), rev("C2", feb22, 40),
			rev("C1", jan23, 150), rev("C3", jan23, 30),
			rev("C1", feb23, 160), rev("C3", feb23, 0),
		},
		SMS: []entity.SmsRecord{
			sms("C1", jan22, "REMINDER", 40), sms("C1", jan22, "MARKETING", 10),
			sms("C2", jan22, "REMINDER", 25),
			sms("C1", feb22, "REMINDER", 60),
			sms("C2", feb22, "CONFIRMATION", 20),
			sms("C1", jan23, "REMINDER", 50), sms("C1", jan23, "CONFIRMATION", 25),
			sms("C3", jan23, "REMINDER", 15),
			sms("C1", feb23, "REMINDER", 80),
			sms("C3", feb23, "REMINDER", 0),
		},
		Appointments: []entity.AppointmentRecord{
			appt("C1", jan22, 10), appt("C2", jan22, 4),
			appt("C1", feb22, 12), appt("C2", feb22, 3),
			appt("C1", jan23, 14), appt("C3", jan23, 2),
			appt("C1", feb23, 16), appt("C3", feb23, 1),
		},
	}
}
