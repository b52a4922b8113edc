package entity

// RevenueRecord represents the SMS revenue booked for a client in a month.
type RevenueRecord struct {
	ClientID      string  `json:"client_id"`
	Month         Month   `json:"month"`
	RevenueAmount float64 `json:"revenue_amount"`
}

// SmsRecord represents the SMS volume of one message type for a client in a month.
type SmsRecord struct {
	ClientID    string `json:"client_id"`
	Month       Month  `json:"month"`
	MessageType string `json:"message_type"`
	SMSCount    int64  `json:"sms_count"`
}

// AppointmentRecord represents appointment activity for a client in a month.
type AppointmentRecord struct {
	ClientID         string   `json:"client_id"`
	Month            Month    `json:"month"`
	AppointmentCount int64    `json:"appointment_count"`
	StaffCount       *float64 `json:"staff_count,omitempty"`
}
