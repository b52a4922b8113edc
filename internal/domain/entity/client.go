package entity

import "time"

// Client represents one row of the client dimension.
type Client struct {
	ClientID    string    `json:"client_id"`
	Region      string    `json:"region,omitempty"`
	SMSUnitCost float64   `json:"sms_unit_cost"`
	GoLiveDate  time.Time `json:"go_live_date,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Churned     bool      `json:"churned"`
}
