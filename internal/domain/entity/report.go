package entity

import "time"

// Report is the full output of one pipeline run, handed to exporters.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Window      Window            `json:"window"`
	Facts       []ClientMonthFact `json:"client_month_fact"`
	KPIs        KPISet            `json:"kpis"`
	Summary     *RunSummary       `json:"run_summary"`
}

// PublishedObject records one uploaded report artifact.
type PublishedObject struct {
	File   string `json:"file"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Error  string `json:"error,omitempty"`
}
