package entity

// TableName identifies one of the four source tables.
type TableName string

const (
	TableClients     TableName = "clients"
	TableRevenue     TableName = "revenue"
	TableSMS         TableName = "sms"
	TableAppointment TableName = "appointment"
)

// SourceTables lists the source tables in load order.
var SourceTables = []TableName{TableClients, TableRevenue, TableSMS, TableAppointment}

// SourceFiles holds the path of each source table.
type SourceFiles struct {
	Clients     string `json:"clients"`
	Revenue     string `json:"revenue"`
	SMS         string `json:"sms"`
	Appointment string `json:"appointment"`
}

// Path returns the configured path for a table.
func (s SourceFiles) Path(table TableName) string {
	switch table {
	case TableClients:
		return s.Clients
	case TableRevenue:
		return s.Revenue
	case TableSMS:
		return s.SMS
	case TableAppointment:
		return s.Appointment
	}
	return ""
}

// Dataset is one read-only snapshot of the four source tables.
type Dataset struct {
	Clients      []Client
	Revenue      []RevenueRecord
	SMS          []SmsRecord
	Appointments []AppointmentRecord
}

// RowCount returns the number of rows held for a table.
func (d Dataset) RowCount(table TableName) int {
	switch table {
	case TableClients:
		return len(d.Clients)
	case TableRevenue:
		return len(d.Revenue)
	case TableSMS:
		return len(d.SMS)
	case TableAppointment:
		return len(d.Appointments)
	}
	return 0
}

// LoadResult is what a dataset repository hands to the pipeline.
type LoadResult struct {
	Dataset Dataset
	Stats   []TableStats
	Issues  []Issue
}
