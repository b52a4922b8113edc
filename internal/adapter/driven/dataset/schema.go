package dataset

import (
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

// Kind is the type a column is parsed into.
type Kind int

const (
	KindString Kind = iota
	KindDecimal
	KindCount
	KindMonth
	KindDate
	KindBool
)

// Column describes one named, typed column of a source table.
type Column struct {
	Name     string
	Aliases  []string
	Kind     Kind
	Required bool
}

// Schema is the fixed column layout of a source table.
type Schema struct {
	Table   entity.TableName
	Columns []Column
}

// Column names shared by the schemas.
const (
	ColClientID         = "client_id"
	ColRegion           = "region"
	ColSMSUnitCost      = "sms_unit_cost"
	ColGoLiveDate       = "go_live_date"
	ColCurrency         = "currency"
	ColChurned          = "churned"
	ColMonth            = "month"
	ColRevenueAmount    = "revenue_amount"
	ColMessageType      = "message_type"
	ColSMSCount         = "sms_count"
	ColAppointmentCount = "appointment_count"
	ColStaffCount       = "staff_count"
)

var (
	clientID = Column{Name: ColClientID, Kind: KindString, Required: true}
	month    = Column{Name: ColMonth, Aliases: []string{"year_month"}, Kind: KindMonth, Required: true}
)

// ClientsSchema describes clients.csv.
var ClientsSchema = Schema{
	Table: entity.TableClients,
	Columns: []Column{
		clientID,
		{Name: ColRegion, Kind: KindString},
		{Name: ColSMSUnitCost, Aliases: []string{"sms_cost"}, Kind: KindDecimal},
		{Name: ColGoLiveDate, Aliases: []string{"golive_date"}, Kind: KindDate},
		{Name: ColCurrency, Aliases: []string{"billing_currency"}, Kind: KindString},
		{Name: ColChurned, Aliases: []string{"churned_flag"}, Kind: KindBool, Required: true},
	},
}

// RevenueSchema describes revenue.csv.
var RevenueSchema = Schema{
	Table: entity.TableRevenue,
	Columns: []Column{
		clientID,
		month,
		{Name: ColRevenueAmount, Aliases: []string{"sms_revenue_loc", "sms_revenue"}, Kind: KindDecimal, Required: true},
	},
}

// SMSSchema describes sms.csv.
var SMSSchema = Schema{
	Table: entity.TableSMS,
	Columns: []Column{
		clientID,
		month,
		{Name: ColMessageType, Kind: KindString, Required: true},
		{Name: ColSMSCount, Kind: KindCount, Required: true},
	},
}

// AppointmentSchema describes appointment.csv.
var AppointmentSchema = Schema{
	Table: entity.TableAppointment,
	Columns: []Column{
		clientID,
		month,
		{Name: ColAppointmentCount, Aliases: []string{"total_active_appointment_count"}, Kind: KindCount, Required: true},
		{Name: ColStaffCount, Kind: KindDecimal},
	},
}

// SchemaFor returns the schema of a source table.
func SchemaFor(table entity.TableName) Schema {
	switch table {
	case entity.TableClients:
		return ClientsSchema
	case entity.TableRevenue:
		return RevenueSchema
	case entity.TableSMS:
		return SMSSchema
	default:
		return AppointmentSchema
	}
}

// Resolve maps each schema column to its index in header. The first missing
// required column is returned by name; optional columns are simply absent.
func (s Schema) Resolve(header []string) (map[string]int, string) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = normalizeHeader(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make(map[string]int, len(s.Columns))
	for _, c := range s.Columns {
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			if i, ok := pos[name]; ok {
				idx[c.Name] = i
				break
			}
		}
		if _, ok := idx[c.Name]; !ok && c.Required {
			return nil, c.Name
		}
	}
	return idx, ""
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}
