package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// DatasetRepositoryImpl implementa o DatasetRepository lendo arquivos CSV.
type DatasetRepositoryImpl struct{}

// NewDatasetRepository cria uma nova implementação do DatasetRepository.
func NewDatasetRepository() repository.DatasetRepository {
	return &DatasetRepositoryImpl{}
}

// Load reads every source table. Missing files and missing required columns
// are fatal. Rows with an unparseable required value are dropped and reported;
// a bad optional value is reported and left at its zero value.
func (r *DatasetRepositoryImpl) Load(ctx context.Context, sources entity.SourceFiles) (*entity.LoadResult, error) {
	res := &entity.LoadResult{}

	for _, table := range entity.SourceTables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := readTable(SchemaFor(table), sources.Path(table))
		if err != nil {
			return nil, err
		}

		var stats entity.TableStats
		var issues []entity.Issue
		switch table {
		case entity.TableClients:
			res.Dataset.Clients, stats, issues = parseRows(t, buildClient)
		case entity.TableRevenue:
			res.Dataset.Revenue, stats, issues = parseRows(t, buildRevenue)
		case entity.TableSMS:
			res.Dataset.SMS, stats, issues = parseRows(t, buildSMS)
		case entity.TableAppointment:
			res.Dataset.Appointments, stats, issues = parseRows(t, buildAppointment)
		}
		res.Stats = append(res.Stats, stats)
		res.Issues = append(res.Issues, issues...)
	}

	return res, nil
}

// table is a source file whose header has been validated against its schema.
type table struct {
	schema Schema
	path   string
	idx    map[string]int
	rows   [][]string
	lines  []int
}

func readTable(schema Schema, path string) (*table, error) {
	name := string(schema.Table)
	if path == "" {
		return nil, &types.SourceFileError{Table: name, Path: path, Err: errors.New("no path configured")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &types.SourceFileError{Table: name, Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		header = nil
	} else if err != nil {
		return nil, &types.SourceFileError{Table: name, Path: path, Err: err}
	}

	idx, missing := schema.Resolve(header)
	if missing != "" {
		return nil, &types.SchemaError{Table: name, Path: path, Column: missing}
	}

	t := &table{schema: schema, path: path, idx: idx}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.SourceFileError{Table: name, Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// row gives typed access to one CSV record.
type row struct {
	table  entity.TableName
	line   int
	fields []string
	idx    map[string]int
	// soft collects failures on optional columns; the row is kept.
	soft *[]*types.RowError
}

func (r row) raw(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) fail(col string, err error) *types.RowError {
	return &types.RowError{Table: string(r.table), Line: r.line, Column: col, Value: r.raw(col), Err: err}
}

// optional records err against the row without rejecting it.
func (r row) optional(err *types.RowError) {
	if err != nil && r.soft != nil {
		*r.soft = append(*r.soft, err)
	}
}

func (r row) decimal(col string, required bool) (*float64, *types.RowError) {
	v := r.raw(col)
	if v == "" {
		if required {
			return nil, r.fail(col, errors.New("empty value"))
		}
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, r.fail(col, errors.New("not a number"))
	}
	return &f, nil
}

func (r row) count(col string) (int64, *types.RowError) {
	v := r.raw(col)
	if v == "" {
		return 0, r.fail(col, errors.New("empty value"))
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// pandas writes integer columns with NaNs as floats ("12.0").
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, r.fail(col, errors.New("not an integer"))
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, r.fail(col, errors.New("negative count"))
	}
	return n, nil
}

func (r row) month(col string) (entity.Month, *types.RowError) {
	m, err := entity.ParseMonth(r.raw(col))
	if err != nil {
		return entity.Month{}, r.fail(col, err)
	}
	return m, nil
}

func (r row) date(col string) (time.Time, *types.RowError) {
	v := r.raw(col)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, r.fail(col, errors.New("unrecognised date"))
}

func (r row) boolean(col string) (bool, *types.RowError) {
	switch strings.ToLower(r.raw(col)) {
	case "1", "true", "t", "yes", "y", "1.0":
		return true, nil
	case "0", "false", "f", "no", "n", "0.0":
		return false, nil
	}
	return false, r.fail(col, errors.New("not a boolean"))
}

// parseRows converts every record with build. Records without a client id
// are passed through with only that field empty so the cleaner can count them.
func parseRows[T any](t *table, build func(row) (T, *types.RowError)) ([]T, entity.TableStats, []entity.Issue) {
	stats := entity.TableStats{Table: t.schema.Table, Read: len(t.rows)}
	out := make([]T, 0, len(t.rows))
	var issues []entity.Issue

	for i, fields := range t.rows {
		var soft []*types.RowError
		r := row{table: t.schema.Table, line: t.lines[i], fields: fields, idx: t.idx, soft: &soft}
		if r.raw(ColClientID) == "" {
			var zero T
			out = append(out, zero)
			continue
		}
		rec, rowErr := build(r)
		if rowErr != nil {
			stats.Invalid++
			issues = append(issues, entity.NewIssue(entity.IssueInvalidValue, t.schema.Table,
				fmt.Sprintf("line %d", r.line), rowErr))
			continue
		}
		for _, e := range soft {
			issues = append(issues, entity.NewIssue(entity.IssueInvalidValue, t.schema.Table,
				fmt.Sprintf("line %d", r.line), e))
		}
		out = append(out, rec)
	}
	stats.Kept = len(out)
	return out, stats, issues
}

func buildClient(r row) (entity.Client, *types.RowError) {
	c := entity.Client{
		ClientID: r.raw(ColClientID),
		Region:   r.raw(ColRegion),
		Currency: strings.ToUpper(r.raw(ColCurrency)),
	}
	cost, err := r.decimal(ColSMSUnitCost, false)
	r.optional(err)
	if cost != nil {
		c.SMSUnitCost = *cost
	}
	c.GoLiveDate, err = r.date(ColGoLiveDate)
	r.optional(err)
	if c.Churned, err = r.boolean(ColChurned); err != nil {
		return c, err
	}
	return c, nil
}

func buildRevenue(r row) (entity.RevenueRecord, *types.RowError) {
	rec := entity.RevenueRecord{ClientID: r.raw(ColClientID)}
	var err *types.RowError
	if rec.Month, err = r.month(ColMonth); err != nil {
		return rec, err
	}
	amount, err := r.decimal(ColRevenueAmount, true)
	if err != nil {
		return rec, err
	}
	rec.RevenueAmount = *amount
	return rec, nil
}

func buildSMS(r row) (entity.SmsRecord, *types.RowError) {
	rec := entity.SmsRecord{
		ClientID:    r.raw(ColClientID),
		MessageType: r.raw(ColMessageType),
	}
	var err *types.RowError
	if rec.Month, err = r.month(ColMonth); err != nil {
		return rec, err
	}
	if rec.SMSCount, err = r.count(ColSMSCount); err != nil {
		return rec, err
	}
	return rec, nil
}

func buildAppointment(r row) (entity.AppointmentRecord, *types.RowError) {
	rec := entity.AppointmentRecord{ClientID: r.raw(ColClientID)}
	var err *types.RowError
	if rec.Month, err = r.month(ColMonth); err != nil {
		return rec, err
	}
	if rec.AppointmentCount, err = r.count(ColAppointmentCount); err != nil {
		return rec, err
	}
	rec.StaffCount, err = r.decimal(ColStaffCount, false)
	r.optional(err)
	return rec, nil
}
