package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// WarehouseRepositoryImpl grava as tabelas do relatório em um banco SQLite.
type WarehouseRepositoryImpl struct {
	newRunID func() string
}

// NewWarehouseRepository cria uma nova implementação do WarehouseRepository.
func NewWarehouseRepository() repository.WarehouseRepository {
	return &WarehouseRepositoryImpl{newRunID: uuid.NewString}
}

// WriteReport abre (ou cria) o banco em path, aplica as migrações e grava o
// relatório em uma única transação. Retorna o run_id gerado.
func (r *WarehouseRepositoryImpl) WriteReport(ctx context.Context, path string, report *entity.Report) (string, error) {
	if path == "" {
		return "", errors.New("warehouse path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("error creating warehouse directory '%s': %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := Migrate(db); err != nil {
		return "", err
	}

	runID := r.newRunID()
	if err := saveReport(ctx, db, runID, report); err != nil {
		return "", err
	}
	return runID, nil
}

// saveReport insere todas as tabelas sob o mesmo run_id; qualquer falha desfaz a execução inteira.
func saveReport(ctx context.Context, db *sql.DB, runID string, report *entity.Report) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		table string
		fn    func(context.Context, *sql.Tx, string, *entity.Report) error
	}{
		{"runs", insertRun},
		{"monthly_kpis", insertMonthly},
		{"message_type_mix", insertMix},
		{"yearly_trend", insertYearly},
		{"churn_comparison", insertChurn},
		{"churn_summary", insertChurnSummary},
		{"client_month_fact", insertFacts},
		{"run_issues", insertIssues},
	}
	for _, step := range steps {
		if err = step.fn(ctx, tx, runID, report); err != nil {
			return fmt.Errorf("failed to write %s: %w", step.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit warehouse run: %w", err)
	}
	return nil
}

// generatedAtLayout has a fixed width so generated_at sorts chronologically as text.
const generatedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func insertRun(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	issues := 0
	if report.Summary != nil {
		issues = len(report.Summary.Issues)
	}
	h := report.KPIs.Headline
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, generated_at, window_from, window_to, clients, total_sms, total_revenue, issues)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, generated.UTC().Format(generatedAtLayout), report.Window.From.String(), report.Window.To.String(),
		h.Clients, h.TotalSMS, h.TotalRevenue, issues)
	return err
}

func insertMonthly(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, m := range report.KPIs.Monthly {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_kpis (run_id, month, active_clients, total_sms, total_revenue, revenue_per_sms, total_appointments)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, m.Month.String(), m.ActiveClients, m.TotalSMS, m.TotalRevenue, nullFloat(m.RevenuePerSMS), m.TotalAppointments); err != nil {
			return err
		}
	}
	return nil
}

func insertMix(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, s := range report.KPIs.MessageTypeMix {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO message_type_mix (run_id, month, message_type, sms_count, share) VALUES (?, ?, ?, ?, ?)`,
			runID, s.Month.String(), s.MessageType, s.SMSCount, nullFloat(s.Share)); err != nil {
			return err
		}
	}
	return nil
}

func insertYearly(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, y := range report.KPIs.Yearly {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO yearly_trend (run_id, year, months, total_sms, total_revenue, revenue_per_sms, sms_change, revenue_change, revenue_per_sms_change)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, y.Year, y.Months, y.TotalSMS, y.TotalRevenue, nullFloat(y.RevenuePerSMS),
			nullFloat(y.SMSChange), nullFloat(y.RevenueChange), nullFloat(y.RevenuePerSMSChange)); err != nil {
			return err
		}
	}
	return nil
}

func insertChurn(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, c := range report.KPIs.ChurnComparison {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO churn_comparison (run_id, month, churned, clients, status, avg_sms, avg_revenue, avg_revenue_per_sms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Month.String(), c.Churned, c.Clients, string(c.Status),
			nullFloat(c.AvgSMS), nullFloat(c.AvgRevenue), nullFloat(c.AvgRevenuePerSMS)); err != nil {
			return err
		}
	}
	return nil
}

func insertChurnSummary(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, c := range report.KPIs.ChurnSummary {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO churn_summary (run_id, churned, clients, status, avg_sms_total, avg_revenue_total, avg_revenue_per_sms_total)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Churned, c.Clients, string(c.Status),
			nullFloat(c.AvgSMS), nullFloat(c.AvgRevenue), nullFloat(c.AvgRevenuePerSMS)); err != nil {
			return err
		}
	}
	return nil
}

// insertFacts grava a tabela de fatos e, em client_month_sms, o detalhamento por tipo de mensagem.
func insertFacts(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	for _, f := range report.Facts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO client_month_fact (run_id, client_id, month, total_sms, revenue, revenue_per_sms, appointment_count,
			 avg_staff_count, estimated_sms_cost, region, currency, churned)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, f.ClientID, f.Month.String(), f.TotalSMS, f.Revenue, nullFloat(f.RevenuePerSMS), f.AppointmentCount,
			nullFloat(f.AvgStaffCount), f.EstimatedSMSCost, nullString(f.Region), nullString(f.Currency), f.Churned); err != nil {
			return err
		}

		msgTypes := make([]string, 0, len(f.SMSByType))
		for mt := range f.SMSByType {
			msgTypes = append(msgTypes, mt)
		}
		sort.Strings(msgTypes)
		for _, mt := range msgTypes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO client_month_sms (run_id, client_id, month, message_type, sms_count) VALUES (?, ?, ?, ?, ?)`,
				runID, f.ClientID, f.Month.String(), mt, f.SMSByType[mt]); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertIssues(ctx context.Context, tx *sql.Tx, runID string, report *entity.Report) error {
	if report.Summary == nil {
		return nil
	}
	for _, is := range report.Summary.Issues {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_issues (run_id, kind, table_name, issue_key, message) VALUES (?, ?, ?, ?, ?)`,
			runID, string(is.Kind), nullString(string(is.Table)), nullString(is.Key), is.Message); err != nil {
			return err
		}
	}
	return nil
}

// nullFloat grava valores indefinidos como NULL.
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
