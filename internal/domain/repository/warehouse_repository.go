package repository

import (
	"context"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

// WarehouseRepository stores report tables in a SQL database and returns the run id.
type WarehouseRepository interface {
	WriteReport(ctx context.Context, path string, report *entity.Report) (string, error)
}
