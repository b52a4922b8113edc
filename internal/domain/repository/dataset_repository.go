package repository

import (
	"context"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

// DatasetRepository loads the four source tables into typed records.
type DatasetRepository interface {
	Load(ctx context.Context, sources entity.SourceFiles) (*entity.LoadResult, error)
}
